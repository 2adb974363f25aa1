package metrics

import (
	"time"

	"github.com/Behyna/pawn-services/internal/service"
)

// InstrumentedCache counts hits and misses of the wrapped balance cache.
type InstrumentedCache struct {
	next    service.BalanceCache
	metrics *Metrics
}

func NewInstrumentedCache(next service.BalanceCache, metrics *Metrics) service.BalanceCache {
	return &InstrumentedCache{next: next, metrics: metrics}
}

func (c *InstrumentedCache) Get(transactionID int64, asOf time.Time) (*service.BalanceBreakdown, bool) {
	balance, ok := c.next.Get(transactionID, asOf)
	c.metrics.RecordCacheLookup(ok)
	return balance, ok
}

func (c *InstrumentedCache) Set(transactionID int64, asOf time.Time, balance *service.BalanceBreakdown) {
	c.next.Set(transactionID, asOf, balance)
}

func (c *InstrumentedCache) Invalidate(transactionID int64) {
	c.next.Invalidate(transactionID)
}
