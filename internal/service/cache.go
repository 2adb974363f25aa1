package service

import (
	"sync"
	"time"
)

// BalanceCache holds computed balances for a short time. Entries are keyed by
// transaction id and evaluation day.
type BalanceCache interface {
	Get(transactionID int64, asOf time.Time) (*BalanceBreakdown, bool)
	Set(transactionID int64, asOf time.Time, balance *BalanceBreakdown)
	Invalidate(transactionID int64)
}

type cacheEntry struct {
	balance   BalanceBreakdown
	expiresAt time.Time
}

type MemoryBalanceCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[int64]map[string]cacheEntry
}

func NewMemoryBalanceCache(ttl time.Duration, now func() time.Time) *MemoryBalanceCache {
	if now == nil {
		now = time.Now
	}

	return &MemoryBalanceCache{
		ttl:     ttl,
		now:     now,
		entries: make(map[int64]map[string]cacheEntry),
	}
}

func (c *MemoryBalanceCache) Get(transactionID int64, asOf time.Time) (*BalanceBreakdown, bool) {
	if c.ttl <= 0 {
		return nil, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	byDay, ok := c.entries[transactionID]
	if !ok {
		return nil, false
	}

	key := dayKey(asOf)
	entry, ok := byDay[key]
	if !ok {
		return nil, false
	}

	if !c.now().Before(entry.expiresAt) {
		delete(byDay, key)
		if len(byDay) == 0 {
			delete(c.entries, transactionID)
		}
		return nil, false
	}

	balance := entry.balance
	return &balance, true
}

func (c *MemoryBalanceCache) Set(transactionID int64, asOf time.Time, balance *BalanceBreakdown) {
	if c.ttl <= 0 || balance == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	byDay, ok := c.entries[transactionID]
	if !ok {
		byDay = make(map[string]cacheEntry)
		c.entries[transactionID] = byDay
	}

	byDay[dayKey(asOf)] = cacheEntry{balance: *balance, expiresAt: c.now().Add(c.ttl)}
}

func (c *MemoryBalanceCache) Invalidate(transactionID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, transactionID)
}

func dayKey(t time.Time) string {
	return t.Format(time.DateOnly)
}
