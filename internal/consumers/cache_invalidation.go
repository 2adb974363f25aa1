package consumers

import (
	"context"
	"encoding/json"

	"github.com/Behyna/pawn-services/internal/service"
	"github.com/Behyna/pawn-services/pkg/mq"
	"go.uber.org/zap"
)

type CacheInvalidationConsumer interface {
	Consume(ctx context.Context, queue string) error
}

type cacheInvalidationConsumer struct {
	cache    service.BalanceCache
	consumer mq.Consumer
	prefetch int
	logger   *zap.Logger
}

// NewCacheInvalidationConsumer drops cached balances of transactions changed
// by other processes, such as the overdue worker.
func NewCacheInvalidationConsumer(cache service.BalanceCache, consumer mq.Consumer, prefetch int,
	logger *zap.Logger) CacheInvalidationConsumer {
	return &cacheInvalidationConsumer{cache: cache, consumer: consumer, prefetch: prefetch, logger: logger}
}

func (c *cacheInvalidationConsumer) Consume(ctx context.Context, queue string) error {
	return c.consumer.Consume(ctx, c.prefetch, queue, c.HandleMessage)
}

// HandleMessage never asks for redelivery: a malformed event cannot become
// valid on retry.
func (c *cacheInvalidationConsumer) HandleMessage(ctx context.Context, body []byte) error {
	var event service.LedgerEvent
	if err := json.Unmarshal(body, &event); err != nil {
		c.logger.Warn("invalid ledger event", zap.Error(err))
		return nil
	}

	if event.TransactionID <= 0 {
		c.logger.Warn("ledger event without transaction", zap.String("eventID", event.ID))
		return nil
	}

	c.cache.Invalidate(event.TransactionID)

	c.logger.Debug("balance cache invalidated",
		zap.String("eventID", event.ID),
		zap.String("type", string(event.Type)),
		zap.Int64("transactionID", event.TransactionID))

	return nil
}
