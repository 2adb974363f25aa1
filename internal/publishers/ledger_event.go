package publishers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Behyna/pawn-services/internal/service"
	"github.com/Behyna/pawn-services/pkg/mq"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ledgerEventPublisher struct {
	publisher mq.Publisher
	exchange  string
	logger    *zap.Logger
}

// NewLedgerEventPublisher fans committed ledger events out on exchange.
func NewLedgerEventPublisher(publisher mq.Publisher, exchange string, logger *zap.Logger) service.EventPublisher {
	return &ledgerEventPublisher{publisher: publisher, exchange: exchange, logger: logger}
}

func (p *ledgerEventPublisher) Publish(ctx context.Context, event service.LedgerEvent) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal ledger event: %w", err)
	}

	msg := mq.Message{ID: event.ID, Type: string(event.Type), Body: body}
	if err := p.publisher.Publish(ctx, p.exchange, "", msg); err != nil {
		p.logger.Error("Failed to publish ledger event",
			zap.String("eventID", event.ID),
			zap.String("type", string(event.Type)),
			zap.Int64("transactionID", event.TransactionID),
			zap.Error(err))
		return err
	}

	p.logger.Debug("Ledger event published",
		zap.String("eventID", event.ID),
		zap.String("type", string(event.Type)),
		zap.Int64("transactionID", event.TransactionID))

	return nil
}
