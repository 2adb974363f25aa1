package service

import (
	"context"
	"time"

	"github.com/Behyna/pawn-services/internal/model"
)

type EventType string

const (
	EventTransactionCreated  EventType = "transaction.created"
	EventPaymentReceived     EventType = "payment.received"
	EventPaymentVoided       EventType = "payment.voided"
	EventExtensionProcessed  EventType = "extension.processed"
	EventExtensionCancelled  EventType = "extension.cancelled"
	EventStatusChanged       EventType = "status.changed"
	EventOverdueFeeSet       EventType = "overdue_fee.set"
	EventTransactionVoided   EventType = "transaction.voided"
	EventTransactionCanceled EventType = "transaction.canceled"
)

// LedgerEvent announces a committed change to a transaction.
type LedgerEvent struct {
	ID            string       `json:"id"`
	Type          EventType    `json:"type"`
	TransactionID int64        `json:"transaction_id"`
	Status        model.Status `json:"status"`
	Version       int64        `json:"version"`
	OccurredAt    time.Time    `json:"occurred_at"`
}

type EventPublisher interface {
	Publish(ctx context.Context, event LedgerEvent) error
}
