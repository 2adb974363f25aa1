package mocks

import (
	"context"

	"github.com/Behyna/pawn-services/internal/model"
	"github.com/stretchr/testify/mock"
)

type AuditRepository struct {
	mock.Mock
}

func (m *AuditRepository) Append(ctx context.Context, entries []model.AuditEntry) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

func (m *AuditRepository) ListByTransaction(ctx context.Context, transactionID int64) ([]model.AuditEntry, error) {
	args := m.Called(ctx, transactionID)
	entries, _ := args.Get(0).([]model.AuditEntry)
	return entries, args.Error(1)
}
