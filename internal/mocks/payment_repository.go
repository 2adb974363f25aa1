package mocks

import (
	"context"
	"time"

	"github.com/Behyna/pawn-services/internal/model"
	"github.com/stretchr/testify/mock"
)

type PaymentRepository struct {
	mock.Mock
}

func (m *PaymentRepository) Create(ctx context.Context, payment *model.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *PaymentRepository) Update(ctx context.Context, payment *model.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *PaymentRepository) GetByID(ctx context.Context, id int64) (*model.Payment, error) {
	args := m.Called(ctx, id)
	payment, _ := args.Get(0).(*model.Payment)
	return payment, args.Error(1)
}

func (m *PaymentRepository) ListByTransaction(ctx context.Context, transactionID int64, includeVoided bool) ([]model.Payment, error) {
	args := m.Called(ctx, transactionID, includeVoided)
	payments, _ := args.Get(0).([]model.Payment)
	return payments, args.Error(1)
}

func (m *PaymentRepository) CountVoidedSince(ctx context.Context, transactionID int64, since time.Time) (int64, error) {
	args := m.Called(ctx, transactionID, since)
	return args.Get(0).(int64), args.Error(1)
}
