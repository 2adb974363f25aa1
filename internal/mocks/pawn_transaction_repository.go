package mocks

import (
	"context"
	"time"

	"github.com/Behyna/pawn-services/internal/model"
	"github.com/stretchr/testify/mock"
)

type PawnTransactionRepository struct {
	mock.Mock
}

func (m *PawnTransactionRepository) Create(ctx context.Context, txn *model.PawnTransaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *PawnTransactionRepository) GetByID(ctx context.Context, id int64) (*model.PawnTransaction, error) {
	args := m.Called(ctx, id)
	txn, _ := args.Get(0).(*model.PawnTransaction)
	return txn, args.Error(1)
}

func (m *PawnTransactionRepository) GetWithAuditLog(ctx context.Context, id int64) (*model.PawnTransaction, error) {
	args := m.Called(ctx, id)
	txn, _ := args.Get(0).(*model.PawnTransaction)
	return txn, args.Error(1)
}

func (m *PawnTransactionRepository) GetForUpdate(ctx context.Context, id int64) (*model.PawnTransaction, error) {
	args := m.Called(ctx, id)
	txn, _ := args.Get(0).(*model.PawnTransaction)
	return txn, args.Error(1)
}

func (m *PawnTransactionRepository) Save(ctx context.Context, txn *model.PawnTransaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *PawnTransactionRepository) FindMaturedOpen(ctx context.Context, asOf time.Time, limit int) ([]model.PawnTransaction, error) {
	args := m.Called(ctx, asOf, limit)
	txns, _ := args.Get(0).([]model.PawnTransaction)
	return txns, args.Error(1)
}
