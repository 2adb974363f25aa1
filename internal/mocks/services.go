package mocks

import (
	"context"
	"time"

	"github.com/Behyna/pawn-services/internal/model"
	"github.com/Behyna/pawn-services/internal/service"
	"github.com/stretchr/testify/mock"
)

type TransactionService struct {
	mock.Mock
}

func (m *TransactionService) CreateTransaction(ctx context.Context, cmd service.CreateTransactionCommand) (*model.PawnTransaction, error) {
	args := m.Called(ctx, cmd)
	txn, _ := args.Get(0).(*model.PawnTransaction)
	return txn, args.Error(1)
}

func (m *TransactionService) GetTransaction(ctx context.Context, id int64) (*service.TransactionDetails, error) {
	args := m.Called(ctx, id)
	details, _ := args.Get(0).(*service.TransactionDetails)
	return details, args.Error(1)
}

func (m *TransactionService) SetOverdueFee(ctx context.Context, cmd service.SetOverdueFeeCommand) (*model.PawnTransaction, error) {
	args := m.Called(ctx, cmd)
	txn, _ := args.Get(0).(*model.PawnTransaction)
	return txn, args.Error(1)
}

func (m *TransactionService) ListPayments(ctx context.Context, id int64, includeVoided bool) ([]model.Payment, error) {
	args := m.Called(ctx, id, includeVoided)
	payments, _ := args.Get(0).([]model.Payment)
	return payments, args.Error(1)
}

func (m *TransactionService) ListExtensions(ctx context.Context, id int64, includeCancelled bool) ([]model.Extension, error) {
	args := m.Called(ctx, id, includeCancelled)
	extensions, _ := args.Get(0).([]model.Extension)
	return extensions, args.Error(1)
}

type PaymentService struct {
	mock.Mock
}

func (m *PaymentService) ProcessPayment(ctx context.Context, cmd service.ProcessPaymentCommand) (*model.Payment, error) {
	args := m.Called(ctx, cmd)
	payment, _ := args.Get(0).(*model.Payment)
	return payment, args.Error(1)
}

type ExtensionService struct {
	mock.Mock
}

func (m *ExtensionService) ProcessExtension(ctx context.Context, cmd service.ProcessExtensionCommand) (*model.Extension, error) {
	args := m.Called(ctx, cmd)
	extension, _ := args.Get(0).(*model.Extension)
	return extension, args.Error(1)
}

type StatusService struct {
	mock.Mock
}

func (m *StatusService) UpdateStatus(ctx context.Context, cmd service.UpdateStatusCommand) (*model.PawnTransaction, error) {
	args := m.Called(ctx, cmd)
	txn, _ := args.Get(0).(*model.PawnTransaction)
	return txn, args.Error(1)
}

func (m *StatusService) VoidTransaction(ctx context.Context, cmd service.VoidTransactionCommand) (*model.PawnTransaction, error) {
	args := m.Called(ctx, cmd)
	txn, _ := args.Get(0).(*model.PawnTransaction)
	return txn, args.Error(1)
}

func (m *StatusService) CancelTransaction(ctx context.Context, cmd service.CancelTransactionCommand) (*model.PawnTransaction, error) {
	args := m.Called(ctx, cmd)
	txn, _ := args.Get(0).(*model.PawnTransaction)
	return txn, args.Error(1)
}

func (m *StatusService) MarkOverdue(ctx context.Context, asOf time.Time, limit int) (int, error) {
	args := m.Called(ctx, asOf, limit)
	return args.Int(0), args.Error(1)
}

type BalanceService struct {
	mock.Mock
}

func (m *BalanceService) CalculateBalance(ctx context.Context, transactionID int64, asOf *time.Time) (*service.BalanceBreakdown, error) {
	args := m.Called(ctx, transactionID, asOf)
	balance, _ := args.Get(0).(*service.BalanceBreakdown)
	return balance, args.Error(1)
}

func (m *BalanceService) PayoffAmount(ctx context.Context, transactionID int64, asOf *time.Time) (*service.Payoff, error) {
	args := m.Called(ctx, transactionID, asOf)
	payoff, _ := args.Get(0).(*service.Payoff)
	return payoff, args.Error(1)
}

type ReversalService struct {
	mock.Mock
}

func (m *ReversalService) VoidPayment(ctx context.Context, cmd service.VoidPaymentCommand) (*model.Payment, error) {
	args := m.Called(ctx, cmd)
	payment, _ := args.Get(0).(*model.Payment)
	return payment, args.Error(1)
}

func (m *ReversalService) CancelExtension(ctx context.Context, cmd service.CancelExtensionCommand) (*model.Extension, error) {
	args := m.Called(ctx, cmd)
	extension, _ := args.Get(0).(*model.Extension)
	return extension, args.Error(1)
}
