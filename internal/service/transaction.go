package service

import (
	"context"

	"github.com/Behyna/pawn-services/internal/ledger"
	"github.com/Behyna/pawn-services/internal/model"
	"github.com/Behyna/pawn-services/internal/repository"
	"go.uber.org/zap"
)

type TransactionService interface {
	CreateTransaction(ctx context.Context, cmd CreateTransactionCommand) (*model.PawnTransaction, error)
	GetTransaction(ctx context.Context, id int64) (*TransactionDetails, error)
	SetOverdueFee(ctx context.Context, cmd SetOverdueFeeCommand) (*model.PawnTransaction, error)
	ListPayments(ctx context.Context, id int64, includeVoided bool) ([]model.Payment, error)
	ListExtensions(ctx context.Context, id int64, includeCancelled bool) ([]model.Extension, error)
}

type Transaction struct {
	writer        *LedgerWriter
	txRepo        repository.PawnTransactionRepository
	paymentRepo   repository.PaymentRepository
	extensionRepo repository.ExtensionRepository
	logger        *zap.Logger
}

func NewTransactionService(writer *LedgerWriter, txRepo repository.PawnTransactionRepository,
	paymentRepo repository.PaymentRepository, extensionRepo repository.ExtensionRepository,
	logger *zap.Logger) TransactionService {
	return &Transaction{writer: writer, txRepo: txRepo, paymentRepo: paymentRepo,
		extensionRepo: extensionRepo, logger: logger}
}

// CreateTransaction records a new pawn. Maturity and grace period end are
// always derived from the pawn date.
func (t *Transaction) CreateTransaction(ctx context.Context, cmd CreateTransactionCommand) (*model.PawnTransaction, error) {
	if cmd.LoanAmount <= 0 {
		return nil, validationError("loan amount must be greater than zero")
	}
	if cmd.MonthlyInterestAmount < 0 {
		return nil, validationError("monthly interest amount must not be negative")
	}
	if cmd.CustomerID == "" {
		return nil, validationError("customer id is required")
	}

	now := t.writer.now()
	pawnDate := now
	if cmd.PawnDate != nil {
		pawnDate = *cmd.PawnDate
	}
	pawnDate = ledger.Date(pawnDate)
	maturity := ledger.MaturityDate(pawnDate)

	txn := &model.PawnTransaction{
		CustomerID:            cmd.CustomerID,
		LoanAmount:            cmd.LoanAmount,
		MonthlyInterestAmount: cmd.MonthlyInterestAmount,
		PawnDate:              pawnDate,
		MaturityDate:          maturity,
		GracePeriodEnd:        ledger.GracePeriodEnd(maturity),
		Status:                model.StatusActive,
		Version:               1,
		CreatedBy:             cmd.CreatedBy,
		CreatedAt:             now,
		UpdatedAt:             now,
	}

	err := t.writer.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := t.txRepo.Create(ctx, txn); err != nil {
			t.logger.Error("Failed to create pawn transaction",
				zap.String("customerID", cmd.CustomerID),
				zap.Error(err))
			return storageError(err)
		}

		c := &change{staff: cmd.CreatedBy, now: now}
		c.audit(txn, model.AuditActionCreated, amountPtr(txn.LoanAmount), "", txn.Status.String(), "")

		if err := t.writer.auditRepo.Append(ctx, c.audits); err != nil {
			return storageError(err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	t.writer.committed(ctx, txn, EventTransactionCreated, now)

	t.logger.Info("Pawn transaction created",
		zap.Int64("transactionID", txn.ID),
		zap.String("customerID", txn.CustomerID),
		zap.Int64("loanAmount", txn.LoanAmount))

	return txn, nil
}

// GetTransaction returns the stored transaction with its audit log. The
// automatic OVERDUE rule is reported, not persisted.
func (t *Transaction) GetTransaction(ctx context.Context, id int64) (*TransactionDetails, error) {
	txn, err := t.txRepo.GetWithAuditLog(ctx, id)
	if err != nil {
		return nil, storageError(err)
	}

	effective, _ := ledger.AutoOverdue(txn.Status, txn.MaturityDate, t.writer.now())

	return &TransactionDetails{Transaction: txn, EffectiveStatus: effective}, nil
}

func (t *Transaction) SetOverdueFee(ctx context.Context, cmd SetOverdueFeeCommand) (*model.PawnTransaction, error) {
	if cmd.Amount < 0 {
		return nil, validationError("overdue fee must not be negative")
	}

	txn, err := t.writer.Mutate(ctx, cmd.TransactionID, cmd.StaffMember,
		func(ctx context.Context, txn *model.PawnTransaction, c *change) error {
			c.event = EventOverdueFeeSet
			c.applyAutoOverdue(txn)

			if !ledger.CanExtend(txn.Status) {
				return stateError("cannot set overdue fee on transaction in status %s", txn.Status)
			}

			if txn.OverdueFee == cmd.Amount {
				return nil
			}

			c.audit(txn, model.AuditActionOverdueFeeSet, amountPtr(cmd.Amount),
				formatAmount(txn.OverdueFee), formatAmount(cmd.Amount), cmd.Reason)
			txn.OverdueFee = cmd.Amount
			return nil
		})
	if err != nil {
		return nil, err
	}

	t.logger.Info("Overdue fee set",
		zap.Int64("transactionID", txn.ID),
		zap.Int64("overdueFee", txn.OverdueFee),
		zap.String("staff", cmd.StaffMember))

	return txn, nil
}

func (t *Transaction) ListPayments(ctx context.Context, id int64, includeVoided bool) ([]model.Payment, error) {
	if _, err := t.txRepo.GetByID(ctx, id); err != nil {
		return nil, storageError(err)
	}

	payments, err := t.paymentRepo.ListByTransaction(ctx, id, includeVoided)
	if err != nil {
		return nil, storageError(err)
	}

	return payments, nil
}

func (t *Transaction) ListExtensions(ctx context.Context, id int64, includeCancelled bool) ([]model.Extension, error) {
	if _, err := t.txRepo.GetByID(ctx, id); err != nil {
		return nil, storageError(err)
	}

	extensions, err := t.extensionRepo.ListByTransaction(ctx, id, includeCancelled)
	if err != nil {
		return nil, storageError(err)
	}

	return extensions, nil
}
