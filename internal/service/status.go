package service

import (
	"context"
	"time"

	"github.com/Behyna/pawn-services/internal/constants"
	"github.com/Behyna/pawn-services/internal/ledger"
	"github.com/Behyna/pawn-services/internal/model"
	"github.com/Behyna/pawn-services/internal/repository"
	"go.uber.org/zap"
)

const CancelWindow = 24 * time.Hour

type StatusService interface {
	UpdateStatus(ctx context.Context, cmd UpdateStatusCommand) (*model.PawnTransaction, error)
	VoidTransaction(ctx context.Context, cmd VoidTransactionCommand) (*model.PawnTransaction, error)
	CancelTransaction(ctx context.Context, cmd CancelTransactionCommand) (*model.PawnTransaction, error)
	MarkOverdue(ctx context.Context, asOf time.Time, limit int) (int, error)
}

type Status struct {
	writer      *LedgerWriter
	txRepo      repository.PawnTransactionRepository
	paymentRepo repository.PaymentRepository
	approver    Approver
	logger      *zap.Logger
}

func NewStatusService(writer *LedgerWriter, txRepo repository.PawnTransactionRepository,
	paymentRepo repository.PaymentRepository, approver Approver, logger *zap.Logger) StatusService {
	return &Status{writer: writer, txRepo: txRepo, paymentRepo: paymentRepo, approver: approver, logger: logger}
}

// UpdateStatus applies a manual transition. The automatic OVERDUE rule runs
// first; when it already lands on the requested status nothing else changes.
func (s *Status) UpdateStatus(ctx context.Context, cmd UpdateStatusCommand) (*model.PawnTransaction, error) {
	if !cmd.Status.Valid() {
		return nil, validationError("unknown status %q", cmd.Status)
	}
	if err := requireReason(cmd.Reason, "change status"); err != nil {
		return nil, err
	}

	txn, err := s.writer.Mutate(ctx, cmd.TransactionID, cmd.StaffMember,
		func(ctx context.Context, txn *model.PawnTransaction, c *change) error {
			c.event = EventStatusChanged
			c.applyAutoOverdue(txn)

			if txn.Status == cmd.Status && len(c.audits) > 0 {
				return nil
			}

			if err := ledger.ValidateTransition(txn.Status, cmd.Status); err != nil {
				return ledgerError(err)
			}

			c.setStatus(txn, cmd.Status, cmd.Reason)
			return nil
		})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Status updated",
		zap.Int64("transactionID", txn.ID),
		zap.String("status", txn.Status.String()),
		zap.String("staff", cmd.StaffMember))

	return txn, nil
}

func (s *Status) VoidTransaction(ctx context.Context, cmd VoidTransactionCommand) (*model.PawnTransaction, error) {
	if err := requireReason(cmd.Reason, "void a transaction"); err != nil {
		return nil, err
	}

	approverID, err := s.approver.VerifyElevatedApproval(ctx, cmd.ApprovalPIN)
	if err != nil {
		return nil, err
	}

	txn, err := s.writer.Mutate(ctx, cmd.TransactionID, cmd.StaffMember,
		func(ctx context.Context, txn *model.PawnTransaction, c *change) error {
			c.event = EventTransactionVoided

			if !ledger.CanVoid(txn.Status) {
				return stateError("cannot void transaction in status %s", txn.Status)
			}

			payments, err := s.paymentRepo.ListByTransaction(ctx, txn.ID, false)
			if err != nil {
				return storageError(err)
			}
			if len(payments) > 0 {
				return stateError("cannot void transaction with %d recorded payments", len(payments))
			}

			c.audit(txn, model.AuditActionVoided, nil, txn.Status.String(), model.StatusVoided.String(),
				cmd.Reason+" (approved by "+approverID+")")
			txn.Status = model.StatusVoided
			return nil
		})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Transaction voided",
		zap.Int64("transactionID", txn.ID),
		zap.String("staff", cmd.StaffMember),
		zap.String("approver", approverID))

	return txn, nil
}

// CancelTransaction undoes an intake made in error. Callers must have checked
// the admin role.
func (s *Status) CancelTransaction(ctx context.Context, cmd CancelTransactionCommand) (*model.PawnTransaction, error) {
	if err := requireReason(cmd.Reason, "cancel a transaction"); err != nil {
		return nil, err
	}

	txn, err := s.writer.Mutate(ctx, cmd.TransactionID, cmd.StaffMember,
		func(ctx context.Context, txn *model.PawnTransaction, c *change) error {
			c.event = EventTransactionCanceled

			if !ledger.CanCancel(txn.Status) {
				return stateError("cannot cancel transaction in status %s", txn.Status)
			}

			if c.now.Sub(txn.CreatedAt) > CancelWindow {
				return stateError("cannot cancel transaction older than 24 hours")
			}

			payments, err := s.paymentRepo.ListByTransaction(ctx, txn.ID, true)
			if err != nil {
				return storageError(err)
			}
			if len(payments) > 0 {
				return stateError("cannot cancel transaction with payments")
			}

			c.audit(txn, model.AuditActionCanceled, nil, txn.Status.String(), model.StatusCanceled.String(), cmd.Reason)
			txn.Status = model.StatusCanceled
			return nil
		})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Transaction canceled",
		zap.Int64("transactionID", txn.ID),
		zap.String("staff", cmd.StaffMember))

	return txn, nil
}

// MarkOverdue persists the automatic OVERDUE transition for up to limit
// matured transactions and returns how many changed. A failure on one
// transaction is logged and does not stop the sweep.
func (s *Status) MarkOverdue(ctx context.Context, asOf time.Time, limit int) (int, error) {
	txns, err := s.txRepo.FindMaturedOpen(ctx, asOf, limit)
	if err != nil {
		s.logger.Error("Failed to find matured transactions", zap.Error(err))
		return 0, storageError(err)
	}

	marked := 0
	for _, candidate := range txns {
		if ctx.Err() != nil {
			return marked, ctx.Err()
		}

		changed := false
		_, err := s.writer.Mutate(ctx, candidate.ID, SystemActor,
			func(ctx context.Context, txn *model.PawnTransaction, c *change) error {
				c.now = asOf
				c.applyAutoOverdue(txn)
				changed = len(c.audits) > 0
				return nil
			})
		if err != nil {
			if !HasCode(err, constants.ErrCodeConcurrentModification) {
				s.logger.Error("Failed to mark transaction overdue",
					zap.Int64("transactionID", candidate.ID),
					zap.Error(err))
			}
			continue
		}

		if changed {
			marked++
		}
	}

	s.logger.Info("Overdue sweep finished",
		zap.Int("candidates", len(txns)),
		zap.Int("marked", marked))

	return marked, nil
}
