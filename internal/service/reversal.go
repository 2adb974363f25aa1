package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Behyna/pawn-services/internal/ledger"
	"github.com/Behyna/pawn-services/internal/model"
	"github.com/Behyna/pawn-services/internal/repository"
	"go.uber.org/zap"
)

type ReversalPolicy struct {
	Window    time.Duration
	MaxPerDay int
}

func DefaultReversalPolicy() ReversalPolicy {
	return ReversalPolicy{Window: 24 * time.Hour, MaxPerDay: 3}
}

type ReversalService interface {
	VoidPayment(ctx context.Context, cmd VoidPaymentCommand) (*model.Payment, error)
	CancelExtension(ctx context.Context, cmd CancelExtensionCommand) (*model.Extension, error)
}

type Reversal struct {
	writer        *LedgerWriter
	paymentRepo   repository.PaymentRepository
	extensionRepo repository.ExtensionRepository
	approver      Approver
	policy        ReversalPolicy
	logger        *zap.Logger
}

func NewReversalService(writer *LedgerWriter, paymentRepo repository.PaymentRepository,
	extensionRepo repository.ExtensionRepository, approver Approver, policy ReversalPolicy, logger *zap.Logger) ReversalService {
	return &Reversal{writer: writer, paymentRepo: paymentRepo, extensionRepo: extensionRepo,
		approver: approver, policy: policy, logger: logger}
}

// VoidPayment marks a payment voided and replays the ledger without it. A
// transaction the payment had redeemed is reopened.
func (r *Reversal) VoidPayment(ctx context.Context, cmd VoidPaymentCommand) (*model.Payment, error) {
	if err := requireReason(cmd.Reason, "void a payment"); err != nil {
		return nil, err
	}

	approverID, err := r.approver.VerifyElevatedApproval(ctx, cmd.ApprovalPIN)
	if err != nil {
		return nil, err
	}

	target, err := r.paymentRepo.GetByID(ctx, cmd.PaymentID)
	if err != nil {
		return nil, storageError(err)
	}

	var payment *model.Payment

	_, err = r.writer.Mutate(ctx, target.TransactionID, cmd.StaffMember,
		func(ctx context.Context, txn *model.PawnTransaction, c *change) error {
			c.event = EventPaymentVoided

			current, err := r.paymentRepo.GetByID(ctx, cmd.PaymentID)
			if err != nil {
				return storageError(err)
			}
			payment = current

			if payment.IsVoided {
				return stateError("payment %d is already voided", payment.ID)
			}

			switch txn.Status {
			case model.StatusActive, model.StatusOverdue, model.StatusExtended, model.StatusHold, model.StatusRedeemed:
			default:
				return stateError("cannot void payment on transaction in status %s", txn.Status)
			}

			if c.now.Sub(payment.CreatedAt) > r.policy.Window {
				return stateError("cannot void payment older than %s", r.windowText())
			}

			if err := r.checkDailyLimit(ctx, txn.ID, c.now); err != nil {
				return err
			}

			voidedAt := c.now
			payment.IsVoided = true
			payment.VoidedBy = optional(cmd.StaffMember)
			payment.VoidedAt = &voidedAt
			payment.VoidReason = optional(cmd.Reason)

			if err := r.paymentRepo.Update(ctx, payment); err != nil {
				r.logger.Error("Failed to void payment",
					zap.Int64("paymentID", payment.ID),
					zap.Error(err))
				return storageError(err)
			}

			c.audit(txn, model.AuditActionPaymentVoided, amountPtr(payment.Credited()),
				"", formatAmount(payment.ID), cmd.Reason+" (approved by "+approverID+")")

			if txn.Status == model.StatusRedeemed {
				reopened := *txn
				reopened.Status = ledger.ReopenedStatus(txn.MaturityDate, c.now)
				balance, _, _, err := loadBalance(ctx, r.paymentRepo, r.extensionRepo, &reopened, c.now, r.logger)
				if err != nil {
					return err
				}
				if balance.LedgerBalance > 0 {
					c.setStatus(txn, reopened.Status, "redeeming payment voided")
				}
			}

			return nil
		})
	if err != nil {
		return nil, err
	}

	r.logger.Info("Payment voided",
		zap.Int64("paymentID", payment.ID),
		zap.Int64("transactionID", payment.TransactionID),
		zap.String("staff", cmd.StaffMember),
		zap.String("approver", approverID))

	return payment, nil
}

// CancelExtension reverses the latest active extension: dates go back to the
// stored originals, the amount collected becomes a credit and the overdue fee
// it cleared is owed again.
func (r *Reversal) CancelExtension(ctx context.Context, cmd CancelExtensionCommand) (*model.Extension, error) {
	if err := requireReason(cmd.Reason, "cancel an extension"); err != nil {
		return nil, err
	}

	approverID, err := r.approver.VerifyElevatedApproval(ctx, cmd.ApprovalPIN)
	if err != nil {
		return nil, err
	}

	target, err := r.extensionRepo.GetByID(ctx, cmd.ExtensionID)
	if err != nil {
		return nil, storageError(err)
	}

	var extension *model.Extension

	_, err = r.writer.Mutate(ctx, target.TransactionID, cmd.StaffMember,
		func(ctx context.Context, txn *model.PawnTransaction, c *change) error {
			c.event = EventExtensionCancelled

			active, err := r.extensionRepo.ListByTransaction(ctx, txn.ID, false)
			if err != nil {
				return storageError(err)
			}

			idx := -1
			for i := range active {
				if active[i].ID == cmd.ExtensionID {
					idx = i
				}
			}
			if idx < 0 {
				return stateError("extension %d is already cancelled", cmd.ExtensionID)
			}
			if idx != len(active)-1 {
				return stateError("only the latest extension can be cancelled")
			}
			extension = &active[idx]

			if !ledger.CanExtend(txn.Status) {
				return stateError("cannot cancel extension on transaction in status %s", txn.Status)
			}

			if c.now.Sub(extension.CreatedAt) > r.policy.Window {
				return stateError("cannot cancel extension older than %s", r.windowText())
			}

			if err := r.checkDailyLimit(ctx, txn.ID, c.now); err != nil {
				return err
			}

			cancelledAt := c.now
			extension.IsCancelled = true
			extension.CancelledBy = optional(cmd.StaffMember)
			extension.CancelledAt = &cancelledAt
			extension.CancellationReason = optional(cmd.Reason)
			extension.RefundedAmount = extension.AmountCollected()

			if err := r.extensionRepo.Update(ctx, extension); err != nil {
				r.logger.Error("Failed to cancel extension",
					zap.Int64("extensionID", extension.ID),
					zap.Error(err))
				return storageError(err)
			}

			c.audit(txn, model.AuditActionExtensionRevoked, amountPtr(extension.RefundedAmount),
				formatDate(txn.MaturityDate), formatDate(extension.OriginalMaturityDate),
				cmd.Reason+" (approved by "+approverID+")")

			if extension.OverdueFeeCollected > 0 {
				prev := txn.OverdueFee
				txn.OverdueFee += extension.OverdueFeeCollected
				c.audit(txn, model.AuditActionOverdueFeeSet, amountPtr(extension.OverdueFeeCollected),
					formatAmount(prev), formatAmount(txn.OverdueFee), "restored by extension cancellation")
			}

			txn.MaturityDate = extension.OriginalMaturityDate
			txn.GracePeriodEnd = extension.OriginalGracePeriodEnd
			c.setStatus(txn, ledger.RevertedStatus(txn.Status, txn.MaturityDate, c.now, len(active) > 1),
				"extension cancelled")

			return nil
		})
	if err != nil {
		return nil, err
	}

	r.logger.Info("Extension cancelled",
		zap.Int64("extensionID", extension.ID),
		zap.Int64("transactionID", extension.TransactionID),
		zap.Int64("refunded", extension.RefundedAmount),
		zap.String("staff", cmd.StaffMember),
		zap.String("approver", approverID))

	return extension, nil
}

func (r *Reversal) windowText() string {
	return fmt.Sprintf("%d hours", int(r.policy.Window.Hours()))
}

func (r *Reversal) checkDailyLimit(ctx context.Context, transactionID int64, now time.Time) error {
	since := ledger.StartOfDay(now)

	voided, err := r.paymentRepo.CountVoidedSince(ctx, transactionID, since)
	if err != nil {
		return storageError(err)
	}

	cancelled, err := r.extensionRepo.CountCancelledSince(ctx, transactionID, since)
	if err != nil {
		return storageError(err)
	}

	if voided+cancelled >= int64(r.policy.MaxPerDay) {
		return stateError("daily reversal limit of %d reached for this transaction", r.policy.MaxPerDay)
	}

	return nil
}
