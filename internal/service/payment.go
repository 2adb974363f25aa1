package service

import (
	"context"

	"github.com/Behyna/pawn-services/internal/ledger"
	"github.com/Behyna/pawn-services/internal/model"
	"github.com/Behyna/pawn-services/internal/repository"
	"go.uber.org/zap"
)

type PaymentService interface {
	ProcessPayment(ctx context.Context, cmd ProcessPaymentCommand) (*model.Payment, error)
}

type Payment struct {
	writer        *LedgerWriter
	paymentRepo   repository.PaymentRepository
	extensionRepo repository.ExtensionRepository
	approver      Approver
	logger        *zap.Logger
}

func NewPaymentService(writer *LedgerWriter, paymentRepo repository.PaymentRepository,
	extensionRepo repository.ExtensionRepository, approver Approver, logger *zap.Logger) PaymentService {
	return &Payment{writer: writer, paymentRepo: paymentRepo, extensionRepo: extensionRepo,
		approver: approver, logger: logger}
}

func (p *Payment) ProcessPayment(ctx context.Context, cmd ProcessPaymentCommand) (*model.Payment, error) {
	if err := ledger.ValidatePayment(cmd.Amount, cmd.Discount); err != nil {
		return nil, ledgerError(err)
	}

	var approvedBy string
	if cmd.Discount > 0 {
		if err := requireReason(cmd.DiscountReason, "apply a discount"); err != nil {
			return nil, err
		}

		var err error
		if approvedBy, err = p.approver.VerifyElevatedApproval(ctx, cmd.ApprovalPIN); err != nil {
			return nil, err
		}
	}

	var payment *model.Payment

	_, err := p.writer.Mutate(ctx, cmd.TransactionID, cmd.ReceivedBy,
		func(ctx context.Context, txn *model.PawnTransaction, c *change) error {
			c.event = EventPaymentReceived
			c.applyAutoOverdue(txn)

			if !ledger.IsOpen(txn.Status) {
				return stateError("cannot accept payment for transaction in status %s", txn.Status)
			}

			balance, _, _, err := loadBalance(ctx, p.paymentRepo, p.extensionRepo, txn, c.now, p.logger)
			if err != nil {
				return err
			}

			alloc := ledger.Allocate(balance.outstanding(), cmd.Amount, cmd.Discount)
			if err := alloc.Verify(); err != nil {
				return ledgerError(err)
			}

			payment = &model.Payment{
				TransactionID:        txn.ID,
				PaymentAmount:        alloc.Payment,
				DiscountAmount:       alloc.Discount,
				BalanceBeforePayment: alloc.BalanceBefore,
				BalanceAfterPayment:  alloc.BalanceAfter,
				InterestPortion:      alloc.InterestPortion,
				OverdueFeePortion:    alloc.OverdueFeePortion,
				PrincipalPortion:     alloc.PrincipalPortion,
				ReceivedBy:           cmd.ReceivedBy,
				CreatedAt:            c.now,
			}
			if cmd.Discount > 0 {
				payment.DiscountReason = optional(cmd.DiscountReason)
				payment.DiscountApprovedBy = optional(approvedBy)
			}

			if err := p.paymentRepo.Create(ctx, payment); err != nil {
				p.logger.Error("Failed to create payment",
					zap.Int64("transactionID", txn.ID),
					zap.Error(err))
				return storageError(err)
			}

			c.audit(txn, model.AuditActionPaymentReceived, amountPtr(alloc.Credited()),
				formatAmount(alloc.BalanceBefore), formatAmount(alloc.BalanceAfter), cmd.DiscountReason)

			if alloc.BalanceAfter <= 0 {
				c.setStatus(txn, model.StatusRedeemed, "balance paid in full")
			}

			return nil
		})
	if err != nil {
		return nil, err
	}

	p.logger.Info("Payment processed",
		zap.Int64("transactionID", cmd.TransactionID),
		zap.Int64("paymentID", payment.ID),
		zap.Int64("amount", payment.PaymentAmount),
		zap.Int64("balanceAfter", payment.BalanceAfterPayment))

	return payment, nil
}
