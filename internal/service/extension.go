package service

import (
	"context"

	"github.com/Behyna/pawn-services/internal/ledger"
	"github.com/Behyna/pawn-services/internal/model"
	"github.com/Behyna/pawn-services/internal/repository"
	"go.uber.org/zap"
)

type ExtensionService interface {
	ProcessExtension(ctx context.Context, cmd ProcessExtensionCommand) (*model.Extension, error)
}

type Extension struct {
	writer        *LedgerWriter
	paymentRepo   repository.PaymentRepository
	extensionRepo repository.ExtensionRepository
	approver      Approver
	logger        *zap.Logger
}

func NewExtensionService(writer *LedgerWriter, paymentRepo repository.PaymentRepository,
	extensionRepo repository.ExtensionRepository, approver Approver, logger *zap.Logger) ExtensionService {
	return &Extension{writer: writer, paymentRepo: paymentRepo, extensionRepo: extensionRepo,
		approver: approver, logger: logger}
}

func (e *Extension) ProcessExtension(ctx context.Context, cmd ProcessExtensionCommand) (*model.Extension, error) {
	terms := ledger.ExtensionTerms{Months: cmd.Months, FeePerMonth: cmd.FeePerMonth, Discount: cmd.Discount}
	if err := terms.Validate(); err != nil {
		return nil, ledgerError(err)
	}

	var approvedBy string
	if cmd.Discount > 0 {
		if err := requireReason(cmd.DiscountReason, "apply a discount"); err != nil {
			return nil, err
		}

		var err error
		if approvedBy, err = e.approver.VerifyElevatedApproval(ctx, cmd.ApprovalPIN); err != nil {
			return nil, err
		}
	}

	var extension *model.Extension

	_, err := e.writer.Mutate(ctx, cmd.TransactionID, cmd.ProcessedBy,
		func(ctx context.Context, txn *model.PawnTransaction, c *change) error {
			c.event = EventExtensionProcessed
			c.applyAutoOverdue(txn)

			if !ledger.CanExtend(txn.Status) {
				return stateError("cannot extend transaction in status %s", txn.Status)
			}

			quote, err := ledger.QuoteExtension(txn.MaturityDate, txn.GracePeriodEnd, terms)
			if err != nil {
				return ledgerError(err)
			}
			if err := quote.Verify(); err != nil {
				return ledgerError(err)
			}

			var overdueCollected int64
			if cmd.CollectOverdueFee {
				balance, _, _, err := loadBalance(ctx, e.paymentRepo, e.extensionRepo, txn, c.now, e.logger)
				if err != nil {
					return err
				}
				overdueCollected = balance.OverdueFeeRemaining
			}

			extension = &model.Extension{
				TransactionID:          txn.ID,
				ExtensionMonths:        quote.Months,
				ExtensionFeePerMonth:   quote.FeePerMonth,
				TotalExtensionFee:      quote.TotalFee,
				DiscountAmount:         quote.Discount,
				NetFeeCollected:        quote.NetFee,
				OverdueFeeCollected:    overdueCollected,
				OriginalMaturityDate:   quote.OriginalMaturityDate,
				OriginalGracePeriodEnd: quote.OriginalGracePeriodEnd,
				NewMaturityDate:        quote.NewMaturityDate,
				NewGracePeriodEnd:      quote.NewGracePeriodEnd,
				ProcessedBy:            cmd.ProcessedBy,
				CreatedAt:              c.now,
			}
			if cmd.Discount > 0 {
				extension.DiscountReason = optional(cmd.DiscountReason)
				extension.DiscountApprovedBy = optional(approvedBy)
			}

			if err := e.extensionRepo.Create(ctx, extension); err != nil {
				e.logger.Error("Failed to create extension",
					zap.Int64("transactionID", txn.ID),
					zap.Error(err))
				return storageError(err)
			}

			c.audit(txn, model.AuditActionExtended, amountPtr(quote.NetFee),
				formatDate(quote.OriginalMaturityDate), formatDate(quote.NewMaturityDate), cmd.DiscountReason)

			if overdueCollected > 0 {
				prev := txn.OverdueFee
				txn.OverdueFee -= overdueCollected
				c.audit(txn, model.AuditActionOverdueFeeSet, amountPtr(overdueCollected),
					formatAmount(prev), formatAmount(txn.OverdueFee), "collected with extension")
			}

			txn.MaturityDate = quote.NewMaturityDate
			txn.GracePeriodEnd = quote.NewGracePeriodEnd
			c.setStatus(txn, ledger.StatusAfterExtension(txn.Status, quote, c.now), "extension processed")

			return nil
		})
	if err != nil {
		return nil, err
	}

	e.logger.Info("Extension processed",
		zap.Int64("transactionID", cmd.TransactionID),
		zap.Int64("extensionID", extension.ID),
		zap.Int("months", extension.ExtensionMonths),
		zap.Int64("netFee", extension.NetFeeCollected))

	return extension, nil
}
