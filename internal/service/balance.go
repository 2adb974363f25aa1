package service

import (
	"context"
	"time"

	"github.com/Behyna/pawn-services/internal/ledger"
	"github.com/Behyna/pawn-services/internal/model"
	"github.com/Behyna/pawn-services/internal/repository"
	"go.uber.org/zap"
)

type BalanceService interface {
	CalculateBalance(ctx context.Context, transactionID int64, asOf *time.Time) (*BalanceBreakdown, error)
	PayoffAmount(ctx context.Context, transactionID int64, asOf *time.Time) (*Payoff, error)
}

type Balance struct {
	txRepo        repository.PawnTransactionRepository
	paymentRepo   repository.PaymentRepository
	extensionRepo repository.ExtensionRepository
	cache         BalanceCache
	clock         Clock
	logger        *zap.Logger
}

func NewBalanceService(txRepo repository.PawnTransactionRepository, paymentRepo repository.PaymentRepository,
	extensionRepo repository.ExtensionRepository, cache BalanceCache, clock Clock, logger *zap.Logger) BalanceService {
	return &Balance{txRepo: txRepo, paymentRepo: paymentRepo, extensionRepo: extensionRepo,
		cache: cache, clock: clock, logger: logger}
}

// CalculateBalance never takes the writer lock; a cached result at most a
// few seconds old may be returned.
func (b *Balance) CalculateBalance(ctx context.Context, transactionID int64, asOf *time.Time) (*BalanceBreakdown, error) {
	evalDate := b.clock()
	if asOf != nil {
		evalDate = *asOf
	}

	if cached, ok := b.cache.Get(transactionID, evalDate); ok {
		return cached, nil
	}

	txn, err := b.txRepo.GetByID(ctx, transactionID)
	if err != nil {
		return nil, storageError(err)
	}

	payments, err := b.paymentRepo.ListByTransaction(ctx, transactionID, false)
	if err != nil {
		b.logger.Error("Failed to list payments",
			zap.Int64("transactionID", transactionID),
			zap.Error(err))
		return nil, storageError(err)
	}

	extensions, err := b.extensionRepo.ListByTransaction(ctx, transactionID, true)
	if err != nil {
		b.logger.Error("Failed to list extensions",
			zap.Int64("transactionID", transactionID),
			zap.Error(err))
		return nil, storageError(err)
	}

	breakdown := computeBalance(txn, payments, extensions, evalDate, b.logger)
	b.cache.Set(transactionID, evalDate, &breakdown)

	return &breakdown, nil
}

func (b *Balance) PayoffAmount(ctx context.Context, transactionID int64, asOf *time.Time) (*Payoff, error) {
	breakdown, err := b.CalculateBalance(ctx, transactionID, asOf)
	if err != nil {
		return nil, err
	}

	return &Payoff{
		TransactionID:       transactionID,
		AsOf:                breakdown.AsOf,
		Amount:              breakdown.CurrentBalance,
		PrincipalRemaining:  breakdown.PrincipalRemaining,
		InterestRemaining:   breakdown.InterestRemaining,
		OverdueFeeRemaining: breakdown.OverdueFeeRemaining,
		Credit:              breakdown.Credit,
	}, nil
}

// computeBalance derives the full position from the stored history.
// payments must exclude voided ones; extensions may include cancelled ones.
func computeBalance(txn *model.PawnTransaction, payments []model.Payment, extensions []model.Extension,
	evalDate time.Time, logger *zap.Logger) BalanceBreakdown {
	months := 0
	var interest int64
	if txn.PawnDate.IsZero() {
		logger.Warn("Pawn date missing, accruing no interest",
			zap.Int64("transactionID", txn.ID))
	} else {
		months = ledger.MonthsElapsed(txn.PawnDate, accrualDate(txn, payments, evalDate))
		interest = txn.MonthlyInterestAmount * int64(months)
	}

	dues := ledger.Dues{Interest: interest, OverdueFee: txn.OverdueFee, Principal: txn.LoanAmount}

	var paid, discounts int64
	for _, p := range payments {
		if p.IsVoided {
			continue
		}
		paid += p.PaymentAmount
		discounts += p.DiscountAmount
	}

	var refunds, extensionFees int64
	active := 0
	for _, e := range extensions {
		if e.IsCancelled {
			refunds += e.RefundedAmount
			continue
		}
		extensionFees += e.NetFeeCollected
		active++
	}

	settled, remaining := ledger.Settle(dues, paid+discounts+refunds)
	ledgerBalance := remaining.Balance()

	effective, _ := ledger.AutoOverdue(txn.Status, txn.MaturityDate, evalDate)

	return BalanceBreakdown{
		TransactionID:   txn.ID,
		AsOf:            ledger.Date(evalDate),
		Status:          txn.Status,
		EffectiveStatus: effective,
		MonthsElapsed:   months,

		Principal:   dues.Principal,
		InterestDue: dues.Interest,
		OverdueFee:  dues.OverdueFee,
		TotalDue:    dues.Total(),

		TotalPaid:      paid,
		TotalDiscounts: discounts,
		TotalRefunds:   refunds,

		PrincipalPaid:  settled.Principal,
		InterestPaid:   settled.Interest,
		OverdueFeePaid: settled.OverdueFee,

		PrincipalRemaining:  remaining.Principal,
		InterestRemaining:   remaining.Interest,
		OverdueFeeRemaining: remaining.OverdueFee,
		Credit:              remaining.Credit,

		ExtensionFeesCollected: extensionFees,
		ActiveExtensions:       active,

		LedgerBalance:  ledgerBalance,
		CurrentBalance: ledger.DisplayBalance(ledgerBalance),
	}
}

// accrualDate is the day interest is counted up to. A redeemed loan stops
// accruing on the day of its latest payment.
func accrualDate(txn *model.PawnTransaction, payments []model.Payment, evalDate time.Time) time.Time {
	if txn.Status != model.StatusRedeemed {
		return evalDate
	}

	var last time.Time
	for _, p := range payments {
		if !p.IsVoided && p.CreatedAt.After(last) {
			last = p.CreatedAt
		}
	}
	if last.IsZero() {
		return evalDate
	}

	last = last.In(evalDate.Location())
	if ledger.AfterDay(last, evalDate) {
		return evalDate
	}
	return last
}

// outstanding converts a breakdown into allocator input.
func (b BalanceBreakdown) outstanding() ledger.Outstanding {
	return ledger.Outstanding{
		Interest:   b.InterestRemaining,
		OverdueFee: b.OverdueFeeRemaining,
		Principal:  b.PrincipalRemaining,
		Credit:     b.Credit,
	}
}

// loadBalance recomputes the balance inside a mutation, bypassing the cache.
func loadBalance(ctx context.Context, paymentRepo repository.PaymentRepository, extensionRepo repository.ExtensionRepository,
	txn *model.PawnTransaction, evalDate time.Time, logger *zap.Logger) (BalanceBreakdown, []model.Payment, []model.Extension, error) {
	payments, err := paymentRepo.ListByTransaction(ctx, txn.ID, false)
	if err != nil {
		return BalanceBreakdown{}, nil, nil, storageError(err)
	}

	extensions, err := extensionRepo.ListByTransaction(ctx, txn.ID, true)
	if err != nil {
		return BalanceBreakdown{}, nil, nil, storageError(err)
	}

	return computeBalance(txn, payments, extensions, evalDate, logger), payments, extensions, nil
}
