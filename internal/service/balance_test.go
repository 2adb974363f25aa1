package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/Behyna/pawn-services/internal/constants"
	"github.com/Behyna/pawn-services/internal/model"
	"github.com/Behyna/pawn-services/internal/repository"
	"github.com/Behyna/pawn-services/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newBalanceService(f *fixture, now time.Time) service.BalanceService {
	return service.NewBalanceService(f.txRepo, f.paymentRepo, f.extensionRepo, f.cache,
		func() time.Time { return now }, zap.NewNop())
}

func onCacheMiss(f *fixture) {
	f.cache.On("Get", mock.Anything, mock.AnythingOfType("time.Time")).Return(nil, false)
	f.cache.On("Set", mock.Anything, mock.AnythingOfType("time.Time"), mock.AnythingOfType("*service.BalanceBreakdown")).Return()
}

func TestBalanceService_CalculateBalance(t *testing.T) {
	ctx := context.Background()

	t.Run("replays payments refunds and discounts", func(t *testing.T) {
		f := newFixture(evalNow)
		txn := activeTxn()
		txn.OverdueFee = 20
		onCacheMiss(f)
		f.txRepo.On("GetByID", mock.Anything, txn.ID).Return(txn, nil)
		f.onHistory(txn.ID,
			[]model.Payment{{ID: 1, PaymentAmount: 140, DiscountAmount: 10}},
			[]model.Extension{
				{ID: 1, NetFeeCollected: 50, OverdueFeeCollected: 10, IsCancelled: true, RefundedAmount: 60},
				{ID: 2, NetFeeCollected: 50},
			})

		b, err := newBalanceService(f, evalNow).CalculateBalance(ctx, txn.ID, nil)

		require.NoError(t, err)
		assert.Equal(t, day(2024, 2, 20), b.AsOf)
		assert.Equal(t, 2, b.MonthsElapsed)
		assert.Equal(t, int64(100), b.InterestDue)
		assert.Equal(t, int64(620), b.TotalDue)
		assert.Equal(t, int64(140), b.TotalPaid)
		assert.Equal(t, int64(10), b.TotalDiscounts)
		assert.Equal(t, int64(60), b.TotalRefunds)
		assert.Equal(t, int64(100), b.InterestPaid)
		assert.Equal(t, int64(20), b.OverdueFeePaid)
		assert.Equal(t, int64(90), b.PrincipalPaid)
		assert.Equal(t, int64(410), b.PrincipalRemaining)
		assert.Equal(t, int64(0), b.Credit)
		assert.Equal(t, int64(50), b.ExtensionFeesCollected)
		assert.Equal(t, 1, b.ActiveExtensions)
		assert.Equal(t, int64(410), b.LedgerBalance)
		assert.Equal(t, int64(410), b.CurrentBalance)
		f.cache.AssertCalled(t, "Set", txn.ID, evalNow, b)
	})

	t.Run("reports overdue as of a later date", func(t *testing.T) {
		f := newFixture(evalNow)
		txn := activeTxn()
		onCacheMiss(f)
		f.txRepo.On("GetByID", mock.Anything, txn.ID).Return(txn, nil)
		f.onHistory(txn.ID, []model.Payment{}, []model.Extension{})
		asOf := time.Date(2024, 9, 1, 8, 0, 0, 0, time.UTC)

		b, err := newBalanceService(f, evalNow).CalculateBalance(ctx, txn.ID, &asOf)

		require.NoError(t, err)
		assert.Equal(t, 3, b.MonthsElapsed)
		assert.Equal(t, int64(150), b.InterestDue)
		assert.Equal(t, model.StatusActive, b.Status)
		assert.Equal(t, model.StatusOverdue, b.EffectiveStatus)
		assert.Equal(t, int64(650), b.CurrentBalance)
	})

	t.Run("missing pawn date accrues no interest", func(t *testing.T) {
		f := newFixture(evalNow)
		txn := activeTxn()
		txn.PawnDate = time.Time{}
		onCacheMiss(f)
		f.txRepo.On("GetByID", mock.Anything, txn.ID).Return(txn, nil)
		f.onHistory(txn.ID, []model.Payment{}, []model.Extension{})

		b, err := newBalanceService(f, evalNow).CalculateBalance(ctx, txn.ID, nil)

		require.NoError(t, err)
		assert.Equal(t, int64(0), b.InterestDue)
		assert.Equal(t, int64(500), b.CurrentBalance)
	})

	t.Run("cache hit skips the database", func(t *testing.T) {
		f := newFixture(evalNow)
		cached := &service.BalanceBreakdown{TransactionID: 1, CurrentBalance: 123}
		f.cache.On("Get", int64(1), evalNow).Return(cached, true)

		b, err := newBalanceService(f, evalNow).CalculateBalance(ctx, 1, nil)

		require.NoError(t, err)
		assert.Equal(t, int64(123), b.CurrentBalance)
		f.txRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture(evalNow)
		onCacheMiss(f)
		f.txRepo.On("GetByID", mock.Anything, int64(8)).Return(nil, repository.ErrTransactionNotFound)

		_, err := newBalanceService(f, evalNow).CalculateBalance(ctx, 8, nil)

		assertCode(t, err, constants.ErrCodeTransactionNotFound)
		f.cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestBalanceService_PayoffAmount(t *testing.T) {
	ctx := context.Background()

	t.Run("overpaid loan pays off at zero with credit", func(t *testing.T) {
		f := newFixture(evalNow)
		txn := activeTxn()
		onCacheMiss(f)
		f.txRepo.On("GetByID", mock.Anything, txn.ID).Return(txn, nil)
		f.onHistory(txn.ID, []model.Payment{{ID: 1, PaymentAmount: 700}}, []model.Extension{})

		payoff, err := newBalanceService(f, evalNow).PayoffAmount(ctx, txn.ID, nil)

		require.NoError(t, err)
		assert.Equal(t, int64(0), payoff.Amount)
		assert.Equal(t, int64(100), payoff.Credit)
		assert.Equal(t, int64(0), payoff.PrincipalRemaining)
	})

	t.Run("redeemed loan stays paid off on later reads", func(t *testing.T) {
		f := newFixture(evalNow)
		txn := activeTxn()
		txn.Status = model.StatusRedeemed
		onCacheMiss(f)
		f.txRepo.On("GetByID", mock.Anything, txn.ID).Return(txn, nil)
		f.onHistory(txn.ID, []model.Payment{
			{ID: 1, PaymentAmount: 550, CreatedAt: time.Date(2024, 2, 10, 11, 0, 0, 0, time.UTC)},
		}, []model.Extension{})
		asOf := time.Date(2024, 3, 20, 9, 0, 0, 0, time.UTC)

		payoff, err := newBalanceService(f, evalNow).PayoffAmount(ctx, txn.ID, &asOf)

		require.NoError(t, err)
		assert.Equal(t, int64(0), payoff.Amount)
		assert.Equal(t, int64(0), payoff.InterestRemaining)
		assert.Equal(t, int64(0), payoff.PrincipalRemaining)
		assert.Equal(t, int64(0), payoff.Credit)
		assert.Equal(t, day(2024, 3, 20), payoff.AsOf)
	})

	t.Run("redeemed loan read before its last payment accrues to the read date", func(t *testing.T) {
		f := newFixture(evalNow)
		txn := activeTxn()
		txn.Status = model.StatusRedeemed
		onCacheMiss(f)
		f.txRepo.On("GetByID", mock.Anything, txn.ID).Return(txn, nil)
		f.onHistory(txn.ID, []model.Payment{
			{ID: 1, PaymentAmount: 600, CreatedAt: time.Date(2024, 3, 10, 11, 0, 0, 0, time.UTC)},
		}, []model.Extension{})
		asOf := time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)

		b, err := newBalanceService(f, evalNow).CalculateBalance(ctx, txn.ID, &asOf)

		require.NoError(t, err)
		assert.Equal(t, 1, b.MonthsElapsed)
		assert.Equal(t, int64(50), b.InterestDue)
		assert.Equal(t, int64(50), b.Credit)
	})

	t.Run("open loan", func(t *testing.T) {
		f := newFixture(evalNow)
		txn := activeTxn()
		onCacheMiss(f)
		f.txRepo.On("GetByID", mock.Anything, txn.ID).Return(txn, nil)
		f.onHistory(txn.ID, []model.Payment{{ID: 1, PaymentAmount: 150}}, []model.Extension{})

		payoff, err := newBalanceService(f, evalNow).PayoffAmount(ctx, txn.ID, nil)

		require.NoError(t, err)
		assert.Equal(t, int64(450), payoff.Amount)
		assert.Equal(t, int64(450), payoff.PrincipalRemaining)
		assert.Equal(t, int64(0), payoff.InterestRemaining)
	})
}
