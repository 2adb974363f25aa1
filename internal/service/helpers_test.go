package service_test

import (
	"testing"
	"time"

	"github.com/Behyna/pawn-services/internal/mocks"
	"github.com/Behyna/pawn-services/internal/model"
	"github.com/Behyna/pawn-services/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// evalNow is the clock used by most tests: 2024-02-20 10:00 UTC.
var evalNow = time.Date(2024, 2, 20, 10, 0, 0, 0, time.UTC)

func activeTxn() *model.PawnTransaction {
	return &model.PawnTransaction{
		ID:                    1,
		CustomerID:            "C-100",
		LoanAmount:            500,
		MonthlyInterestAmount: 50,
		PawnDate:              day(2024, 1, 15),
		MaturityDate:          day(2024, 4, 15),
		GracePeriodEnd:        day(2024, 5, 15),
		Status:                model.StatusActive,
		Version:               3,
		CreatedBy:             "clerk-1",
		CreatedAt:             time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC),
	}
}

type fixture struct {
	txManager     *mocks.TxManager
	txRepo        *mocks.PawnTransactionRepository
	paymentRepo   *mocks.PaymentRepository
	extensionRepo *mocks.ExtensionRepository
	auditRepo     *mocks.AuditRepository
	cache         *mocks.BalanceCache
	events        *mocks.EventPublisher
	approver      *mocks.Approver
	writer        *service.LedgerWriter

	audits    []model.AuditEntry
	published []service.LedgerEvent
}

func newFixture(at time.Time) *fixture {
	f := &fixture{
		txManager:     &mocks.TxManager{},
		txRepo:        &mocks.PawnTransactionRepository{},
		paymentRepo:   &mocks.PaymentRepository{},
		extensionRepo: &mocks.ExtensionRepository{},
		auditRepo:     &mocks.AuditRepository{},
		cache:         &mocks.BalanceCache{},
		events:        &mocks.EventPublisher{},
		approver:      &mocks.Approver{},
	}

	f.writer = service.NewLedgerWriter(f.txManager, f.txRepo, f.auditRepo, service.NewLocker(),
		f.cache, f.events, func() time.Time { return at }, zap.NewNop())

	return f
}

// onLoad expects one mutation that reads txn for update.
func (f *fixture) onLoad(txn *model.PawnTransaction) {
	f.txManager.On("WithTx", mock.Anything, mock.AnythingOfType("func(context.Context) error")).Return(nil)
	f.txRepo.On("GetForUpdate", mock.Anything, txn.ID).Return(txn, nil)
}

// onCommit expects the save, audit append, cache invalidation and event
// publication that follow a successful mutation.
func (f *fixture) onCommit(txnID int64) {
	f.txRepo.On("Save", mock.Anything, mock.AnythingOfType("*model.PawnTransaction")).Return(nil)
	f.auditRepo.On("Append", mock.Anything, mock.AnythingOfType("[]model.AuditEntry")).
		Run(func(args mock.Arguments) {
			f.audits = append(f.audits, args.Get(1).([]model.AuditEntry)...)
		}).Return(nil)
	f.cache.On("Invalidate", txnID).Return()
	f.events.On("Publish", mock.Anything, mock.AnythingOfType("service.LedgerEvent")).
		Run(func(args mock.Arguments) {
			f.published = append(f.published, args.Get(1).(service.LedgerEvent))
		}).Return(nil)
}

func (f *fixture) onHistory(txnID int64, payments []model.Payment, extensions []model.Extension) {
	f.paymentRepo.On("ListByTransaction", mock.Anything, txnID, false).Return(payments, nil)
	f.extensionRepo.On("ListByTransaction", mock.Anything, txnID, true).Return(extensions, nil)
}

func (f *fixture) actions() []model.AuditAction {
	out := make([]model.AuditAction, 0, len(f.audits))
	for _, a := range f.audits {
		out = append(out, a.ActionType)
	}
	return out
}

func (f *fixture) assertNothingWritten(t *testing.T) {
	t.Helper()
	f.txRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	f.auditRepo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	f.cache.AssertNotCalled(t, "Invalidate", mock.Anything)
	f.events.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	var serviceErr service.Error
	require.ErrorAs(t, err, &serviceErr)
	assert.Equal(t, code, serviceErr.Code)
}
