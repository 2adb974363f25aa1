package service_test

import (
	"context"
	"errors"
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

func newStatusService(f *fixture) service.StatusService {
	return service.NewStatusService(f.writer, f.txRepo, f.paymentRepo, f.approver, zap.NewNop())
}

var afterMaturity = time.Date(2024, 4, 20, 12, 0, 0, 0, time.UTC)

func TestStatusService_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("manual transition", func(t *testing.T) {
		f := newFixture(evalNow)
		txn := activeTxn()
		f.onLoad(txn)
		f.onCommit(txn.ID)

		updated, err := newStatusService(f).UpdateStatus(ctx, service.UpdateStatusCommand{
			TransactionID: txn.ID,
			Status:        model.StatusHold,
			Reason:        "police hold",
			StaffMember:   "manager-1",
		})

		require.NoError(t, err)
		assert.Equal(t, model.StatusHold, updated.Status)
		require.Len(t, f.audits, 1)
		assert.Equal(t, model.AuditActionStatusChanged, f.audits[0].ActionType)
		assert.Equal(t, "ACTIVE", *f.audits[0].PreviousValue)
		assert.Equal(t, "HOLD", *f.audits[0].NewValue)
		assert.Equal(t, "police hold", *f.audits[0].Reason)
		assert.Equal(t, "manager-1", f.audits[0].StaffMember)
		assert.Equal(t, service.EventStatusChanged, f.published[0].Type)
	})

	t.Run("transition outside the table", func(t *testing.T) {
		f := newFixture(evalNow)
		txn := activeTxn()
		f.onLoad(txn)

		_, err := newStatusService(f).UpdateStatus(ctx, service.UpdateStatusCommand{
			TransactionID: txn.ID,
			Status:        model.StatusSold,
			Reason:        "sold",
		})

		assertCode(t, err, constants.ErrCodeInvalidState)
		assert.Equal(t, model.StatusActive, txn.Status)
		f.assertNothingWritten(t)
	})

	t.Run("terminal status", func(t *testing.T) {
		f := newFixture(evalNow)
		txn := activeTxn()
		txn.Status = model.StatusRedeemed
		f.onLoad(txn)

		_, err := newStatusService(f).UpdateStatus(ctx, service.UpdateStatusCommand{
			TransactionID: txn.ID,
			Status:        model.StatusActive,
			Reason:        "reopen",
		})

		assertCode(t, err, constants.ErrCodeInvalidState)
		f.assertNothingWritten(t)
	})

	t.Run("unknown status", func(t *testing.T) {
		f := newFixture(evalNow)

		_, err := newStatusService(f).UpdateStatus(ctx, service.UpdateStatusCommand{
			TransactionID: 1,
			Status:        model.Status("PAWNED"),
			Reason:        "typo",
		})

		assertCode(t, err, constants.ErrCodeValidationFailed)
		f.txManager.AssertNotCalled(t, "WithTx", mock.Anything, mock.Anything)
	})

	t.Run("reason is required", func(t *testing.T) {
		f := newFixture(evalNow)

		_, err := newStatusService(f).UpdateStatus(ctx, service.UpdateStatusCommand{
			TransactionID: 1,
			Status:        model.StatusHold,
		})

		assertCode(t, err, constants.ErrCodeValidationFailed)
		f.txManager.AssertNotCalled(t, "WithTx", mock.Anything, mock.Anything)
	})

	t.Run("automatic rule already reached the target", func(t *testing.T) {
		f := newFixture(afterMaturity)
		txn := activeTxn()
		txn.Status = model.StatusExtended
		f.onLoad(txn)
		f.onCommit(txn.ID)

		updated, err := newStatusService(f).UpdateStatus(ctx, service.UpdateStatusCommand{
			TransactionID: txn.ID,
			Status:        model.StatusOverdue,
			Reason:        "late",
			StaffMember:   "clerk-1",
		})

		require.NoError(t, err)
		assert.Equal(t, model.StatusOverdue, updated.Status)
		require.Len(t, f.audits, 1)
		assert.Equal(t, service.SystemActor, f.audits[0].StaffMember)
	})

	t.Run("automatic rule runs before the manual change", func(t *testing.T) {
		f := newFixture(afterMaturity)
		txn := activeTxn()
		f.onLoad(txn)
		f.onCommit(txn.ID)

		updated, err := newStatusService(f).UpdateStatus(ctx, service.UpdateStatusCommand{
			TransactionID: txn.ID,
			Status:        model.StatusHold,
			Reason:        "court order",
			StaffMember:   "manager-1",
		})

		require.NoError(t, err)
		assert.Equal(t, model.StatusHold, updated.Status)
		require.Len(t, f.audits, 2)
		assert.Equal(t, "OVERDUE", *f.audits[0].NewValue)
		assert.Equal(t, "OVERDUE", *f.audits[1].PreviousValue)
		assert.Equal(t, "HOLD", *f.audits[1].NewValue)
	})
}

func TestStatusService_VoidTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("voids a transaction without payments", func(t *testing.T) {
		f := newFixture(evalNow)
		txn := activeTxn()
		f.onLoad(txn)
		f.onCommit(txn.ID)
		f.approver.On("VerifyElevatedApproval", mock.Anything, "1111").Return("manager-9", nil)
		f.paymentRepo.On("ListByTransaction", mock.Anything, txn.ID, false).Return([]model.Payment{}, nil)

		voided, err := newStatusService(f).VoidTransaction(ctx, service.VoidTransactionCommand{
			TransactionID: txn.ID,
			Reason:        "wrong customer",
			ApprovalPIN:   "1111",
			StaffMember:   "clerk-1",
		})

		require.NoError(t, err)
		assert.Equal(t, model.StatusVoided, voided.Status)
		assert.Equal(t, []model.AuditAction{model.AuditActionVoided}, f.actions())
		assert.Equal(t, "wrong customer (approved by manager-9)", *f.audits[0].Reason)
		assert.Equal(t, service.EventTransactionVoided, f.published[0].Type)
	})

	t.Run("rejects transactions with payments", func(t *testing.T) {
		f := newFixture(evalNow)
		txn := activeTxn()
		f.onLoad(txn)
		f.approver.On("VerifyElevatedApproval", mock.Anything, "1111").Return("manager-9", nil)
		f.paymentRepo.On("ListByTransaction", mock.Anything, txn.ID, false).
			Return([]model.Payment{{ID: 3, PaymentAmount: 100}}, nil)

		_, err := newStatusService(f).VoidTransaction(ctx, service.VoidTransactionCommand{
			TransactionID: txn.ID, Reason: "duplicate", ApprovalPIN: "1111",
		})

		assertCode(t, err, constants.ErrCodeInvalidState)
		assert.Equal(t, model.StatusActive, txn.Status)
		f.assertNothingWritten(t)
	})

	t.Run("rejects closed transactions", func(t *testing.T) {
		f := newFixture(evalNow)
		txn := activeTxn()
		txn.Status = model.StatusRedeemed
		f.onLoad(txn)
		f.approver.On("VerifyElevatedApproval", mock.Anything, "1111").Return("manager-9", nil)

		_, err := newStatusService(f).VoidTransaction(ctx, service.VoidTransactionCommand{
			TransactionID: txn.ID, Reason: "duplicate", ApprovalPIN: "1111",
		})

		assertCode(t, err, constants.ErrCodeInvalidState)
		f.paymentRepo.AssertNotCalled(t, "ListByTransaction", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("requires approval", func(t *testing.T) {
		f := newFixture(evalNow)
		f.approver.On("VerifyElevatedApproval", mock.Anything, "").
			Return("", service.NewServiceError(constants.ErrCodeApprovalRequired, service.ErrApprovalMissing))

		_, err := newStatusService(f).VoidTransaction(ctx, service.VoidTransactionCommand{
			TransactionID: 1, Reason: "duplicate",
		})

		assertCode(t, err, constants.ErrCodeApprovalRequired)
		f.txManager.AssertNotCalled(t, "WithTx", mock.Anything, mock.Anything)
	})

	t.Run("requires a reason", func(t *testing.T) {
		f := newFixture(evalNow)

		_, err := newStatusService(f).VoidTransaction(ctx, service.VoidTransactionCommand{TransactionID: 1, ApprovalPIN: "1111"})

		assertCode(t, err, constants.ErrCodeValidationFailed)
		f.approver.AssertNotCalled(t, "VerifyElevatedApproval", mock.Anything, mock.Anything)
	})
}

func TestStatusService_CancelTransaction(t *testing.T) {
	ctx := context.Background()
	shortlyAfterIntake := time.Date(2024, 1, 15, 15, 0, 0, 0, time.UTC)

	t.Run("cancels a fresh intake", func(t *testing.T) {
		f := newFixture(shortlyAfterIntake)
		txn := activeTxn()
		f.onLoad(txn)
		f.onCommit(txn.ID)
		f.paymentRepo.On("ListByTransaction", mock.Anything, txn.ID, true).Return([]model.Payment{}, nil)

		canceled, err := newStatusService(f).CancelTransaction(ctx, service.CancelTransactionCommand{
			TransactionID: txn.ID, Reason: "entered twice", StaffMember: "admin-1",
		})

		require.NoError(t, err)
		assert.Equal(t, model.StatusCanceled, canceled.Status)
		assert.Equal(t, []model.AuditAction{model.AuditActionCanceled}, f.actions())
		assert.Equal(t, service.EventTransactionCanceled, f.published[0].Type)
	})

	t.Run("rejects after the cancel window", func(t *testing.T) {
		f := newFixture(evalNow)
		txn := activeTxn()
		f.onLoad(txn)

		_, err := newStatusService(f).CancelTransaction(ctx, service.CancelTransactionCommand{
			TransactionID: txn.ID, Reason: "entered twice",
		})

		assertCode(t, err, constants.ErrCodeInvalidState)
		assert.Contains(t, err.Error(), "24 hours")
		f.assertNothingWritten(t)
	})

	t.Run("voided payments still block cancellation", func(t *testing.T) {
		f := newFixture(shortlyAfterIntake)
		txn := activeTxn()
		f.onLoad(txn)
		f.paymentRepo.On("ListByTransaction", mock.Anything, txn.ID, true).
			Return([]model.Payment{{ID: 9, PaymentAmount: 50, IsVoided: true}}, nil)

		_, err := newStatusService(f).CancelTransaction(ctx, service.CancelTransactionCommand{
			TransactionID: txn.ID, Reason: "entered twice",
		})

		assertCode(t, err, constants.ErrCodeInvalidState)
		f.assertNothingWritten(t)
	})

	t.Run("only active transactions", func(t *testing.T) {
		f := newFixture(shortlyAfterIntake)
		txn := activeTxn()
		txn.Status = model.StatusHold
		f.onLoad(txn)

		_, err := newStatusService(f).CancelTransaction(ctx, service.CancelTransactionCommand{
			TransactionID: txn.ID, Reason: "entered twice",
		})

		assertCode(t, err, constants.ErrCodeInvalidState)
	})
}

func TestStatusService_MarkOverdue(t *testing.T) {
	ctx := context.Background()

	t.Run("marks matured transactions and skips failures", func(t *testing.T) {
		f := newFixture(afterMaturity)

		matured := activeTxn()
		alreadyOverdue := activeTxn()
		alreadyOverdue.ID = 2
		alreadyOverdue.Status = model.StatusOverdue
		conflicting := activeTxn()
		conflicting.ID = 3
		broken := activeTxn()
		broken.ID = 4

		f.txRepo.On("FindMaturedOpen", mock.Anything, afterMaturity, 50).
			Return([]model.PawnTransaction{*matured, *alreadyOverdue, *conflicting, *broken}, nil)
		f.txManager.On("WithTx", mock.Anything, mock.AnythingOfType("func(context.Context) error")).Return(nil)
		f.txRepo.On("GetForUpdate", mock.Anything, int64(1)).Return(matured, nil)
		f.txRepo.On("GetForUpdate", mock.Anything, int64(2)).Return(alreadyOverdue, nil)
		f.txRepo.On("GetForUpdate", mock.Anything, int64(3)).Return(conflicting, nil)
		f.txRepo.On("GetForUpdate", mock.Anything, int64(4)).Return(nil, errors.New("lock wait timeout"))

		f.txRepo.On("Save", mock.Anything, matured).Return(nil)
		f.txRepo.On("Save", mock.Anything, conflicting).Return(repository.ErrVersionConflict)
		f.auditRepo.On("Append", mock.Anything, mock.AnythingOfType("[]model.AuditEntry")).
			Run(func(args mock.Arguments) {
				f.audits = append(f.audits, args.Get(1).([]model.AuditEntry)...)
			}).Return(nil)
		f.cache.On("Invalidate", int64(1)).Return()
		f.events.On("Publish", mock.Anything, mock.AnythingOfType("service.LedgerEvent")).Return(nil)

		marked, err := newStatusService(f).MarkOverdue(ctx, afterMaturity, 50)

		require.NoError(t, err)
		assert.Equal(t, 1, marked)
		assert.Equal(t, model.StatusOverdue, matured.Status)
		require.Len(t, f.audits, 1)
		assert.Equal(t, int64(1), f.audits[0].TransactionID)
		assert.Equal(t, service.SystemActor, f.audits[0].StaffMember)
		assert.Equal(t, afterMaturity, f.audits[0].CreatedAt)
		f.txRepo.AssertNumberOfCalls(t, "Save", 2)
		f.cache.AssertNotCalled(t, "Invalidate", int64(3))
	})

	t.Run("query failure", func(t *testing.T) {
		f := newFixture(afterMaturity)
		f.txRepo.On("FindMaturedOpen", mock.Anything, afterMaturity, 10).Return(nil, errors.New("connection refused"))

		marked, err := newStatusService(f).MarkOverdue(ctx, afterMaturity, 10)

		assertCode(t, err, constants.ErrCodeDatabase)
		assert.Zero(t, marked)
	})
}
