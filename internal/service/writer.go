package service

import (
	"context"
	"strconv"
	"time"

	"github.com/Behyna/pawn-services/internal/constants"
	"github.com/Behyna/pawn-services/internal/ledger"
	"github.com/Behyna/pawn-services/internal/model"
	"github.com/Behyna/pawn-services/internal/repository"
	"go.uber.org/zap"
)

const SystemActor = "system"

// LedgerWriter runs every mutation of a pawn transaction the same way:
// in-process lock, database transaction with the row locked, the change
// itself, a versioned save with its audit entries, then cache invalidation
// and event publication once committed.
type LedgerWriter struct {
	txManager repository.TxManager
	txRepo    repository.PawnTransactionRepository
	auditRepo repository.AuditRepository
	locker    *Locker
	cache     BalanceCache
	events    EventPublisher
	clock     Clock
	logger    *zap.Logger
}

func NewLedgerWriter(txManager repository.TxManager, txRepo repository.PawnTransactionRepository,
	auditRepo repository.AuditRepository, locker *Locker, cache BalanceCache, events EventPublisher,
	clock Clock, logger *zap.Logger) *LedgerWriter {
	return &LedgerWriter{txManager: txManager, txRepo: txRepo, auditRepo: auditRepo, locker: locker,
		cache: cache, events: events, clock: clock, logger: logger}
}

// change collects what a mutation did so the writer can persist and announce it.
type change struct {
	staff  string
	now    time.Time
	event  EventType
	audits []model.AuditEntry
}

func (c *change) audit(txn *model.PawnTransaction, action model.AuditAction, amount *int64, prev, next, reason string) {
	c.audits = append(c.audits, model.AuditEntry{
		TransactionID: txn.ID,
		ActionType:    action,
		StaffMember:   c.staff,
		Amount:        amount,
		PreviousValue: optional(prev),
		NewValue:      optional(next),
		Reason:        optional(reason),
		CreatedAt:     c.now,
	})
}

// setStatus moves txn to status and records it. It does not consult the
// manual transition table; callers decide which rule applies.
func (c *change) setStatus(txn *model.PawnTransaction, status model.Status, reason string) {
	if txn.Status == status {
		return
	}

	c.audit(txn, model.AuditActionStatusChanged, nil, txn.Status.String(), status.String(), reason)
	txn.Status = status
	if c.event == "" {
		c.event = EventStatusChanged
	}
}

// applyAutoOverdue persists the date-driven OVERDUE transition, if due.
func (c *change) applyAutoOverdue(txn *model.PawnTransaction) {
	if status, changed := ledger.AutoOverdue(txn.Status, txn.MaturityDate, c.now); changed {
		c.audits = append(c.audits, model.AuditEntry{
			TransactionID: txn.ID,
			ActionType:    model.AuditActionStatusChanged,
			StaffMember:   SystemActor,
			PreviousValue: optional(txn.Status.String()),
			NewValue:      optional(status.String()),
			Reason:        optional("maturity date passed"),
			CreatedAt:     c.now,
		})
		txn.Status = status
	}
}

type mutation func(ctx context.Context, txn *model.PawnTransaction, c *change) error

// Mutate loads transaction id for update and applies fn. Nothing is written
// when fn records no audit entry.
func (w *LedgerWriter) Mutate(ctx context.Context, id int64, staff string, fn mutation) (*model.PawnTransaction, error) {
	unlock := w.locker.Lock(id)
	defer unlock()

	c := &change{staff: staff, now: w.clock()}
	var txn *model.PawnTransaction

	err := w.txManager.WithTx(ctx, func(ctx context.Context) error {
		var err error
		txn, err = w.txRepo.GetForUpdate(ctx, id)
		if err != nil {
			return storageError(err)
		}

		if err := fn(ctx, txn, c); err != nil {
			return err
		}

		if len(c.audits) == 0 {
			return nil
		}

		txn.UpdatedAt = c.now
		if err := w.txRepo.Save(ctx, txn); err != nil {
			w.logger.Warn("Failed to save pawn transaction",
				zap.Int64("transactionID", id),
				zap.Int64("version", txn.Version),
				zap.Error(err))
			return storageError(err)
		}

		if err := w.auditRepo.Append(ctx, c.audits); err != nil {
			w.logger.Error("Failed to append audit entries",
				zap.Int64("transactionID", id),
				zap.Error(err))
			return storageError(err)
		}

		return nil
	})
	if err != nil {
		if HasCode(err, constants.ErrCodeInvariantViolation) {
			w.logger.Error("Ledger invariant violated",
				zap.Int64("transactionID", id),
				zap.String("staff", staff),
				zap.Error(err))
		}
		return nil, err
	}

	if len(c.audits) > 0 {
		w.committed(ctx, txn, c.event, c.now)
	}

	return txn, nil
}

func (w *LedgerWriter) committed(ctx context.Context, txn *model.PawnTransaction, event EventType, at time.Time) {
	w.cache.Invalidate(txn.ID)

	if event == "" {
		event = EventStatusChanged
	}

	err := w.events.Publish(ctx, LedgerEvent{
		Type:          event,
		TransactionID: txn.ID,
		Status:        txn.Status,
		Version:       txn.Version,
		OccurredAt:    at,
	})
	if err != nil {
		w.logger.Warn("Failed to publish ledger event",
			zap.Int64("transactionID", txn.ID),
			zap.String("event", string(event)),
			zap.Error(err))
	}
}

func (w *LedgerWriter) now() time.Time {
	return w.clock()
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func amountPtr(v int64) *int64 {
	return &v
}

func formatAmount(v int64) string {
	return strconv.FormatInt(v, 10)
}

func formatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}

func requireReason(reason, action string) error {
	if reason == "" {
		return validationError("a reason is required to %s", action)
	}
	return nil
}
