package repository

import (
	"context"

	"github.com/Behyna/pawn-services/internal/model"
	"gorm.io/gorm"
)

// AuditRepository is append-only; there is no update or delete.
type AuditRepository interface {
	Append(ctx context.Context, entries []model.AuditEntry) error
	ListByTransaction(ctx context.Context, transactionID int64) ([]model.AuditEntry, error)
}

type Audit struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &Audit{db: db}
}

func (a *Audit) Append(ctx context.Context, entries []model.AuditEntry) error {
	if len(entries) == 0 {
		return nil
	}

	return GetTx(ctx, a.db).Create(&entries).Error
}

func (a *Audit) ListByTransaction(ctx context.Context, transactionID int64) ([]model.AuditEntry, error) {
	var entries []model.AuditEntry

	err := GetTx(ctx, a.db).
		Where("transaction_id = ?", transactionID).
		Order("created_at ASC, id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}

	return entries, nil
}
