package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Behyna/pawn-services/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PawnTransactionRepository interface {
	Create(ctx context.Context, txn *model.PawnTransaction) error
	GetByID(ctx context.Context, id int64) (*model.PawnTransaction, error)
	GetWithAuditLog(ctx context.Context, id int64) (*model.PawnTransaction, error)
	GetForUpdate(ctx context.Context, id int64) (*model.PawnTransaction, error)
	Save(ctx context.Context, txn *model.PawnTransaction) error
	FindMaturedOpen(ctx context.Context, asOf time.Time, limit int) ([]model.PawnTransaction, error)
}

type PawnTransaction struct {
	db *gorm.DB
}

func NewPawnTransactionRepository(db *gorm.DB) PawnTransactionRepository {
	return &PawnTransaction{db: db}
}

func (r *PawnTransaction) Create(ctx context.Context, txn *model.PawnTransaction) error {
	db := GetTx(ctx, r.db)
	if txn.Version == 0 {
		txn.Version = 1
	}

	return mapWriteError(db.Omit(clause.Associations).Create(txn).Error)
}

func (r *PawnTransaction) GetByID(ctx context.Context, id int64) (*model.PawnTransaction, error) {
	return r.first(GetTx(ctx, r.db), id)
}

func (r *PawnTransaction) GetWithAuditLog(ctx context.Context, id int64) (*model.PawnTransaction, error) {
	db := GetTx(ctx, r.db).Preload("AuditLog", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC, id ASC")
	})
	return r.first(db, id)
}

// GetForUpdate reads the row with SELECT ... FOR UPDATE. It must run inside
// WithTx for the lock to outlive the statement.
func (r *PawnTransaction) GetForUpdate(ctx context.Context, id int64) (*model.PawnTransaction, error) {
	return r.first(GetTx(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

// Save writes every column of txn when the stored version still matches and
// bumps the version. A stale version yields ErrVersionConflict.
func (r *PawnTransaction) Save(ctx context.Context, txn *model.PawnTransaction) error {
	db := GetTx(ctx, r.db)
	prev := txn.Version
	txn.Version = prev + 1

	result := db.Model(txn).
		Where("version = ?", prev).
		Select("*").
		Omit("id", "created_at", clause.Associations).
		Updates(txn)

	if result.Error != nil {
		txn.Version = prev
		return mapWriteError(result.Error)
	}

	if result.RowsAffected == 0 {
		txn.Version = prev
		return ErrVersionConflict
	}

	return nil
}

// FindMaturedOpen lists ACTIVE and EXTENDED transactions whose maturity date
// is before asOf's calendar day.
func (r *PawnTransaction) FindMaturedOpen(ctx context.Context, asOf time.Time, limit int) ([]model.PawnTransaction, error) {
	var txns []model.PawnTransaction

	y, m, d := asOf.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	err := GetTx(ctx, r.db).
		Where("status IN ? AND maturity_date < ?",
			[]model.Status{model.StatusActive, model.StatusExtended}, day).
		Order("maturity_date ASC, id ASC").
		Limit(limit).
		Find(&txns).Error
	if err != nil {
		return nil, err
	}

	return txns, nil
}

func (r *PawnTransaction) first(db *gorm.DB, id int64) (*model.PawnTransaction, error) {
	var txn model.PawnTransaction

	err := db.Where("id = ?", id).First(&txn).Error
	if err == nil {
		return &txn, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTransactionNotFound
	}

	return nil, err
}
