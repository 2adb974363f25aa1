package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Behyna/pawn-services/internal/model"
	"gorm.io/gorm"
)

type ExtensionRepository interface {
	Create(ctx context.Context, extension *model.Extension) error
	Update(ctx context.Context, extension *model.Extension) error
	GetByID(ctx context.Context, id int64) (*model.Extension, error)
	ListByTransaction(ctx context.Context, transactionID int64, includeCancelled bool) ([]model.Extension, error)
	CountCancelledSince(ctx context.Context, transactionID int64, since time.Time) (int64, error)
}

type Extension struct {
	db *gorm.DB
}

func NewExtensionRepository(db *gorm.DB) ExtensionRepository {
	return &Extension{db: db}
}

func (e *Extension) Create(ctx context.Context, extension *model.Extension) error {
	return mapWriteError(GetTx(ctx, e.db).Create(extension).Error)
}

// Update persists the cancellation columns only.
func (e *Extension) Update(ctx context.Context, extension *model.Extension) error {
	result := GetTx(ctx, e.db).Model(extension).
		Select("is_cancelled", "cancelled_by", "cancelled_at", "cancellation_reason", "refunded_amount").
		Updates(extension)

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrExtensionNotFound
	}

	return nil
}

func (e *Extension) GetByID(ctx context.Context, id int64) (*model.Extension, error) {
	var extension model.Extension

	err := GetTx(ctx, e.db).Where("id = ?", id).First(&extension).Error
	if err == nil {
		return &extension, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrExtensionNotFound
	}

	return nil, err
}

func (e *Extension) ListByTransaction(ctx context.Context, transactionID int64, includeCancelled bool) ([]model.Extension, error) {
	var extensions []model.Extension

	db := GetTx(ctx, e.db).Where("transaction_id = ?", transactionID)
	if !includeCancelled {
		db = db.Where("is_cancelled = ?", false)
	}

	if err := db.Order("created_at ASC, id ASC").Find(&extensions).Error; err != nil {
		return nil, err
	}

	return extensions, nil
}

func (e *Extension) CountCancelledSince(ctx context.Context, transactionID int64, since time.Time) (int64, error) {
	var count int64

	err := GetTx(ctx, e.db).Model(&model.Extension{}).
		Where("transaction_id = ? AND is_cancelled = ? AND cancelled_at >= ?", transactionID, true, since).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}
