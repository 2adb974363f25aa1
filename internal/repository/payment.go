package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Behyna/pawn-services/internal/model"
	"gorm.io/gorm"
)

type PaymentRepository interface {
	Create(ctx context.Context, payment *model.Payment) error
	Update(ctx context.Context, payment *model.Payment) error
	GetByID(ctx context.Context, id int64) (*model.Payment, error)
	ListByTransaction(ctx context.Context, transactionID int64, includeVoided bool) ([]model.Payment, error)
	CountVoidedSince(ctx context.Context, transactionID int64, since time.Time) (int64, error)
}

type Payment struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &Payment{db: db}
}

func (p *Payment) Create(ctx context.Context, payment *model.Payment) error {
	return mapWriteError(GetTx(ctx, p.db).Create(payment).Error)
}

// Update persists the void columns; everything else on a payment is
// immutable once written.
func (p *Payment) Update(ctx context.Context, payment *model.Payment) error {
	result := GetTx(ctx, p.db).Model(payment).
		Select("is_voided", "voided_by", "voided_at", "void_reason").
		Updates(payment)

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrPaymentNotFound
	}

	return nil
}

func (p *Payment) GetByID(ctx context.Context, id int64) (*model.Payment, error) {
	var payment model.Payment

	err := GetTx(ctx, p.db).Where("id = ?", id).First(&payment).Error
	if err == nil {
		return &payment, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPaymentNotFound
	}

	return nil, err
}

func (p *Payment) ListByTransaction(ctx context.Context, transactionID int64, includeVoided bool) ([]model.Payment, error) {
	var payments []model.Payment

	db := GetTx(ctx, p.db).Where("transaction_id = ?", transactionID)
	if !includeVoided {
		db = db.Where("is_voided = ?", false)
	}

	if err := db.Order("created_at ASC, id ASC").Find(&payments).Error; err != nil {
		return nil, err
	}

	return payments, nil
}

func (p *Payment) CountVoidedSince(ctx context.Context, transactionID int64, since time.Time) (int64, error) {
	var count int64

	err := GetTx(ctx, p.db).Model(&model.Payment{}).
		Where("transaction_id = ? AND is_voided = ? AND voided_at >= ?", transactionID, true, since).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}
