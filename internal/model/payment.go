package model

import "time"

type Payment struct {
	ID                   int64      `gorm:"primaryKey;autoIncrement;column:id;<-:create"`
	TransactionID        int64      `gorm:"column:transaction_id;not null;index;<-:create"`
	PaymentAmount        int64      `gorm:"column:payment_amount;not null;<-:create"`
	DiscountAmount       int64      `gorm:"column:discount_amount;not null;default:0;<-:create"`
	DiscountReason       *string    `gorm:"column:discount_reason;type:varchar(255);<-:create"`
	DiscountApprovedBy   *string    `gorm:"column:discount_approved_by;type:varchar(64);<-:create"`
	BalanceBeforePayment int64      `gorm:"column:balance_before_payment;not null;<-:create"`
	BalanceAfterPayment  int64      `gorm:"column:balance_after_payment;not null;<-:create"`
	InterestPortion      int64      `gorm:"column:interest_portion;not null;<-:create"`
	OverdueFeePortion    int64      `gorm:"column:overdue_fee_portion;not null;<-:create"`
	PrincipalPortion     int64      `gorm:"column:principal_portion;not null;<-:create"`
	ReceivedBy           string     `gorm:"column:received_by;type:varchar(64);not null;<-:create"`
	IsVoided             bool       `gorm:"column:is_voided;not null;default:false"`
	VoidedBy             *string    `gorm:"column:voided_by;type:varchar(64)"`
	VoidedAt             *time.Time `gorm:"column:voided_at"`
	VoidReason           *string    `gorm:"column:void_reason;type:varchar(255)"`
	CreatedAt            time.Time  `gorm:"column:created_at;index"`
}

func (Payment) TableName() string {
	return "payments"
}

// Credited is the value the payment takes off the balance.
func (p Payment) Credited() int64 {
	return p.PaymentAmount + p.DiscountAmount
}
