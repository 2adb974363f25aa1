package model

import "time"

type Extension struct {
	ID                     int64      `gorm:"primaryKey;autoIncrement;column:id;<-:create"`
	TransactionID          int64      `gorm:"column:transaction_id;not null;index;<-:create"`
	ExtensionMonths        int        `gorm:"column:extension_months;not null;<-:create"`
	ExtensionFeePerMonth   int64      `gorm:"column:extension_fee_per_month;not null;<-:create"`
	TotalExtensionFee      int64      `gorm:"column:total_extension_fee;not null;<-:create"`
	DiscountAmount         int64      `gorm:"column:discount_amount;not null;default:0;<-:create"`
	DiscountReason         *string    `gorm:"column:discount_reason;type:varchar(255);<-:create"`
	DiscountApprovedBy     *string    `gorm:"column:discount_approved_by;type:varchar(64);<-:create"`
	NetFeeCollected        int64      `gorm:"column:net_fee_collected;not null;<-:create"`
	OverdueFeeCollected    int64      `gorm:"column:overdue_fee_collected;not null;default:0;<-:create"`
	OriginalMaturityDate   time.Time  `gorm:"column:original_maturity_date;type:date;not null;<-:create"`
	OriginalGracePeriodEnd time.Time  `gorm:"column:original_grace_period_end;type:date;not null;<-:create"`
	NewMaturityDate        time.Time  `gorm:"column:new_maturity_date;type:date;not null;<-:create"`
	NewGracePeriodEnd      time.Time  `gorm:"column:new_grace_period_end;type:date;not null;<-:create"`
	ProcessedBy            string     `gorm:"column:processed_by;type:varchar(64);not null;<-:create"`
	IsCancelled            bool       `gorm:"column:is_cancelled;not null;default:false"`
	CancelledBy            *string    `gorm:"column:cancelled_by;type:varchar(64)"`
	CancelledAt            *time.Time `gorm:"column:cancelled_at"`
	CancellationReason     *string    `gorm:"column:cancellation_reason;type:varchar(255)"`
	RefundedAmount         int64      `gorm:"column:refunded_amount;not null;default:0"`
	CreatedAt              time.Time  `gorm:"column:created_at;index"`
}

func (Extension) TableName() string {
	return "extensions"
}

// AmountCollected is what the customer paid at the counter for the extension.
func (e Extension) AmountCollected() int64 {
	return e.NetFeeCollected + e.OverdueFeeCollected
}
