package model

import "time"

type AuditAction string

const (
	AuditActionCreated          AuditAction = "TRANSACTION_CREATED"
	AuditActionStatusChanged    AuditAction = "STATUS_CHANGED"
	AuditActionPaymentReceived  AuditAction = "PAYMENT_RECEIVED"
	AuditActionPaymentVoided    AuditAction = "PAYMENT_VOIDED"
	AuditActionExtended         AuditAction = "EXTENSION_PROCESSED"
	AuditActionExtensionRevoked AuditAction = "EXTENSION_CANCELLED"
	AuditActionOverdueFeeSet    AuditAction = "OVERDUE_FEE_SET"
	AuditActionVoided           AuditAction = "TRANSACTION_VOIDED"
	AuditActionCanceled         AuditAction = "TRANSACTION_CANCELED"
)

// AuditEntry rows are insert-only.
type AuditEntry struct {
	ID            int64       `gorm:"primaryKey;autoIncrement;column:id;<-:create"`
	TransactionID int64       `gorm:"column:transaction_id;not null;index;<-:create"`
	ActionType    AuditAction `gorm:"column:action_type;type:varchar(32);not null;<-:create"`
	StaffMember   string      `gorm:"column:staff_member;type:varchar(64);not null;<-:create"`
	Amount        *int64      `gorm:"column:amount;<-:create"`
	PreviousValue *string     `gorm:"column:previous_value;type:varchar(255);<-:create"`
	NewValue      *string     `gorm:"column:new_value;type:varchar(255);<-:create"`
	Reason        *string     `gorm:"column:reason;type:varchar(255);<-:create"`
	CreatedAt     time.Time   `gorm:"column:created_at;<-:create"`
}

func (AuditEntry) TableName() string {
	return "audit_entries"
}
