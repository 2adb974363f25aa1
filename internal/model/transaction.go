package model

import "time"

type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusOverdue   Status = "OVERDUE"
	StatusExtended  Status = "EXTENDED"
	StatusHold      Status = "HOLD"
	StatusDamaged   Status = "DAMAGED"
	StatusRedeemed  Status = "REDEEMED"
	StatusForfeited Status = "FORFEITED"
	StatusSold      Status = "SOLD"
	StatusVoided    Status = "VOIDED"
	StatusCanceled  Status = "CANCELED"
)

var statuses = map[Status]struct{}{
	StatusActive:    {},
	StatusOverdue:   {},
	StatusExtended:  {},
	StatusHold:      {},
	StatusDamaged:   {},
	StatusRedeemed:  {},
	StatusForfeited: {},
	StatusSold:      {},
	StatusVoided:    {},
	StatusCanceled:  {},
}

func (s Status) Valid() bool {
	_, ok := statuses[s]
	return ok
}

func (s Status) String() string {
	return string(s)
}

type PawnTransaction struct {
	ID                    int64        `gorm:"primaryKey;autoIncrement;column:id;<-:create"`
	CustomerID            string       `gorm:"column:customer_id;type:varchar(64);not null;index"`
	LoanAmount            int64        `gorm:"column:loan_amount;not null"`
	MonthlyInterestAmount int64        `gorm:"column:monthly_interest_amount;not null;default:0"`
	PawnDate              time.Time    `gorm:"column:pawn_date;type:date;not null"`
	MaturityDate          time.Time    `gorm:"column:maturity_date;type:date;not null;index"`
	GracePeriodEnd        time.Time    `gorm:"column:grace_period_end;type:date;not null"`
	OverdueFee            int64        `gorm:"column:overdue_fee;not null;default:0"`
	Status                Status       `gorm:"column:status;type:varchar(16);not null;index"`
	Version               int64        `gorm:"column:version;not null;default:1"`
	CreatedBy             string       `gorm:"column:created_by;type:varchar(64);not null"`
	CreatedAt             time.Time    `gorm:"column:created_at"`
	UpdatedAt             time.Time    `gorm:"column:updated_at"`
	AuditLog              []AuditEntry `gorm:"foreignKey:TransactionID"`
}

func (PawnTransaction) TableName() string {
	return "pawn_transactions"
}
