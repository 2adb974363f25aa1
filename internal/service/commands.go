package service

import (
	"time"

	"github.com/Behyna/pawn-services/internal/model"
)

type CreateTransactionCommand struct {
	CustomerID            string
	LoanAmount            int64
	MonthlyInterestAmount int64
	PawnDate              *time.Time
	CreatedBy             string
}

type ProcessPaymentCommand struct {
	TransactionID  int64
	Amount         int64
	Discount       int64
	DiscountReason string
	ApprovalPIN    string
	ReceivedBy     string
}

type ProcessExtensionCommand struct {
	TransactionID     int64
	Months            int
	FeePerMonth       int64
	Discount          int64
	DiscountReason    string
	ApprovalPIN       string
	CollectOverdueFee bool
	ProcessedBy       string
}

type UpdateStatusCommand struct {
	TransactionID int64
	Status        model.Status
	Reason        string
	StaffMember   string
}

type SetOverdueFeeCommand struct {
	TransactionID int64
	Amount        int64
	Reason        string
	StaffMember   string
}

type VoidTransactionCommand struct {
	TransactionID int64
	Reason        string
	ApprovalPIN   string
	StaffMember   string
}

type CancelTransactionCommand struct {
	TransactionID int64
	Reason        string
	StaffMember   string
}

type VoidPaymentCommand struct {
	PaymentID   int64
	Reason      string
	ApprovalPIN string
	StaffMember string
}

type CancelExtensionCommand struct {
	ExtensionID int64
	Reason      string
	ApprovalPIN string
	StaffMember string
}
