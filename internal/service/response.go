package service

import (
	"time"

	"github.com/Behyna/pawn-services/internal/model"
)

// BalanceBreakdown is the ledger position of a transaction on one day.
type BalanceBreakdown struct {
	TransactionID   int64        `json:"transaction_id"`
	AsOf            time.Time    `json:"as_of"`
	Status          model.Status `json:"status"`
	EffectiveStatus model.Status `json:"effective_status"`
	MonthsElapsed   int          `json:"months_elapsed"`

	Principal   int64 `json:"principal"`
	InterestDue int64 `json:"interest_due"`
	OverdueFee  int64 `json:"overdue_fee"`
	TotalDue    int64 `json:"total_due"`

	TotalPaid      int64 `json:"total_paid"`
	TotalDiscounts int64 `json:"total_discounts"`
	TotalRefunds   int64 `json:"total_refunds"`

	PrincipalPaid  int64 `json:"principal_paid"`
	InterestPaid   int64 `json:"interest_paid"`
	OverdueFeePaid int64 `json:"overdue_fee_paid"`

	PrincipalRemaining  int64 `json:"principal_remaining"`
	InterestRemaining   int64 `json:"interest_remaining"`
	OverdueFeeRemaining int64 `json:"overdue_fee_remaining"`
	Credit              int64 `json:"credit"`

	ExtensionFeesCollected int64 `json:"extension_fees_collected"`
	ActiveExtensions       int   `json:"active_extensions"`

	LedgerBalance  int64 `json:"ledger_balance"`
	CurrentBalance int64 `json:"current_balance"`
}

type Payoff struct {
	TransactionID       int64     `json:"transaction_id"`
	AsOf                time.Time `json:"as_of"`
	Amount              int64     `json:"amount"`
	PrincipalRemaining  int64     `json:"principal_remaining"`
	InterestRemaining   int64     `json:"interest_remaining"`
	OverdueFeeRemaining int64     `json:"overdue_fee_remaining"`
	Credit              int64     `json:"credit"`
}

type TransactionDetails struct {
	Transaction     *model.PawnTransaction
	EffectiveStatus model.Status
}
