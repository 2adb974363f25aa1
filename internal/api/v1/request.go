package v1

type CreateTransactionRequest struct {
	CustomerID            string `json:"customer_id" validate:"required,max=64"`
	LoanAmount            int64  `json:"loan_amount" validate:"required,gt=0"`
	MonthlyInterestAmount int64  `json:"monthly_interest_amount" validate:"gte=0"`
	PawnDate              string `json:"pawn_date" validate:"date"`
}

type PaymentRequest struct {
	Amount         int64  `json:"amount" validate:"required,gt=0"`
	Discount       int64  `json:"discount" validate:"gte=0"`
	DiscountReason string `json:"discount_reason" validate:"max=255"`
	ApprovalPIN    string `json:"approval_pin" validate:"max=64"`
}

type ExtensionRequest struct {
	Months            int    `json:"months" validate:"required,min=1,max=3"`
	FeePerMonth       int64  `json:"fee_per_month" validate:"gte=0,lte=1000"`
	Discount          int64  `json:"discount" validate:"gte=0"`
	DiscountReason    string `json:"discount_reason" validate:"max=255"`
	ApprovalPIN       string `json:"approval_pin" validate:"max=64"`
	CollectOverdueFee bool   `json:"collect_overdue_fee"`
}

type StatusRequest struct {
	Status string `json:"status" validate:"required,pawn_status"`
	Reason string `json:"reason" validate:"required,max=255"`
}

type OverdueFeeRequest struct {
	Amount int64  `json:"amount" validate:"gte=0"`
	Reason string `json:"reason" validate:"max=255"`
}

type CancelRequest struct {
	Reason string `json:"reason" validate:"required,max=255"`
}

// ApprovedRequest is the body of every operation that needs a manager PIN
// on top of a reason: voiding transactions and payments and cancelling
// extensions.
type ApprovedRequest struct {
	Reason      string `json:"reason" validate:"required,max=255"`
	ApprovalPIN string `json:"approval_pin" validate:"required,max=64"`
}
