package v1

import (
	"time"

	"github.com/Behyna/pawn-services/internal/model"
	"github.com/Behyna/pawn-services/internal/service"
)

type TransactionResponse struct {
	ID                    int64                `json:"id"`
	CustomerID            string               `json:"customer_id"`
	LoanAmount            int64                `json:"loan_amount"`
	MonthlyInterestAmount int64                `json:"monthly_interest_amount"`
	PawnDate              string               `json:"pawn_date"`
	MaturityDate          string               `json:"maturity_date"`
	GracePeriodEnd        string               `json:"grace_period_end"`
	OverdueFee            int64                `json:"overdue_fee"`
	Status                model.Status         `json:"status"`
	EffectiveStatus       model.Status         `json:"effective_status,omitempty"`
	Version               int64                `json:"version"`
	CreatedBy             string               `json:"created_by"`
	CreatedAt             time.Time            `json:"created_at"`
	UpdatedAt             time.Time            `json:"updated_at"`
	AuditLog              []AuditEntryResponse `json:"audit_log,omitempty"`
}

type AuditEntryResponse struct {
	ID            int64             `json:"id"`
	ActionType    model.AuditAction `json:"action_type"`
	StaffMember   string            `json:"staff_member"`
	Amount        *int64            `json:"amount,omitempty"`
	PreviousValue *string           `json:"previous_value,omitempty"`
	NewValue      *string           `json:"new_value,omitempty"`
	Reason        *string           `json:"reason,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
}

type PaymentResponse struct {
	ID                   int64      `json:"id"`
	TransactionID        int64      `json:"transaction_id"`
	PaymentAmount        int64      `json:"payment_amount"`
	DiscountAmount       int64      `json:"discount_amount"`
	DiscountReason       *string    `json:"discount_reason,omitempty"`
	DiscountApprovedBy   *string    `json:"discount_approved_by,omitempty"`
	BalanceBeforePayment int64      `json:"balance_before_payment"`
	BalanceAfterPayment  int64      `json:"balance_after_payment"`
	InterestPortion      int64      `json:"interest_portion"`
	OverdueFeePortion    int64      `json:"overdue_fee_portion"`
	PrincipalPortion     int64      `json:"principal_portion"`
	ReceivedBy           string     `json:"received_by"`
	IsVoided             bool       `json:"is_voided"`
	VoidedBy             *string    `json:"voided_by,omitempty"`
	VoidedAt             *time.Time `json:"voided_at,omitempty"`
	VoidReason           *string    `json:"void_reason,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
}

type ExtensionResponse struct {
	ID                     int64      `json:"id"`
	TransactionID          int64      `json:"transaction_id"`
	ExtensionMonths        int        `json:"extension_months"`
	ExtensionFeePerMonth   int64      `json:"extension_fee_per_month"`
	TotalExtensionFee      int64      `json:"total_extension_fee"`
	DiscountAmount         int64      `json:"discount_amount"`
	DiscountReason         *string    `json:"discount_reason,omitempty"`
	DiscountApprovedBy     *string    `json:"discount_approved_by,omitempty"`
	NetFeeCollected        int64      `json:"net_fee_collected"`
	OverdueFeeCollected    int64      `json:"overdue_fee_collected"`
	OriginalMaturityDate   string     `json:"original_maturity_date"`
	OriginalGracePeriodEnd string     `json:"original_grace_period_end"`
	NewMaturityDate        string     `json:"new_maturity_date"`
	NewGracePeriodEnd      string     `json:"new_grace_period_end"`
	ProcessedBy            string     `json:"processed_by"`
	IsCancelled            bool       `json:"is_cancelled"`
	CancelledBy            *string    `json:"cancelled_by,omitempty"`
	CancelledAt            *time.Time `json:"cancelled_at,omitempty"`
	CancellationReason     *string    `json:"cancellation_reason,omitempty"`
	RefundedAmount         int64      `json:"refunded_amount"`
	CreatedAt              time.Time  `json:"created_at"`
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.DateOnly)
}

func NewTransactionResponse(txn *model.PawnTransaction) TransactionResponse {
	res := TransactionResponse{
		ID:                    txn.ID,
		CustomerID:            txn.CustomerID,
		LoanAmount:            txn.LoanAmount,
		MonthlyInterestAmount: txn.MonthlyInterestAmount,
		PawnDate:              formatDate(txn.PawnDate),
		MaturityDate:          formatDate(txn.MaturityDate),
		GracePeriodEnd:        formatDate(txn.GracePeriodEnd),
		OverdueFee:            txn.OverdueFee,
		Status:                txn.Status,
		Version:               txn.Version,
		CreatedBy:             txn.CreatedBy,
		CreatedAt:             txn.CreatedAt,
		UpdatedAt:             txn.UpdatedAt,
	}

	for _, entry := range txn.AuditLog {
		res.AuditLog = append(res.AuditLog, AuditEntryResponse{
			ID:            entry.ID,
			ActionType:    entry.ActionType,
			StaffMember:   entry.StaffMember,
			Amount:        entry.Amount,
			PreviousValue: entry.PreviousValue,
			NewValue:      entry.NewValue,
			Reason:        entry.Reason,
			CreatedAt:     entry.CreatedAt,
		})
	}

	return res
}

func NewTransactionDetailsResponse(details *service.TransactionDetails) TransactionResponse {
	res := NewTransactionResponse(details.Transaction)
	res.EffectiveStatus = details.EffectiveStatus
	return res
}

func NewPaymentResponse(p *model.Payment) PaymentResponse {
	return PaymentResponse{
		ID:                   p.ID,
		TransactionID:        p.TransactionID,
		PaymentAmount:        p.PaymentAmount,
		DiscountAmount:       p.DiscountAmount,
		DiscountReason:       p.DiscountReason,
		DiscountApprovedBy:   p.DiscountApprovedBy,
		BalanceBeforePayment: p.BalanceBeforePayment,
		BalanceAfterPayment:  p.BalanceAfterPayment,
		InterestPortion:      p.InterestPortion,
		OverdueFeePortion:    p.OverdueFeePortion,
		PrincipalPortion:     p.PrincipalPortion,
		ReceivedBy:           p.ReceivedBy,
		IsVoided:             p.IsVoided,
		VoidedBy:             p.VoidedBy,
		VoidedAt:             p.VoidedAt,
		VoidReason:           p.VoidReason,
		CreatedAt:            p.CreatedAt,
	}
}

func NewPaymentResponses(payments []model.Payment) []PaymentResponse {
	res := make([]PaymentResponse, 0, len(payments))
	for i := range payments {
		res = append(res, NewPaymentResponse(&payments[i]))
	}
	return res
}

func NewExtensionResponse(e *model.Extension) ExtensionResponse {
	return ExtensionResponse{
		ID:                     e.ID,
		TransactionID:          e.TransactionID,
		ExtensionMonths:        e.ExtensionMonths,
		ExtensionFeePerMonth:   e.ExtensionFeePerMonth,
		TotalExtensionFee:      e.TotalExtensionFee,
		DiscountAmount:         e.DiscountAmount,
		DiscountReason:         e.DiscountReason,
		DiscountApprovedBy:     e.DiscountApprovedBy,
		NetFeeCollected:        e.NetFeeCollected,
		OverdueFeeCollected:    e.OverdueFeeCollected,
		OriginalMaturityDate:   formatDate(e.OriginalMaturityDate),
		OriginalGracePeriodEnd: formatDate(e.OriginalGracePeriodEnd),
		NewMaturityDate:        formatDate(e.NewMaturityDate),
		NewGracePeriodEnd:      formatDate(e.NewGracePeriodEnd),
		ProcessedBy:            e.ProcessedBy,
		IsCancelled:            e.IsCancelled,
		CancelledBy:            e.CancelledBy,
		CancelledAt:            e.CancelledAt,
		CancellationReason:     e.CancellationReason,
		RefundedAmount:         e.RefundedAmount,
		CreatedAt:              e.CreatedAt,
	}
}

func NewExtensionResponses(extensions []model.Extension) []ExtensionResponse {
	res := make([]ExtensionResponse, 0, len(extensions))
	for i := range extensions {
		res = append(res, NewExtensionResponse(&extensions[i]))
	}
	return res
}
