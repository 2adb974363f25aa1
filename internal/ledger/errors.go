package ledger

import "errors"

var (
	ErrInvalidAmount     = errors.New("payment amount must be greater than zero")
	ErrInvalidDiscount   = errors.New("discount amount must not be negative")
	ErrDiscountTooLarge  = errors.New("discount amount exceeds the amount it applies to")
	ErrInvalidMonths     = errors.New("extension months must be between 1 and 3")
	ErrInvalidFee        = errors.New("extension fee per month must be between 0 and 1000")
	ErrInvalidTransition = errors.New("status transition not allowed")
	ErrInvariant         = errors.New("ledger invariant violated")
)
