package ledger

import (
	"fmt"
	"time"
)

const (
	MinExtensionMonths      = 1
	MaxExtensionMonths      = 3
	MaxExtensionFeePerMonth = 1000
)

type ExtensionTerms struct {
	Months      int
	FeePerMonth int64
	Discount    int64
}

func (t ExtensionTerms) Validate() error {
	if t.Months < MinExtensionMonths || t.Months > MaxExtensionMonths {
		return ErrInvalidMonths
	}
	if t.FeePerMonth < 0 || t.FeePerMonth > MaxExtensionFeePerMonth {
		return ErrInvalidFee
	}
	if t.Discount < 0 {
		return ErrInvalidDiscount
	}
	if t.Discount > int64(t.Months)*t.FeePerMonth {
		return ErrDiscountTooLarge
	}
	return nil
}

type ExtensionQuote struct {
	Months                 int
	FeePerMonth            int64
	TotalFee               int64
	Discount               int64
	NetFee                 int64
	OriginalMaturityDate   time.Time
	OriginalGracePeriodEnd time.Time
	NewMaturityDate        time.Time
	NewGracePeriodEnd      time.Time
}

// QuoteExtension computes the new dates and fee totals for extending a loan
// whose current maturity and grace period end are given.
func QuoteExtension(maturityDate, gracePeriodEnd time.Time, terms ExtensionTerms) (ExtensionQuote, error) {
	if err := terms.Validate(); err != nil {
		return ExtensionQuote{}, err
	}

	newMaturity := AddCalendarMonths(maturityDate, terms.Months)
	total := int64(terms.Months) * terms.FeePerMonth

	return ExtensionQuote{
		Months:                 terms.Months,
		FeePerMonth:            terms.FeePerMonth,
		TotalFee:               total,
		Discount:               terms.Discount,
		NetFee:                 total - terms.Discount,
		OriginalMaturityDate:   maturityDate,
		OriginalGracePeriodEnd: gracePeriodEnd,
		NewMaturityDate:        newMaturity,
		NewGracePeriodEnd:      GracePeriodEnd(newMaturity),
	}, nil
}

// ExtendsPast reports whether the extension moves maturity beyond evalDate,
// i.e. the customer is fully current afterwards.
func (q ExtensionQuote) ExtendsPast(evalDate time.Time) bool {
	return AfterDay(q.NewMaturityDate, evalDate)
}

func (q ExtensionQuote) Verify() error {
	if q.TotalFee != int64(q.Months)*q.FeePerMonth {
		return fmt.Errorf("%w: total fee %d != %d months x %d", ErrInvariant, q.TotalFee, q.Months, q.FeePerMonth)
	}
	if q.NetFee != q.TotalFee-q.Discount || q.NetFee < 0 {
		return fmt.Errorf("%w: net fee %d for total %d and discount %d", ErrInvariant, q.NetFee, q.TotalFee, q.Discount)
	}
	if !q.NewGracePeriodEnd.Equal(GracePeriodEnd(q.NewMaturityDate)) {
		return fmt.Errorf("%w: grace period end %s is not one month after maturity %s",
			ErrInvariant, q.NewGracePeriodEnd.Format(time.DateOnly), q.NewMaturityDate.Format(time.DateOnly))
	}
	if !AfterDay(q.NewMaturityDate, q.OriginalMaturityDate) {
		return fmt.Errorf("%w: new maturity %s not after %s",
			ErrInvariant, q.NewMaturityDate.Format(time.DateOnly), q.OriginalMaturityDate.Format(time.DateOnly))
	}
	return nil
}
