package ledger_test

import (
	"testing"

	"github.com/Behyna/pawn-services/internal/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuoteExtension(t *testing.T) {
	t.Run("two months at 25", func(t *testing.T) {
		maturity := date(2024, 4, 15)

		q, err := ledger.QuoteExtension(maturity, ledger.GracePeriodEnd(maturity), ledger.ExtensionTerms{Months: 2, FeePerMonth: 25})

		require.NoError(t, err)
		assert.Equal(t, int64(50), q.TotalFee)
		assert.Equal(t, int64(50), q.NetFee)
		assert.Equal(t, date(2024, 6, 15), q.NewMaturityDate)
		assert.Equal(t, date(2024, 7, 15), q.NewGracePeriodEnd)
		assert.Equal(t, maturity, q.OriginalMaturityDate)
		assert.Equal(t, date(2024, 5, 15), q.OriginalGracePeriodEnd)
		assert.NoError(t, q.Verify())
	})

	t.Run("clamps end of month in leap year", func(t *testing.T) {
		maturity := date(2024, 1, 31)

		q, err := ledger.QuoteExtension(maturity, ledger.GracePeriodEnd(maturity), ledger.ExtensionTerms{Months: 1, FeePerMonth: 10})

		require.NoError(t, err)
		assert.Equal(t, date(2024, 2, 29), q.NewMaturityDate)
		assert.Equal(t, date(2024, 3, 29), q.NewGracePeriodEnd)
	})

	t.Run("clamps end of month in common year", func(t *testing.T) {
		maturity := date(2023, 1, 31)

		q, err := ledger.QuoteExtension(maturity, ledger.GracePeriodEnd(maturity), ledger.ExtensionTerms{Months: 1, FeePerMonth: 10})

		require.NoError(t, err)
		assert.Equal(t, date(2023, 2, 28), q.NewMaturityDate)
	})

	t.Run("discount reduces net fee", func(t *testing.T) {
		maturity := date(2024, 4, 15)

		q, err := ledger.QuoteExtension(maturity, ledger.GracePeriodEnd(maturity), ledger.ExtensionTerms{Months: 3, FeePerMonth: 100, Discount: 40})

		require.NoError(t, err)
		assert.Equal(t, int64(300), q.TotalFee)
		assert.Equal(t, int64(260), q.NetFee)
		assert.NoError(t, q.Verify())
	})
}

func TestQuoteExtension_Validation(t *testing.T) {
	maturity := date(2024, 4, 15)
	grace := ledger.GracePeriodEnd(maturity)

	testCases := []struct {
		name     string
		terms    ledger.ExtensionTerms
		expected error
	}{
		{name: "zero months", terms: ledger.ExtensionTerms{Months: 0, FeePerMonth: 10}, expected: ledger.ErrInvalidMonths},
		{name: "four months", terms: ledger.ExtensionTerms{Months: 4, FeePerMonth: 10}, expected: ledger.ErrInvalidMonths},
		{name: "negative fee", terms: ledger.ExtensionTerms{Months: 1, FeePerMonth: -1}, expected: ledger.ErrInvalidFee},
		{name: "fee above cap", terms: ledger.ExtensionTerms{Months: 1, FeePerMonth: 1001}, expected: ledger.ErrInvalidFee},
		{name: "negative discount", terms: ledger.ExtensionTerms{Months: 1, FeePerMonth: 10, Discount: -1}, expected: ledger.ErrInvalidDiscount},
		{name: "discount above total", terms: ledger.ExtensionTerms{Months: 1, FeePerMonth: 10, Discount: 11}, expected: ledger.ErrDiscountTooLarge},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ledger.QuoteExtension(maturity, grace, tc.terms)
			assert.ErrorIs(t, err, tc.expected)
		})
	}
}

func TestQuoteExtension_TotalFeeProperty(t *testing.T) {
	maturity := date(2024, 8, 31)

	for months := ledger.MinExtensionMonths; months <= ledger.MaxExtensionMonths; months++ {
		for fee := int64(0); fee <= ledger.MaxExtensionFeePerMonth; fee += 37 {
			q, err := ledger.QuoteExtension(maturity, ledger.GracePeriodEnd(maturity), ledger.ExtensionTerms{Months: months, FeePerMonth: fee})

			require.NoError(t, err)
			assert.Equal(t, int64(months)*fee, q.TotalFee)
			assert.NoError(t, q.Verify())
		}
	}
}

func TestExtensionQuote_Verify(t *testing.T) {
	maturity := date(2024, 4, 15)
	q, err := ledger.QuoteExtension(maturity, ledger.GracePeriodEnd(maturity), ledger.ExtensionTerms{Months: 2, FeePerMonth: 25})
	require.NoError(t, err)

	broken := q
	broken.TotalFee = 45
	assert.ErrorIs(t, broken.Verify(), ledger.ErrInvariant)

	broken = q
	broken.NewGracePeriodEnd = date(2024, 7, 16)
	assert.ErrorIs(t, broken.Verify(), ledger.ErrInvariant)

	broken = q
	broken.NetFee = 60
	assert.ErrorIs(t, broken.Verify(), ledger.ErrInvariant)
}

func TestExtensionQuote_ExtendsPast(t *testing.T) {
	maturity := date(2024, 1, 15)
	q, err := ledger.QuoteExtension(maturity, ledger.GracePeriodEnd(maturity), ledger.ExtensionTerms{Months: 1, FeePerMonth: 25})
	require.NoError(t, err)

	assert.True(t, q.ExtendsPast(date(2024, 2, 14)))
	assert.False(t, q.ExtendsPast(date(2024, 2, 15)), "maturity on the evaluation day is not strictly after it")
	assert.False(t, q.ExtendsPast(date(2024, 3, 1)))
}
