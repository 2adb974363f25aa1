package ledger_test

import (
	"testing"
	"time"

	"github.com/Behyna/pawn-services/internal/ledger"
	"github.com/stretchr/testify/assert"
)

func TestMonthsElapsed(t *testing.T) {
	pawnDate := date(2024, 1, 15)

	testCases := []struct {
		name     string
		evalDate time.Time
		expected int
	}{
		{name: "same day counts one month", evalDate: date(2024, 1, 15), expected: 1},
		{name: "evaluation before pawn date floors to one", evalDate: date(2023, 12, 1), expected: 1},
		{name: "anniversary day not passed", evalDate: date(2024, 2, 15), expected: 1},
		{name: "anniversary day passed", evalDate: date(2024, 2, 16), expected: 2},
		{name: "month and five days", evalDate: date(2024, 2, 20), expected: 2},
		{name: "earlier day of later month", evalDate: date(2024, 3, 10), expected: 2},
		{name: "three months", evalDate: date(2024, 3, 20), expected: 3},
		{name: "grace period capped", evalDate: date(2024, 5, 1), expected: 3},
		{name: "years later capped", evalDate: date(2026, 7, 1), expected: 3},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ledger.MonthsElapsed(pawnDate, tc.evalDate))
		})
	}
}

func TestMonthsElapsed_AlwaysWithinBounds(t *testing.T) {
	pawnDates := []time.Time{date(2024, 1, 31), date(2024, 2, 29), date(2023, 12, 1), date(2024, 6, 15)}

	for _, pawnDate := range pawnDates {
		for offset := -40; offset <= 200; offset++ {
			evalDate := pawnDate.AddDate(0, 0, offset)
			months := ledger.MonthsElapsed(pawnDate, evalDate)

			py, pm, pd := pawnDate.Date()
			ey, em, ed := evalDate.Date()
			raw := (ey-py)*12 + int(em-pm)
			if ed > pd {
				raw++
			}
			expected := min(max(raw, 1), 3)

			assert.GreaterOrEqual(t, months, ledger.MinInterestMonths)
			assert.LessOrEqual(t, months, ledger.MaxInterestMonths)
			assert.Equal(t, expected, months, "pawn %s eval %s", pawnDate.Format(time.DateOnly), evalDate.Format(time.DateOnly))
		}
	}
}

func TestInterestDue(t *testing.T) {
	assert.Equal(t, int64(100), ledger.InterestDue(50, date(2024, 1, 15), date(2024, 2, 20)))
	assert.Equal(t, int64(150), ledger.InterestDue(50, date(2024, 1, 15), date(2024, 9, 20)))
	assert.Equal(t, int64(0), ledger.InterestDue(0, date(2024, 1, 15), date(2024, 2, 20)))
}
