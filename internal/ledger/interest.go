package ledger

import "time"

const (
	MinInterestMonths = 1
	MaxInterestMonths = 3
)

// MonthsElapsed counts the interest months between the pawn date and the
// evaluation date. A month is added on top of the calendar-month difference
// only once the pawn day of month has been passed. The result is kept within
// [MinInterestMonths, MaxInterestMonths]; the grace period accrues nothing.
func MonthsElapsed(pawnDate, evalDate time.Time) int {
	py, pm, pd := pawnDate.Date()
	ey, em, ed := evalDate.Date()

	months := (ey-py)*12 + int(em-pm)
	if ed > pd {
		months++
	}

	if months < MinInterestMonths {
		return MinInterestMonths
	}
	if months > MaxInterestMonths {
		return MaxInterestMonths
	}
	return months
}

func InterestDue(monthlyInterest int64, pawnDate, evalDate time.Time) int64 {
	return monthlyInterest * int64(MonthsElapsed(pawnDate, evalDate))
}
