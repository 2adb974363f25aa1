package ledger

import "time"

const (
	LoanTermMonths    = 3
	GracePeriodMonths = 1
)

// Date returns t's calendar day, read in t's own location, as midnight UTC.
// Stored dates use this form so the driver never shifts them across a day.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// StartOfDay is midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// AddCalendarMonths moves t forward by months calendar months. When the
// target month is shorter than t's day of month the result is clamped to the
// target month's last day, so Jan 31 + 1 month is Feb 28 (29 in leap years).
func AddCalendarMonths(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	if last := daysIn(first.Year(), first.Month()); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, t.Location())
}

func MaturityDate(pawnDate time.Time) time.Time {
	return AddCalendarMonths(pawnDate, LoanTermMonths)
}

func GracePeriodEnd(maturityDate time.Time) time.Time {
	return AddCalendarMonths(maturityDate, GracePeriodMonths)
}

// AfterDay reports whether a falls on a later calendar day than b. Only the
// year, month and day fields are compared.
func AfterDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	if ay != by {
		return ay > by
	}
	if am != bm {
		return am > bm
	}
	return ad > bd
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
