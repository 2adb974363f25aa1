package ledger

import "fmt"

// Dues are the amounts owed on a loan before anything is paid.
type Dues struct {
	Interest   int64
	OverdueFee int64
	Principal  int64
}

func (d Dues) Total() int64 {
	return d.Interest + d.OverdueFee + d.Principal
}

// Outstanding holds what is still owed per component plus any unapplied
// credit. Credit is only non-zero when every component is fully paid.
type Outstanding struct {
	Interest   int64
	OverdueFee int64
	Principal  int64
	Credit     int64
}

// Balance is the ledger balance; negative means the customer is in credit.
func (o Outstanding) Balance() int64 {
	return o.Interest + o.OverdueFee + o.Principal - o.Credit
}

type Allocation struct {
	Payment           int64
	Discount          int64
	InterestPortion   int64
	OverdueFeePortion int64
	PrincipalPortion  int64
	BalanceBefore     int64
	BalanceAfter      int64
}

func (a Allocation) Credited() int64 {
	return a.Payment + a.Discount
}

func (a Allocation) Allocated() int64 {
	return a.InterestPortion + a.OverdueFeePortion + a.PrincipalPortion
}

func ValidatePayment(payment, discount int64) error {
	if payment <= 0 {
		return ErrInvalidAmount
	}
	if discount < 0 {
		return ErrInvalidDiscount
	}
	return nil
}

// Allocate splits payment plus discount across interest, then overdue fee,
// then principal. Anything left over is not dropped: it shows up as a
// negative BalanceAfter.
func Allocate(o Outstanding, payment, discount int64) Allocation {
	credited := payment + discount

	interest := min(credited, max(o.Interest, 0))
	remaining := credited - interest
	overdue := min(remaining, max(o.OverdueFee, 0))
	remaining -= overdue
	principal := min(remaining, max(o.Principal, 0))

	before := o.Balance()
	return Allocation{
		Payment:           payment,
		Discount:          discount,
		InterestPortion:   interest,
		OverdueFeePortion: overdue,
		PrincipalPortion:  principal,
		BalanceBefore:     before,
		BalanceAfter:      before - credited,
	}
}

// Settle applies the total credited value against the dues in allocation
// order and returns what was covered and what is left.
func Settle(d Dues, credited int64) (Dues, Outstanding) {
	a := Allocate(Outstanding{Interest: d.Interest, OverdueFee: d.OverdueFee, Principal: d.Principal}, credited, 0)

	paid := Dues{
		Interest:   a.InterestPortion,
		OverdueFee: a.OverdueFeePortion,
		Principal:  a.PrincipalPortion,
	}
	remaining := Outstanding{
		Interest:   d.Interest - paid.Interest,
		OverdueFee: d.OverdueFee - paid.OverdueFee,
		Principal:  d.Principal - paid.Principal,
		Credit:     credited - a.Allocated(),
	}
	return paid, remaining
}

// Verify checks the allocation against the payment invariants. A failure is
// a programming error and the allocation must not be persisted.
func (a Allocation) Verify() error {
	credited := a.Credited()
	if a.BalanceBefore-credited != a.BalanceAfter {
		return fmt.Errorf("%w: balance %d - credited %d != %d", ErrInvariant, a.BalanceBefore, credited, a.BalanceAfter)
	}

	if a.InterestPortion < 0 || a.OverdueFeePortion < 0 || a.PrincipalPortion < 0 {
		return fmt.Errorf("%w: negative portion (interest %d, overdue fee %d, principal %d)",
			ErrInvariant, a.InterestPortion, a.OverdueFeePortion, a.PrincipalPortion)
	}

	allocated := a.Allocated()
	if allocated > credited {
		return fmt.Errorf("%w: allocated %d exceeds credited %d", ErrInvariant, allocated, credited)
	}

	if a.BalanceAfter >= 0 && allocated != credited {
		return fmt.Errorf("%w: allocated %d != credited %d", ErrInvariant, allocated, credited)
	}

	return nil
}

// DisplayBalance clamps a ledger balance at zero.
func DisplayBalance(balance int64) int64 {
	return max(balance, 0)
}
