package ledger

import (
	"fmt"
	"time"

	"github.com/Behyna/pawn-services/internal/model"
)

// transitions lists every status change staff may request directly.
var transitions = map[model.Status][]model.Status{
	model.StatusActive:    {model.StatusOverdue, model.StatusExtended, model.StatusForfeited, model.StatusHold},
	model.StatusOverdue:   {model.StatusExtended, model.StatusForfeited, model.StatusHold},
	model.StatusExtended:  {model.StatusOverdue, model.StatusForfeited, model.StatusHold},
	model.StatusHold:      {model.StatusActive, model.StatusOverdue, model.StatusExtended, model.StatusDamaged},
	model.StatusDamaged:   {model.StatusForfeited, model.StatusSold},
	model.StatusForfeited: {model.StatusSold},
}

func CanTransition(from, to model.Status) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func ValidateTransition(from, to model.Status) error {
	if !to.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, to)
	}
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: cannot change status from %s to %s", ErrInvalidTransition, from, to)
	}
	return nil
}

func AllowedTransitions(from model.Status) []model.Status {
	allowed := transitions[from]
	out := make([]model.Status, len(allowed))
	copy(out, allowed)
	return out
}

// IsOpen reports whether the loan can still take payments.
func IsOpen(s model.Status) bool {
	switch s {
	case model.StatusActive, model.StatusOverdue, model.StatusExtended:
		return true
	default:
		return false
	}
}

func CanExtend(s model.Status) bool {
	switch s {
	case model.StatusActive, model.StatusOverdue, model.StatusExtended, model.StatusHold:
		return true
	default:
		return false
	}
}

func CanVoid(s model.Status) bool {
	switch s {
	case model.StatusActive, model.StatusOverdue, model.StatusExtended, model.StatusHold:
		return true
	default:
		return false
	}
}

func CanCancel(s model.Status) bool {
	return s == model.StatusActive
}

// AutoOverdue applies the date-driven rule: ACTIVE or EXTENDED loans whose
// evaluation date is past maturity become OVERDUE. It is the only automatic
// transition.
func AutoOverdue(s model.Status, maturityDate, evalDate time.Time) (model.Status, bool) {
	if (s == model.StatusActive || s == model.StatusExtended) && AfterDay(evalDate, maturityDate) {
		return model.StatusOverdue, true
	}
	return s, false
}

// StatusAfterExtension is EXTENDED when the extension brings maturity past
// the evaluation date; otherwise the status is unchanged.
func StatusAfterExtension(s model.Status, q ExtensionQuote, evalDate time.Time) model.Status {
	if q.ExtendsPast(evalDate) {
		return model.StatusExtended
	}
	return s
}

// ReopenedStatus is the status of a loan that is open again after its
// redeeming payment was voided.
func ReopenedStatus(maturityDate, evalDate time.Time) model.Status {
	if AfterDay(evalDate, maturityDate) {
		return model.StatusOverdue
	}
	return model.StatusActive
}

// RevertedStatus re-derives status after an extension is cancelled. HOLD is
// kept; otherwise the reverted maturity decides, with EXTENDED kept when
// other extensions are still in force.
func RevertedStatus(s model.Status, maturityDate, evalDate time.Time, otherExtensions bool) model.Status {
	switch s {
	case model.StatusActive, model.StatusOverdue, model.StatusExtended:
	default:
		return s
	}

	if AfterDay(evalDate, maturityDate) {
		return model.StatusOverdue
	}
	if otherExtensions {
		return model.StatusExtended
	}
	return model.StatusActive
}
