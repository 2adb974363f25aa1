package service

import (
	"errors"
	"fmt"

	"github.com/Behyna/pawn-services/internal/constants"
	"github.com/Behyna/pawn-services/internal/ledger"
	"github.com/Behyna/pawn-services/internal/repository"
)

var (
	ErrTransactionNotFound = errors.New("pawn transaction not found")
	ErrPaymentNotFound     = errors.New("payment not found")
	ErrExtensionNotFound   = errors.New("extension not found")
	ErrApprovalDenied      = errors.New("elevated approval PIN rejected")
	ErrApprovalMissing     = errors.New("elevated approval PIN required")
	ErrApprovalUnavailable = errors.New("approval service unavailable")
	ErrConcurrentUpdate    = errors.New("transaction was modified concurrently")
	ErrDatabase            = errors.New("database error")
)

type Error struct {
	Code  string
	Cause error
}

func NewServiceError(code string, cause error) error {
	return Error{Code: code, Cause: cause}
}

func (e Error) Error() string {
	return e.Cause.Error()
}

func (e Error) Unwrap() error {
	return e.Cause
}

func validationError(format string, args ...any) error {
	return NewServiceError(constants.ErrCodeValidationFailed, fmt.Errorf(format, args...))
}

func stateError(format string, args ...any) error {
	return NewServiceError(constants.ErrCodeInvalidState, fmt.Errorf(format, args...))
}

// ledgerError maps a rule violation from the ledger package to the matching
// service error.
func ledgerError(err error) error {
	switch {
	case errors.Is(err, ledger.ErrInvariant):
		return NewServiceError(constants.ErrCodeInvariantViolation, err)
	case errors.Is(err, ledger.ErrInvalidTransition):
		return NewServiceError(constants.ErrCodeInvalidState, err)
	default:
		return NewServiceError(constants.ErrCodeValidationFailed, err)
	}
}

func storageError(err error) error {
	var serviceErr Error
	if errors.As(err, &serviceErr) {
		return err
	}

	switch {
	case errors.Is(err, repository.ErrTransactionNotFound):
		return NewServiceError(constants.ErrCodeTransactionNotFound, ErrTransactionNotFound)
	case errors.Is(err, repository.ErrPaymentNotFound):
		return NewServiceError(constants.ErrCodePaymentNotFound, ErrPaymentNotFound)
	case errors.Is(err, repository.ErrExtensionNotFound):
		return NewServiceError(constants.ErrCodeExtensionNotFound, ErrExtensionNotFound)
	case errors.Is(err, repository.ErrVersionConflict):
		return NewServiceError(constants.ErrCodeConcurrentModification, ErrConcurrentUpdate)
	default:
		return NewServiceError(constants.ErrCodeDatabase, fmt.Errorf("%w: %w", ErrDatabase, err))
	}
}

// HasCode reports whether err is a service error carrying code.
func HasCode(err error, code string) bool {
	var serviceErr Error
	return errors.As(err, &serviceErr) && serviceErr.Code == code
}
