package approval

import "errors"

const (
	StatusOK           = 200
	StatusUnauthorized = 401
	StatusForbidden    = 403
)

const (
	ErrCodeInvalidPIN   = "INVALID_PIN"
	ErrCodeNotPermitted = "NOT_PERMITTED"
	ErrCodeTimeout      = "TIMEOUT"
	ErrCodeServerError  = "SERVER_ERROR"
	ErrCodeDisabled     = "APPROVAL_DISABLED"
)

var (
	ErrInvalidPIN   = errors.New(ErrCodeInvalidPIN)
	ErrNotPermitted = errors.New(ErrCodeNotPermitted)
	ErrTimeout      = errors.New(ErrCodeTimeout)
	ErrServerError  = errors.New(ErrCodeServerError)
	ErrDisabled     = errors.New(ErrCodeDisabled)
)

var statusErrorMap = map[int]error{
	StatusUnauthorized: ErrInvalidPIN,
	StatusForbidden:    ErrNotPermitted,
}

func MapStatusToError(statusCode int) error {
	if err, exists := statusErrorMap[statusCode]; exists {
		return err
	}

	return ErrServerError
}

// Retryable reports whether a failed call may succeed when repeated.
func Retryable(err error) bool {
	return errors.Is(err, ErrTimeout) || errors.Is(err, ErrServerError)
}
