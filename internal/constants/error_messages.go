package constants

const (
	ErrCodeValidationFailed       = "VALIDATION_FAILED"
	ErrCodeInvalidRequestBody     = "INVALID_REQUEST_BODY"
	ErrCodeTransactionNotFound    = "TRANSACTION_NOT_FOUND"
	ErrCodePaymentNotFound        = "PAYMENT_NOT_FOUND"
	ErrCodeExtensionNotFound      = "EXTENSION_NOT_FOUND"
	ErrCodeInvalidState           = "INVALID_STATE"
	ErrCodeApprovalRequired       = "APPROVAL_REQUIRED"
	ErrCodeUnauthorized           = "UNAUTHORIZED"
	ErrCodeForbidden              = "FORBIDDEN"
	ErrCodeConcurrentModification = "CONCURRENT_MODIFICATION"
	ErrCodeInvariantViolation     = "INVARIANT_VIOLATION"
	ErrCodeApprovalUnavailable    = "APPROVAL_SERVICE_UNAVAILABLE"
	ErrCodeDatabase               = "DATABASE_ERROR"
	ErrCodeRateLimited            = "RATE_LIMITED"
	ErrCodeRouteNotFound          = "ROUTE_NOT_FOUND"
	ErrCodeInternalError          = "INTERNAL_ERROR"
)

const (
	ErrMsgValidationFailed       = "request validation failed"
	ErrMsgInvalidRequestBody     = "failed to parse request body"
	ErrMsgTransactionNotFound    = "pawn transaction not found"
	ErrMsgPaymentNotFound        = "payment not found"
	ErrMsgExtensionNotFound      = "extension not found"
	ErrMsgInvalidState           = "operation not allowed in the transaction's current state"
	ErrMsgApprovalRequired       = "elevated approval required"
	ErrMsgUnauthorized           = "missing or invalid staff credentials"
	ErrMsgForbidden              = "staff role not permitted"
	ErrMsgConcurrentModification = "transaction was modified concurrently, retry"
	ErrMsgInvariantViolation     = "ledger consistency check failed"
	ErrMsgApprovalUnavailable    = "approval service unavailable"
	ErrMsgDatabase               = "database error"
	ErrMsgRateLimited            = "too many requests"
	ErrMsgRouteNotFound          = "route not found"
	ErrMsgInternalError          = "Internal server error"
)

var errorMessages = map[string]string{
	ErrCodeValidationFailed:       ErrMsgValidationFailed,
	ErrCodeInvalidRequestBody:     ErrMsgInvalidRequestBody,
	ErrCodeTransactionNotFound:    ErrMsgTransactionNotFound,
	ErrCodePaymentNotFound:        ErrMsgPaymentNotFound,
	ErrCodeExtensionNotFound:      ErrMsgExtensionNotFound,
	ErrCodeInvalidState:           ErrMsgInvalidState,
	ErrCodeApprovalRequired:       ErrMsgApprovalRequired,
	ErrCodeUnauthorized:           ErrMsgUnauthorized,
	ErrCodeForbidden:              ErrMsgForbidden,
	ErrCodeConcurrentModification: ErrMsgConcurrentModification,
	ErrCodeInvariantViolation:     ErrMsgInvariantViolation,
	ErrCodeApprovalUnavailable:    ErrMsgApprovalUnavailable,
	ErrCodeDatabase:               ErrMsgDatabase,
	ErrCodeRateLimited:            ErrMsgRateLimited,
	ErrCodeRouteNotFound:          ErrMsgRouteNotFound,
	ErrCodeInternalError:          ErrMsgInternalError,
}

func GetErrorMessage(code string) string {
	if msg, exists := errorMessages[code]; exists {
		return msg
	}
	return ErrMsgInternalError
}

func GetHTTPStatus(code string) int {
	switch code {
	case ErrCodeValidationFailed, ErrCodeInvalidRequestBody:
		return 400
	case ErrCodeUnauthorized:
		return 401
	case ErrCodeApprovalRequired, ErrCodeForbidden:
		return 403
	case ErrCodeTransactionNotFound, ErrCodePaymentNotFound, ErrCodeExtensionNotFound:
		return 404
	case ErrCodeRouteNotFound:
		return 404
	case ErrCodeRateLimited:
		return 429
	case ErrCodeInvalidState, ErrCodeConcurrentModification:
		return 409
	case ErrCodeApprovalUnavailable:
		return 503
	case ErrCodeInvariantViolation, ErrCodeDatabase, ErrCodeInternalError:
		return 500
	default:
		return 500
	}
}
