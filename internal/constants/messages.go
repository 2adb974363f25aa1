package constants

const (
	MessageErrorFormat = "field %s is invalid"

	TransactionCreated   = "pawn transaction created"
	TransactionRetrieved = "pawn transaction retrieved"
	BalanceRetrieved     = "balance calculated"
	PayoffRetrieved      = "payoff amount calculated"
	PaymentProcessed     = "payment processed"
	PaymentsRetrieved    = "payments retrieved"
	PaymentVoided        = "payment voided"
	ExtensionProcessed   = "extension processed"
	ExtensionsRetrieved  = "extensions retrieved"
	ExtensionCancelled   = "extension cancelled"
	StatusUpdated        = "status updated"
	OverdueFeeUpdated    = "overdue fee updated"
	TransactionVoided    = "pawn transaction voided"
	TransactionCanceled  = "pawn transaction canceled"
)

const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)
