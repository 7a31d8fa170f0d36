package entity

// Payment status values used by the billing backend
const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusOverdue = "overdue"
)

// Payment type values
const (
	PaymentTypeCash    = "Cash"
	PaymentTypeBanking = "e-banking"

	DefaultPaymentType = PaymentTypeBanking
)

// Operation is the boundary call a submission dispatches
type Operation string

const (
	OperationCreate Operation = "create"
	OperationUpdate Operation = "update"
)

// Success status literals. The backend contract is literal-specific: any
// other status, 2xx included, is not a success.
const (
	CreateSuccessStatus = 201
	UpdateSuccessStatus = 200
)

// SuccessStatus returns the only status code accepted as success for the operation
func (o Operation) SuccessStatus() int {
	if o == OperationUpdate {
		return UpdateSuccessStatus
	}
	return CreateSuccessStatus
}

// String returns the string representation of the operation
func (o Operation) String() string {
	return string(o)
}

// Notification levels
const (
	NotificationSuccess = "success"
	NotificationError   = "error"
	NotificationInfo    = "info"
)
