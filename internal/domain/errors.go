package domain

import "errors"

// Sentinel errors shared across use cases
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrProjectNotFound   = errors.New("project not found")
	ErrFlowNotFound      = errors.New("flow not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// Validation reason codes surfaced by the flow controllers.
// Validation failures are structured rejections, not session-fatal errors.
const (
	ReasonAmountNotPositive  = "amount_not_positive"
	ReasonBelowMinimum       = "below_minimum_investment"
	ReasonInsufficientFunds  = "insufficient_funds"
	ReasonMissingDestination = "missing_destination_account"
	ReasonCodeTooShort       = "verification_code_too_short"
	ReasonWrongStep          = "wrong_step"
	ReasonProjectNotActive   = "project_not_active"
)

// ValidationError is a structured rejection produced in a flow's input or
// verification step. It never reaches the ledger.
type ValidationError struct {
	Reason  string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a ValidationError with the given reason code
func NewValidationError(reason, message string) *ValidationError {
	return &ValidationError{Reason: reason, Message: message}
}

// IsValidation reports whether err is a ValidationError and returns it if so
func IsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
