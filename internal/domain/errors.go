package domain

import "github.com/pkg/errors"

var (
	ErrCustomerNotFound = errors.New("customer not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrOrderNotFound    = errors.New("order not found")
	ErrEmailTaken       = errors.New("email is already registered")

	ErrInvalidStatus     = errors.New("invalid order status")
	ErrIllegalTransition = errors.New("order status transition not allowed")
)

// ErrStaleStatus means the order changed status between read and write.
var ErrStaleStatus = errors.New("order status changed concurrently")

// ValidationError reports a missing or malformed field.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Msg
}

// Invalid builds a *ValidationError for field.
func Invalid(field, msg string) error {
	return &ValidationError{Field: field, Msg: msg}
}

// Required reports a missing field.
func Required(field string) error {
	return Invalid(field, "is required")
}

// IsValidation reports whether err carries a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
