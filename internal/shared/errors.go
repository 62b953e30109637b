package shared

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrNoMerchant occurs when an operation requires a configured merchant profile.
	ErrNoMerchant = errors.New("no merchant profile configured")
	// ErrEmptyCart occurs when a checkout is attempted with no cart lines.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrInvalidQuantity indicates a zero or negative quantity.
	ErrInvalidQuantity = errors.New("quantity must be positive")
	// ErrInsufficientStock indicates the requested quantity exceeds available stock.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrMissingField indicates a required field was left empty.
	ErrMissingField = errors.New("missing required field")
	// ErrInvalidPrice indicates a negative unit price.
	ErrInvalidPrice = errors.New("price must not be negative")
	// ErrClientUnresolved occurs when a sale references a client that cannot be found.
	ErrClientUnresolved = errors.New("client could not be resolved")
	// ErrInvalidBackup indicates a backup document missing required collections.
	ErrInvalidBackup = errors.New("invalid backup format")
)

// ValidationError wraps a sentinel business-rule error with human-readable details.
type ValidationError struct {
	Err     error
	Details string
}

func (e *ValidationError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError builds a ValidationError around a sentinel.
func NewValidationError(sentinel error, format string, args ...any) *ValidationError {
	return &ValidationError{Err: sentinel, Details: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a user-input failure suitable for a 4xx response.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
