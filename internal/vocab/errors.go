package vocab

import (
	"errors"
	"fmt"
)

// Sentinel errors used across packages.
var (
	ErrNotFound            = errors.New("not found")
	ErrValidation          = errors.New("validation error")
	ErrInvalidFilterValue  = errors.New("invalid filter value")
	ErrCyclicCategoryGraph = errors.New("cyclic category graph")
)

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// InvalidValue wraps ErrInvalidFilterValue with the offending field and value.
func InvalidValue(field, value string) error {
	return fmt.Errorf("%w: %s %q", ErrInvalidFilterValue, field, value)
}
