package config

import "fmt"

// ValidationError reports a configuration value that cannot be used.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s' (value: %v): %s", e.Field, e.Value, e.Message)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) error {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// WrapError wraps an existing error with a message.
func WrapError(err error, message string) error {
	return fmt.Errorf("%s: %w", message, err)
}
