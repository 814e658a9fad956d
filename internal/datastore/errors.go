package datastore

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a product, user or subscription does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when a unique name or Discord ID is taken.
	ErrAlreadyExists = errors.New("already exists")
)

// ValidationError represents invalid input to a store operation.
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

// Error represents a general error in the datastore library.
type Error struct {
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// WrapError wraps an existing error with a message.
func WrapError(err error, message string) error {
	return &Error{Message: message, Err: err}
}
