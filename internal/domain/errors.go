package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrValidation    = errors.New("validation error")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrConflict      = errors.New("conflict")

	// ErrRateLimited marks an upstream refusal due to request rate or load.
	ErrRateLimited = errors.New("rate limited")
)

// FieldError is one rejected input field.
type FieldError struct {
	Field   string
	Message string
}

func (f FieldError) String() string { return f.Field + ": " + f.Message }

// ValidationError groups the field errors of a single input.
// It matches ErrValidation under errors.Is.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	switch len(e.Errors) {
	case 0:
		return "validation: invalid input"
	case 1:
		return "validation: " + e.Errors[0].String()
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Detail joins every field error, for logs.
func (e *ValidationError) Detail() string {
	parts := make([]string, len(e.Errors))
	for i, f := range e.Errors {
		parts[i] = f.String()
	}
	return strings.Join(parts, "; ")
}

// NewValidationError rejects a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Errors: []FieldError{{Field: field, Message: message}}}
}

// NewValidationErrors wraps already collected field errors.
func NewValidationErrors(errs []FieldError) *ValidationError {
	return &ValidationError{Errors: errs}
}

// Checks collects field errors while an input is being validated.
// The zero value is ready to use.
type Checks struct {
	errs []FieldError
}

// Add records a failure for field.
func (c *Checks) Add(field, message string) {
	c.errs = append(c.errs, FieldError{Field: field, Message: message})
}

// Require records message for field when ok is false. It returns ok.
func (c *Checks) Require(ok bool, field, message string) bool {
	if !ok {
		c.Add(field, message)
	}
	return ok
}

// Err returns nil when every check passed.
func (c *Checks) Err() error {
	if len(c.errs) == 0 {
		return nil
	}
	return &ValidationError{Errors: c.errs}
}
