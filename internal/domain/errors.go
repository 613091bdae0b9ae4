// Package domain holds the quote entity and the errors the service reports
// in business terms. Adapters decide how an error looks on the wire.
package domain

import (
	"errors"
	"fmt"
)

// Error categories. Each error type below unwraps to exactly one of them,
// so callers branch with errors.Is and read details with errors.As.
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrValidation  = errors.New("validation failed")
	ErrUnavailable = errors.New("unavailable")
)

// NotFoundError reports a missing entity. A non-empty Message replaces the
// generated text and is what clients see.
type NotFoundError struct {
	Entity  string
	ID      string
	Message string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.ID == "":
		return e.Entity + " not found"
	default:
		return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
	}
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// NewNotFoundError reports that no entity of the given kind has id.
func NewNotFoundError(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// ConflictError reports a write that clashes with stored state.
type ConflictError struct {
	Entity string
	Reason string
}

// Error implements the error interface.
func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflicting %s: %s", e.Entity, e.Reason)
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *ConflictError) Unwrap() error { return ErrConflict }

// NewConflictError creates a new conflict error.
func NewConflictError(entity, reason string) error {
	return &ConflictError{Entity: entity, Reason: reason}
}

// ValidationError reports a broken business rule. Field is empty when the
// rule covers the whole entity, and then Message is the full text.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}

	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a new validation error.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// UnavailableError reports a dependency that cannot serve requests right now.
type UnavailableError struct {
	Service string
	Reason  string
}

// Error implements the error interface.
func (e *UnavailableError) Error() string {
	msg := e.Service + " is unavailable"
	if e.Reason != "" {
		msg += ": " + e.Reason
	}

	return msg
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *UnavailableError) Unwrap() error { return ErrUnavailable }

// NewUnavailableError creates a new unavailable error.
func NewUnavailableError(service, reason string) error {
	return &UnavailableError{Service: service, Reason: reason}
}

// IsNotFound checks if an error is a not found error.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsConflict checks if an error is a conflict error.
func IsConflict(err error) bool { return errors.Is(err, ErrConflict) }

// IsValidation checks if an error is a validation error.
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }

// IsUnavailable checks if an error is an unavailable error.
func IsUnavailable(err error) bool { return errors.Is(err, ErrUnavailable) }
