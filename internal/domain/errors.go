package domain

import (
	"errors"
	"fmt"
)

// ErrForbidden marks operations the acting role may not perform. Callers
// wrap it with context so the HTTP layer can map it to 403.
var ErrForbidden = errors.New("forbidden")

// ValidationError reports a rejected input field.
type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// StateConflictError reports an operation attempted against an entity whose
// current state does not allow it.
type StateConflictError struct {
	Entity  string
	Message string
}

func NewStateConflictError(entity, message string) *StateConflictError {
	return &StateConflictError{Entity: entity, Message: message}
}

func (e *StateConflictError) Error() string {
	return fmt.Sprintf("%s: %s", e.Entity, e.Message)
}

// NotFoundError reports a missing entity by identifier.
type NotFoundError struct {
	Entity string
	ID     int64
}

func NewNotFoundError(entity string, id int64) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// IntegrityError reports an accounting inconsistency that must never happen
// under normal operation, such as payments exceeding the loan amount.
type IntegrityError struct {
	Message string
}

func NewIntegrityError(format string, args ...any) *IntegrityError {
	return &IntegrityError{Message: fmt.Sprintf(format, args...)}
}

func (e *IntegrityError) Error() string {
	return "integrity violation: " + e.Message
}
