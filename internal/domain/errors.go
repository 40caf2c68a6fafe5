package domain

import (
	"fmt"
)

// ErrClientNotFound is returned when a referenced client does not exist
type ErrClientNotFound struct {
	Message string
}

func (e *ErrClientNotFound) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "client not found"
}

// ErrContractNotFound is returned when a referenced contract does not exist
type ErrContractNotFound struct {
	Message string
}

func (e *ErrContractNotFound) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "contract not found"
}

// ErrEmailExists is returned when a client email collides with an existing
// one, either at the pre-check or at the unique constraint on insert
type ErrEmailExists struct {
	Email string
}

func (e *ErrEmailExists) Error() string {
	return "email already exists"
}

// ValidationError represents an error that occurs due to invalid input or parameters
type ValidationError struct {
	Message string
}

// Error implements the error interface
func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s", e.Message)
}

// NewValidationError creates a new validation error with the given message
func NewValidationError(message string) error {
	return ValidationError{
		Message: message,
	}
}

// ErrConstraintViolation is returned when a store-level check or foreign key
// constraint rejects a statement that passed application-level validation
type ErrConstraintViolation struct {
	Constraint string
	Message    string
}

func (e *ErrConstraintViolation) Error() string {
	if e.Constraint != "" {
		return fmt.Sprintf("constraint violation (%s): %s", e.Constraint, e.Message)
	}
	return fmt.Sprintf("constraint violation: %s", e.Message)
}
