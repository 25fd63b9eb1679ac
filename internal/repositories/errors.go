package repositories

import (
	"errors"
	"fmt"
)

// Common repository errors
var (
	// ErrValidation is returned when a row fails validation before it is written
	ErrValidation = errors.New("validation error")

	// ErrConnection is returned when the store cannot be reached
	ErrConnection = errors.New("store connection error")

	// ErrTimeout is returned when a store call exceeds its deadline
	ErrTimeout = errors.New("operation timeout")

	// ErrEmptyResult is returned when an insert reports success but no row comes back
	ErrEmptyResult = errors.New("store returned no row")
)

// RepositoryError represents a repository-specific error with additional context
type RepositoryError struct {
	Op      string // Operation that failed
	Entity  string // Entity type
	ID      string // Entity or owner ID (if applicable)
	Err     error  // Underlying error
	Message string // Human-readable message
}

// Error implements the error interface
func (e *RepositoryError) Error() string {
	if e.Message != "" {
		return e.Message
	}

	if e.ID != "" {
		return fmt.Sprintf("%s %s operation failed for ID %s: %v", e.Entity, e.Op, e.ID, e.Err)
	}

	return fmt.Sprintf("%s %s operation failed: %v", e.Entity, e.Op, e.Err)
}

// Unwrap returns the underlying error
func (e *RepositoryError) Unwrap() error {
	return e.Err
}

// NewRepositoryError creates a new repository error
func NewRepositoryError(op, entity, id string, err error) *RepositoryError {
	return &RepositoryError{
		Op:     op,
		Entity: entity,
		ID:     id,
		Err:    err,
	}
}

// ValidationError creates a "validation" repository error
func ValidationError(entity, id string, err error) *RepositoryError {
	return &RepositoryError{
		Op:      "validate",
		Entity:  entity,
		ID:      id,
		Err:     ErrValidation,
		Message: fmt.Sprintf("validation failed for %s: %v", entity, err),
	}
}

// ConnectionError creates a "connection" repository error
func ConnectionError(entity string, err error) *RepositoryError {
	return &RepositoryError{
		Op:      "connect",
		Entity:  entity,
		Err:     fmt.Errorf("%w: %v", ErrConnection, err),
		Message: fmt.Sprintf("%s store unreachable: %v", entity, err),
	}
}

// StoreError is an error reported by the store itself rather than the transport.
// Message is surfaced verbatim to API callers.
type StoreError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *StoreError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Code != "" {
		return fmt.Sprintf("store error %s", e.Code)
	}
	return "store error"
}

// IsValidation checks if an error is a "validation" error
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsConnection checks if an error is a "connection" error
func IsConnection(err error) bool {
	return errors.Is(err, ErrConnection)
}

// AsStoreError extracts a StoreError from an error chain
func AsStoreError(err error) (*StoreError, bool) {
	var storeErr *StoreError
	if errors.As(err, &storeErr) {
		return storeErr, true
	}
	return nil, false
}

// Message returns the text a caller should see for a repository failure.
// Store-reported errors keep the store's own message.
func Message(err error) string {
	if storeErr, ok := AsStoreError(err); ok {
		return storeErr.Error()
	}
	return err.Error()
}
