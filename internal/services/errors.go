package services

import (
	"errors"
	"fmt"
)

// ValidationError is returned when a request is missing or has an invalid field.
// Message is safe to return to callers.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ParseError is returned when generated output cannot be parsed as requested
type ParseError struct {
	Stage string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse generated output as JSON: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// IsValidationError reports whether err is a request validation failure
func IsValidationError(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// AsParseError extracts a ParseError from an error chain
func AsParseError(err error) (*ParseError, bool) {
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return parseErr, true
	}
	return nil, false
}
