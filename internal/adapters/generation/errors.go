package generation

import (
	"errors"
	"fmt"
)

// Common generation error types
var (
	ErrMissingCredential = errors.New("missing GEMINI_API_KEY credential")
	ErrNoCandidates      = errors.New("generation returned no candidates")
	ErrEmptyPrompt       = errors.New("prompt is empty")
	ErrTimeout           = errors.New("generation timeout")
)

// APIError is an error envelope returned by the Gemini API
type APIError struct {
	StatusCode int    `json:"-"`
	Code       int    `json:"code"`
	Message    string `json:"message"`
	Status     string `json:"status"`
}

func (e *APIError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("Gemini API error [%d]: %s (status: %s)", e.StatusCode, e.Message, e.Status)
	}
	return fmt.Sprintf("Gemini API error [%d]: %s", e.StatusCode, e.Message)
}

// GenerationError represents a failed generation call with additional context
type GenerationError struct {
	Op    string // Operation that failed (e.g., "request", "decode")
	Model string // Model the call targeted
	Err   error  // Underlying error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation %s failed for model %s: %v", e.Op, e.Model, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// NewGenerationError creates a new GenerationError
func NewGenerationError(op, model string, err error) *GenerationError {
	return &GenerationError{
		Op:    op,
		Model: model,
		Err:   err,
	}
}

// IsMissingCredential returns true if the error indicates the API key is not configured
func IsMissingCredential(err error) bool {
	return errors.Is(err, ErrMissingCredential)
}

// AsAPIError extracts an APIError from an error chain
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
