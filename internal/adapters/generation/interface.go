// Package generation provides text generation clients backed by the Gemini API.
package generation

import (
	"context"

	"itinerary-api/internal/models"
)

// GenerateOptions controls a single generation call
type GenerateOptions struct {
	// Model overrides the client's default model when set
	Model string
	// Format selects free text or schema-constrained JSON output
	Format models.ResponseFormat
	// ResponseSchema constrains JSON output; ignored for text
	ResponseSchema map[string]interface{}
}

// TextGenerationClient generates text for a prompt.
// Implementations return the first candidate's text and never guess at
// alternative response shapes.
type TextGenerationClient interface {
	// CheckCredential reports a configuration error when the client cannot
	// authenticate with its backend
	CheckCredential() error

	// Generate sends prompt to the backend and returns the generated text
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (*models.GenerationResult, error)

	// ModelName returns the default model used when opts.Model is empty
	ModelName() string
}
