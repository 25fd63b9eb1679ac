package generation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"itinerary-api/internal/models"

	"github.com/sirupsen/logrus"
	"google.golang.org/genai"
)

const (
	// DefaultBaseURL is the public Gemini REST endpoint
	DefaultBaseURL = "https://generativelanguage.googleapis.com"

	apiVersion = "v1beta"
)

// GeminiClient generates text through the Gemini API
type GeminiClient struct {
	client *genai.Client
	apiKey string
	model  string
	logger *logrus.Logger
}

// NewGeminiClient creates a new Gemini client.
// A missing API key is not an error here; Generate reports it per call.
func NewGeminiClient(baseURL, apiKey, model string, timeout time.Duration, logger *logrus.Logger) (*GeminiClient, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = logrus.New()
	}

	c := &GeminiClient{
		apiKey: strings.TrimSpace(apiKey),
		model:  model,
		logger: logger,
	}
	if c.apiKey == "" {
		return c, nil
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:     c.apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: timeout},
		HTTPOptions: genai.HTTPOptions{
			BaseURL:    strings.TrimSuffix(baseURL, "/") + "/",
			APIVersion: apiVersion,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	c.client = client

	return c, nil
}

var _ TextGenerationClient = (*GeminiClient)(nil)

// CheckCredential returns ErrMissingCredential when no API key is configured
func (c *GeminiClient) CheckCredential() error {
	if c.apiKey == "" || c.client == nil {
		return ErrMissingCredential
	}
	return nil
}

// ModelName returns the default model
func (c *GeminiClient) ModelName() string {
	return c.model
}

// Generate sends a single-turn generateContent request
func (c *GeminiClient) Generate(ctx context.Context, prompt string, opts GenerateOptions) (*models.GenerationResult, error) {
	if err := c.CheckCredential(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(prompt) == "" {
		return nil, ErrEmptyPrompt
	}

	model := opts.Model
	if model == "" {
		model = c.model
	}

	var config *genai.GenerateContentConfig
	if opts.Format == models.ResponseFormatJSON {
		schema, err := toSchema(opts.ResponseSchema)
		if err != nil {
			return nil, NewGenerationError("encode", model, err)
		}
		config = &genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   schema,
		}
	}

	start := time.Now()
	resp, err := c.client.Models.GenerateContent(ctx, model, genai.Text(prompt), config)
	if err != nil {
		c.logger.WithFields(logrus.Fields{
			"model":    model,
			"duration": time.Since(start),
			"error":    err.Error(),
		}).Error("Generation request failed")
		return nil, c.mapError(ctx, model, err)
	}

	if len(resp.Candidates) == 0 {
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			return nil, fmt.Errorf("%w: prompt blocked (%s)", ErrNoCandidates, resp.PromptFeedback.BlockReason)
		}
		return nil, ErrNoCandidates
	}

	candidate := resp.Candidates[0]
	var text strings.Builder
	if candidate.Content != nil {
		for _, part := range candidate.Content.Parts {
			if part != nil {
				text.WriteString(part.Text)
			}
		}
	}

	generated := &models.GenerationResult{
		Text:         text.String(),
		Model:        model,
		FinishReason: string(candidate.FinishReason),
	}
	if resp.UsageMetadata != nil {
		generated.Usage = &models.TokenUsage{
			PromptTokens:     int(resp.UsageMetadata.PromptTokenCount),
			CandidatesTokens: int(resp.UsageMetadata.CandidatesTokenCount),
			TotalTokens:      int(resp.UsageMetadata.TotalTokenCount),
		}
	}

	c.logger.WithFields(logrus.Fields{
		"model":         model,
		"finish_reason": generated.FinishReason,
		"duration":      time.Since(start),
	}).Debug("Generation completed")

	return generated, nil
}

// mapError converts SDK failures into the package's error types
func (c *GeminiClient) mapError(ctx context.Context, model string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return NewGenerationError("request", model, fmt.Errorf("%w: %v", ErrTimeout, err))
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &APIError{
			StatusCode: apiErr.Code,
			Code:       apiErr.Code,
			Message:    strings.TrimSpace(apiErr.Message),
			Status:     apiErr.Status,
		}
	}

	return NewGenerationError("request", model, fmt.Errorf("failed to send request: %w", err))
}

// toSchema converts a JSON-shaped response schema into the SDK's schema type
func toSchema(schema map[string]interface{}) (*genai.Schema, error) {
	if len(schema) == 0 {
		return nil, nil
	}

	raw, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response schema: %w", err)
	}

	var out genai.Schema
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("invalid response schema: %w", err)
	}
	return &out, nil
}
