package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"itinerary-api/internal/adapters/generation"
	"itinerary-api/internal/models"
)

const jsonInstruction = `Respond only with a JSON object describing the travel itinerary. ` +
	`Use the fields "destination", "summary", "days" (each with "day", "title" and "activities") and "tips". ` +
	`Do not wrap the JSON in markdown.`

// itineraryService implements the ItineraryService interface
type itineraryService struct {
	client    generation.TextGenerationClient
	validator *validator.Validate
	logger    *logrus.Logger
}

// NewItineraryService creates a new itinerary service instance
func NewItineraryService(client generation.TextGenerationClient, logger *logrus.Logger) ItineraryService {
	if logger == nil {
		logger = logrus.New()
	}
	return &itineraryService{
		client:    client,
		validator: newValidator(),
		logger:    logger,
	}
}

// CheckReady returns the client's credential error, if any
func (s *itineraryService) CheckReady() error {
	return s.client.CheckCredential()
}

// Generate produces an itinerary for the request prompt
func (s *itineraryService) Generate(ctx context.Context, req *models.GenerationRequest) (*ItineraryResult, error) {
	if req == nil {
		return nil, &ValidationError{Field: "prompt", Message: "Missing prompt"}
	}

	if err := s.CheckReady(); err != nil {
		return nil, err
	}

	req.Prompt = strings.TrimSpace(req.Prompt)
	if err := s.validator.Struct(req); err != nil {
		return nil, toValidationError(err)
	}

	format := req.Format()
	prompt := req.Prompt
	opts := generation.GenerateOptions{Format: format}
	if format == models.ResponseFormatJSON {
		prompt = composeJSONPrompt(prompt)
		opts.ResponseSchema = models.ItineraryResponseSchema()
	}

	result, err := s.client.Generate(ctx, prompt, opts)
	if err != nil {
		return nil, err
	}

	fields := logrus.Fields{
		"model":         result.Model,
		"format":        format,
		"finish_reason": result.FinishReason,
	}
	if result.Usage != nil {
		fields["prompt_tokens"] = result.Usage.PromptTokens
		fields["candidates_tokens"] = result.Usage.CandidatesTokens
		fields["total_tokens"] = result.Usage.TotalTokens
	}
	s.logger.WithFields(fields).Info("Itinerary generated")

	out := &ItineraryResult{
		Format:       format,
		Text:         result.Text,
		Model:        result.Model,
		FinishReason: result.FinishReason,
		Usage:        result.Usage,
	}

	if format == models.ResponseFormatJSON {
		var data map[string]interface{}
		if err := json.Unmarshal([]byte(strings.TrimSpace(result.Text)), &data); err != nil {
			return nil, &ParseError{Stage: "parse", Err: err}
		}
		if data == nil {
			return nil, &ParseError{Stage: "parse", Err: fmt.Errorf("expected a JSON object, got %q", result.Text)}
		}
		out.Data = data
	}

	return out, nil
}

func composeJSONPrompt(prompt string) string {
	return jsonInstruction + "\n\nRequest: " + prompt
}
