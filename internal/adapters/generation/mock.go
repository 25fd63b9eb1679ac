package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"itinerary-api/internal/models"
)

// MockCall records one invocation of MockClient.Generate
type MockCall struct {
	Prompt string
	Opts   GenerateOptions
}

// MockClient is an in-memory TextGenerationClient for local development and tests.
// With no canned Text it produces a deterministic itinerary for the prompt.
type MockClient struct {
	mu    sync.Mutex
	model string
	calls []MockCall

	// Text, when set, is returned verbatim instead of the generated itinerary
	Text string
	// Err, when set, is returned by every Generate call
	Err error
	// CredentialErr, when set, is returned by CheckCredential
	CredentialErr error
}

// NewMockClient creates a new mock generation client
func NewMockClient(model string) *MockClient {
	if model == "" {
		model = "mock-model"
	}
	return &MockClient{model: model}
}

var _ TextGenerationClient = (*MockClient)(nil)

// CheckCredential implements TextGenerationClient.CheckCredential
func (m *MockClient) CheckCredential() error {
	return m.CredentialErr
}

// ModelName implements TextGenerationClient.ModelName
func (m *MockClient) ModelName() string {
	return m.model
}

// Generate implements TextGenerationClient.Generate
func (m *MockClient) Generate(ctx context.Context, prompt string, opts GenerateOptions) (*models.GenerationResult, error) {
	m.mu.Lock()
	m.calls = append(m.calls, MockCall{Prompt: prompt, Opts: opts})
	m.mu.Unlock()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if m.Err != nil {
		return nil, m.Err
	}

	model := opts.Model
	if model == "" {
		model = m.model
	}

	text := m.Text
	if text == "" {
		var err error
		text, err = m.generateMockResponse(prompt, opts.Format)
		if err != nil {
			return nil, err
		}
	}

	return &models.GenerationResult{
		Text:         text,
		Model:        model,
		FinishReason: "STOP",
		Usage: &models.TokenUsage{
			PromptTokens:     len(prompt) / 4,
			CandidatesTokens: len(text) / 4,
			TotalTokens:      len(prompt)/4 + len(text)/4,
		},
	}, nil
}

// Calls returns the recorded invocations
func (m *MockClient) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MockCall, len(m.calls))
	copy(out, m.calls)
	return out
}

func (m *MockClient) generateMockResponse(prompt string, format models.ResponseFormat) (string, error) {
	summary := strings.TrimSpace(prompt)
	if runes := []rune(summary); len(runes) > 80 {
		summary = string(runes[:80])
	}

	if format != models.ResponseFormatJSON {
		return fmt.Sprintf("Day 1: Arrive and explore.\nDay 2: Local highlights.\n(mock itinerary for: %s)", summary), nil
	}

	plan := models.ItineraryPlan{
		Destination: "Mock Destination",
		Summary:     summary,
		Days: []models.ItineraryDay{
			{Day: 1, Title: "Arrival", Activities: []models.Activity{{Time: "09:00", Description: "Arrive and check in"}}},
			{Day: 2, Title: "Highlights", Activities: []models.Activity{{Time: "10:00", Description: "Walking tour"}}},
		},
	}
	data, err := json.Marshal(plan)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
