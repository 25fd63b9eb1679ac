package generation

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"itinerary-api/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactoryCreate(t *testing.T) {
	factory := NewFactory(quietLogger())

	tests := []struct {
		name     string
		config   *Config
		wantType interface{}
		wantErr  bool
	}{
		{"default mode is live", &Config{Model: "gemini-1.5-pro"}, &GeminiClient{}, false},
		{"live", &Config{Mode: "live", APIKey: "k", Model: "gemini-1.5-pro"}, &GeminiClient{}, false},
		{"mock is case-insensitive", &Config{Mode: "MOCK"}, &MockClient{}, false},
		{"unknown mode", &Config{Mode: "openai"}, nil, true},
		{"nil config", nil, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := factory.Create(tt.config)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.wantType, client)
		})
	}
}

func TestMockClientGenerate(t *testing.T) {
	client := NewMockClient("")
	assert.NoError(t, client.CheckCredential())
	assert.Equal(t, "mock-model", client.ModelName())

	result, err := client.Generate(context.Background(), "Lisbon in spring", GenerateOptions{})
	require.NoError(t, err)
	assert.Contains(t, result.Text, "Lisbon in spring")
	assert.Equal(t, "mock-model", result.Model)

	result, err = client.Generate(context.Background(), "Lisbon in spring", GenerateOptions{Format: models.ResponseFormatJSON, Model: "m2"})
	require.NoError(t, err)
	assert.Equal(t, "m2", result.Model)

	var plan models.ItineraryPlan
	require.NoError(t, json.Unmarshal([]byte(result.Text), &plan))
	assert.Len(t, plan.Days, 2)

	calls := client.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, models.ResponseFormatJSON, calls[1].Opts.Format)
}

func TestMockClientCannedResponses(t *testing.T) {
	client := NewMockClient("m")
	client.Text = "canned"

	result, err := client.Generate(context.Background(), "x", GenerateOptions{})
	require.NoError(t, err)
	assert.Equal(t, "canned", result.Text)

	client.Err = errors.New("quota exceeded")
	_, err = client.Generate(context.Background(), "x", GenerateOptions{})
	assert.EqualError(t, err, "quota exceeded")
}

func TestMockClientTruncatesByCharacter(t *testing.T) {
	client := NewMockClient("")
	prompt := strings.Repeat("京", 100)

	for _, format := range []models.ResponseFormat{models.ResponseFormatText, models.ResponseFormatJSON} {
		result, err := client.Generate(context.Background(), prompt, GenerateOptions{Format: format})
		require.NoError(t, err)
		assert.True(t, utf8.ValidString(result.Text), format)
		assert.Contains(t, result.Text, strings.Repeat("京", 80))
		assert.NotContains(t, result.Text, strings.Repeat("京", 81))
	}
}
