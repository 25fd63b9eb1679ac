package models

// ResponseFormat selects how generated output is shaped
type ResponseFormat string

const (
	ResponseFormatText ResponseFormat = "text"
	ResponseFormatJSON ResponseFormat = "json"
)

// GenerationRequest is the body accepted by the itinerary endpoint
type GenerationRequest struct {
	Prompt         string         `json:"prompt" validate:"required"`
	ResponseFormat ResponseFormat `json:"responseFormat,omitempty" validate:"omitempty,oneof=text json"`
}

// Format returns the requested response format, defaulting to free text
func (r *GenerationRequest) Format() ResponseFormat {
	if r.ResponseFormat == "" {
		return ResponseFormatText
	}
	return r.ResponseFormat
}

// TokenUsage reports token accounting returned by the generation backend
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CandidatesTokens int `json:"candidates_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// GenerationResult is the normalized output of one generation call
type GenerationResult struct {
	Text         string
	Model        string
	FinishReason string
	Usage        *TokenUsage
}

// ItineraryPlan is the structure requested when JSON output is asked for
type ItineraryPlan struct {
	Destination string         `json:"destination"`
	Summary     string         `json:"summary"`
	Days        []ItineraryDay `json:"days"`
	Tips        []string       `json:"tips,omitempty"`
}

// ItineraryDay is one day of a structured itinerary
type ItineraryDay struct {
	Day        int        `json:"day"`
	Title      string     `json:"title"`
	Activities []Activity `json:"activities"`
}

// Activity is a single scheduled stop
type Activity struct {
	Time        string `json:"time"`
	Description string `json:"description"`
	Location    string `json:"location,omitempty"`
}

// ItineraryResponseSchema is the OpenAPI-subset schema sent with JSON requests.
// It mirrors ItineraryPlan.
func ItineraryResponseSchema() map[string]interface{} {
	str := map[string]interface{}{"type": "STRING"}
	return map[string]interface{}{
		"type": "OBJECT",
		"properties": map[string]interface{}{
			"destination": str,
			"summary":     str,
			"days": map[string]interface{}{
				"type": "ARRAY",
				"items": map[string]interface{}{
					"type": "OBJECT",
					"properties": map[string]interface{}{
						"day":   map[string]interface{}{"type": "INTEGER"},
						"title": str,
						"activities": map[string]interface{}{
							"type": "ARRAY",
							"items": map[string]interface{}{
								"type": "OBJECT",
								"properties": map[string]interface{}{
									"time":        str,
									"description": str,
									"location":    str,
								},
								"required": []string{"time", "description"},
							},
						},
					},
					"required": []string{"day", "title", "activities"},
				},
			},
			"tips": map[string]interface{}{
				"type":  "ARRAY",
				"items": str,
			},
		},
		"required": []string{"destination", "days"},
	}
}
