package services

import (
	"context"
	"encoding/json"

	"itinerary-api/internal/models"
)

// ItineraryService defines the interface for itinerary generation
type ItineraryService interface {
	// CheckReady reports a configuration error before any request body is read
	CheckReady() error

	// Generate validates the request and returns generated text or parsed JSON
	Generate(ctx context.Context, req *models.GenerationRequest) (*ItineraryResult, error)
}

// TripService defines the interface for trip record operations
type TripService interface {
	ListTrips(ctx context.Context, userID string) ([]*models.Trip, error)
	CreateTrip(ctx context.Context, req *CreateTripRequest) (*models.Trip, error)
}

// ItineraryResult is the outcome of one generation request
type ItineraryResult struct {
	Format       models.ResponseFormat
	Text         string
	Data         map[string]interface{}
	Model        string
	FinishReason string
	Usage        *models.TokenUsage
}

// CreateTripRequest is the external (camelCase) body accepted when saving a trip.
// userId may arrive as a JSON string or number.
type CreateTripRequest struct {
	UserID      models.RecordID `json:"userId" swaggertype:"string" validate:"nonblank"`
	Destination string          `json:"destination,omitempty"`
	StartDate   string          `json:"startDate,omitempty"`
	EndDate     string          `json:"endDate,omitempty"`
	Itinerary   json.RawMessage `json:"itinerary" swaggertype:"object" validate:"jsonvalue"`
}
