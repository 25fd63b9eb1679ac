package repositories

import (
	"context"

	"itinerary-api/internal/models"
)

// TripRepository defines the operations for persisted trips
type TripRepository interface {
	// ListTrips returns every trip owned by userID, newest first.
	// A user with no trips yields an empty, non-nil slice.
	ListTrips(ctx context.Context, userID string) ([]*models.Trip, error)

	// InsertTrip writes a single row and returns it as stored,
	// including the store-assigned id and created_at.
	InsertTrip(ctx context.Context, input *models.TripInput) (*models.Trip, error)
}

// HealthChecker is implemented by stores that can report readiness
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
