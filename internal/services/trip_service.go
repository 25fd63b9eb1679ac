package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"itinerary-api/internal/models"
	"itinerary-api/internal/repositories"
)

// tripService implements the TripService interface
type tripService struct {
	tripRepo  repositories.TripRepository
	validator *validator.Validate
	logger    *logrus.Logger
}

// NewTripService creates a new trip service instance
func NewTripService(tripRepo repositories.TripRepository, logger *logrus.Logger) TripService {
	if logger == nil {
		logger = logrus.New()
	}
	return &tripService{
		tripRepo:  tripRepo,
		validator: newValidator(),
		logger:    logger,
	}
}

// ListTrips returns the user's trips, newest first
func (s *tripService) ListTrips(ctx context.Context, userID string) ([]*models.Trip, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, &ValidationError{Field: "userId", Message: "Missing userId"}
	}

	trips, err := s.tripRepo.ListTrips(ctx, userID)
	if err != nil {
		return nil, err
	}
	if trips == nil {
		trips = []*models.Trip{}
	}

	s.logger.WithFields(logrus.Fields{
		"user_id": userID,
		"count":   len(trips),
	}).Debug("Trips listed")

	return trips, nil
}

// CreateTrip saves a new trip. Repeated identical requests create separate records.
func (s *tripService) CreateTrip(ctx context.Context, req *CreateTripRequest) (*models.Trip, error) {
	if req == nil {
		return nil, fmt.Errorf("create trip request cannot be nil")
	}

	if err := s.validator.Struct(req); err != nil {
		return nil, toValidationError(err)
	}

	input := models.NewTripInput(string(req.UserID), req.Destination, req.StartDate, req.EndDate, req.Itinerary)
	if err := input.Validate(); err != nil {
		return nil, &ValidationError{Field: "itinerary", Message: err.Error()}
	}

	trip, err := s.tripRepo.InsertTrip(ctx, input)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"user_id": string(req.UserID),
		"trip_id": trip.ID,
	}).Info("Trip created")

	return trip, nil
}
