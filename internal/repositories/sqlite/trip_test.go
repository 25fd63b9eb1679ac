package sqlite

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"itinerary-api/internal/database"
	"itinerary-api/internal/models"
	"itinerary-api/internal/repositories"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)

	cfg := database.DefaultConnectionConfig()
	cfg.DatabasePath = filepath.Join(t.TempDir(), "test.db")
	cfg.Logger = logger

	cm := database.NewConnectionManager(cfg)
	if err := cm.Connect(); err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	t.Cleanup(func() { cm.Close() })

	return cm.GetDB()
}

func newTestRepository(t *testing.T) *TripRepository {
	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	return NewTripRepository(setupTestDB(t), logger)
}

func TestTripRepository_InsertTrip(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	input := models.NewTripInput("u1", "Kyoto", "2025-04-01", "", json.RawMessage(`{"days":[{"day":1}]}`))
	trip, err := repo.InsertTrip(ctx, input)
	if err != nil {
		t.Fatalf("InsertTrip() failed: %v", err)
	}

	if trip.ID == "" {
		t.Error("Expected generated id")
	}
	if trip.CreatedAt.IsZero() {
		t.Error("Expected created_at to be set")
	}
	if trip.EndDate != nil {
		t.Errorf("Expected nil end date, got %q", *trip.EndDate)
	}

	trips, err := repo.ListTrips(ctx, "u1")
	if err != nil {
		t.Fatalf("ListTrips() failed: %v", err)
	}
	if len(trips) != 1 {
		t.Fatalf("Expected 1 trip, got %d", len(trips))
	}
	if trips[0].ID != trip.ID {
		t.Errorf("Expected id %s, got %s", trip.ID, trips[0].ID)
	}
	if string(trips[0].Itinerary) != `{"days":[{"day":1}]}` {
		t.Errorf("Itinerary not preserved: %s", trips[0].Itinerary)
	}
	if trips[0].Destination == nil || *trips[0].Destination != "Kyoto" {
		t.Errorf("Destination not preserved: %v", trips[0].Destination)
	}
}

func TestTripRepository_ListTripsOrderAndIsolation(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	for i, dest := range []string{"first", "second", "third"} {
		at := base.Add(time.Duration(i) * time.Hour)
		repo.now = func() time.Time { return at }
		if _, err := repo.InsertTrip(ctx, models.NewTripInput("u1", dest, "", "", json.RawMessage(`{}`))); err != nil {
			t.Fatalf("InsertTrip() failed: %v", err)
		}
	}
	if _, err := repo.InsertTrip(ctx, models.NewTripInput("u2", "other", "", "", json.RawMessage(`{}`))); err != nil {
		t.Fatalf("InsertTrip() failed: %v", err)
	}

	trips, err := repo.ListTrips(ctx, "u1")
	if err != nil {
		t.Fatalf("ListTrips() failed: %v", err)
	}
	if len(trips) != 3 {
		t.Fatalf("Expected 3 trips, got %d", len(trips))
	}

	expected := []string{"third", "second", "first"}
	for i, trip := range trips {
		if trip.UserID != "u1" {
			t.Errorf("Trip %d belongs to %s", i, trip.UserID)
		}
		if *trip.Destination != expected[i] {
			t.Errorf("Position %d: expected %s, got %s", i, expected[i], *trip.Destination)
		}
	}
}

func TestTripRepository_ListTripsEmpty(t *testing.T) {
	repo := newTestRepository(t)

	trips, err := repo.ListTrips(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("ListTrips() failed: %v", err)
	}
	if trips == nil {
		t.Error("Expected empty slice, got nil")
	}
	if len(trips) != 0 {
		t.Errorf("Expected no trips, got %d", len(trips))
	}
}

func TestTripRepository_DuplicateInsertsCreateDistinctRows(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	input := models.NewTripInput("u1", "Lisbon", "", "", json.RawMessage(`"Day 1"`))
	first, err := repo.InsertTrip(ctx, input)
	if err != nil {
		t.Fatalf("InsertTrip() failed: %v", err)
	}
	second, err := repo.InsertTrip(ctx, input)
	if err != nil {
		t.Fatalf("InsertTrip() failed: %v", err)
	}
	if first.ID == second.ID {
		t.Error("Expected distinct ids for repeated inserts")
	}

	trips, _ := repo.ListTrips(ctx, "u1")
	if len(trips) != 2 {
		t.Errorf("Expected 2 trips, got %d", len(trips))
	}
}

func TestTripRepository_InsertTripValidation(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.InsertTrip(context.Background(), models.NewTripInput("u1", "", "", "", json.RawMessage(`null`)))
	if err == nil {
		t.Fatal("Expected validation error")
	}
	if !repositories.IsValidation(err) {
		t.Errorf("Expected validation error, got %v", err)
	}
}
