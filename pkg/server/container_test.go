package server

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"itinerary-api/internal/config"
	"itinerary-api/internal/services"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Environment: "test",
		Generation: config.GenerationConfig{
			Mode:      config.GenerationModeMock,
			ModelName: "mock-model",
		},
		Store: config.StoreConfig{
			Type:       config.StoreTypeSQLite,
			SQLitePath: filepath.Join(t.TempDir(), "trips.db"),
		},
		Log: config.LogConfig{Level: "error"},
	}
}

func TestNewContainer(t *testing.T) {
	container, err := NewContainer(testConfig(t), ComponentAll)
	require.NoError(t, err)
	defer container.Close()

	assert.NotNil(t, container.GenerationClient)
	assert.NotNil(t, container.ItineraryService)
	assert.NotNil(t, container.TripRepository)
	assert.NotNil(t, container.TripService)
	assert.Nil(t, container.AuthService)
	assert.NoError(t, container.HealthCheck(context.Background()))

	trip, err := container.TripService.CreateTrip(context.Background(), &services.CreateTripRequest{
		UserID:    "u1",
		Itinerary: json.RawMessage(`{"days":[]}`),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, trip.ID)
}

func TestNewContainerGenerationOnly(t *testing.T) {
	cfg := testConfig(t)
	cfg.Store = config.StoreConfig{Type: config.StoreTypeSupabase}

	container, err := NewContainer(cfg, ComponentGeneration)
	require.NoError(t, err)
	defer container.Close()

	assert.NotNil(t, container.ItineraryService)
	assert.Nil(t, container.TripService)
}

func TestNewContainerMissingStoreConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Store = config.StoreConfig{Type: config.StoreTypeSupabase}

	_, err := NewContainer(cfg, ComponentTrips)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SUPABASE_URL")
}

func TestNewContainerSupabase(t *testing.T) {
	cfg := testConfig(t)
	cfg.Store = config.StoreConfig{
		Type: config.StoreTypeSupabase,
		URL:  "https://example.supabase.co",
		Key:  "service-key",
	}

	container, err := NewContainer(cfg, ComponentTrips)
	require.NoError(t, err)
	defer container.Close()

	assert.NotNil(t, container.TripService)
}

func TestNewContainerUnsupportedMode(t *testing.T) {
	cfg := testConfig(t)
	cfg.Generation.Mode = "offline"

	_, err := NewContainer(cfg, ComponentGeneration)
	assert.Error(t, err)
}

func TestNewContainerSignedIdentity(t *testing.T) {
	cfg := testConfig(t)
	cfg.Identity.TokenSecret = "secret"

	container, err := NewContainer(cfg, ComponentGeneration)
	require.NoError(t, err)
	defer container.Close()

	require.NotNil(t, container.AuthService)
	token, _, err := container.AuthService.GenerateToken("u1")
	require.NoError(t, err)
	claims, err := container.AuthService.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.Subject)
}
