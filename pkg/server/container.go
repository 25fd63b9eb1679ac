package server

import (
	"context"
	"fmt"

	"itinerary-api/internal/adapters/generation"
	"itinerary-api/internal/config"
	"itinerary-api/internal/database"
	"itinerary-api/internal/middleware"
	"itinerary-api/internal/repositories"
	"itinerary-api/internal/repositories/sqlite"
	"itinerary-api/internal/repositories/supabase"
	"itinerary-api/internal/services"

	"github.com/sirupsen/logrus"
)

// Component selects which parts of the container are built
type Component int

const (
	ComponentGeneration Component = 1 << iota
	ComponentTrips
	ComponentAll = ComponentGeneration | ComponentTrips
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	Logger *logrus.Logger

	GenerationClient generation.TextGenerationClient
	TripRepository   repositories.TripRepository
	ItineraryService services.ItineraryService
	TripService      services.TripService
	AuthService      *middleware.AuthService

	// Internal dependencies
	db     *database.ConnectionManager
	health []repositories.HealthChecker
}

// NewContainer creates a new dependency injection container.
// A trip store that is not fully configured is a startup error.
func NewContainer(cfg *config.Config, components Component) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	logger := config.NewLogger(cfg.Log)
	container := &Container{
		Config: cfg,
		Logger: logger,
	}

	if components&ComponentGeneration != 0 {
		if err := container.initGeneration(); err != nil {
			return nil, err
		}
	}

	if components&ComponentTrips != 0 {
		if err := container.initTrips(); err != nil {
			container.Close()
			return nil, err
		}
	}

	if cfg.Identity.TokenSecret != "" {
		container.AuthService = middleware.NewAuthService(&middleware.AuthConfig{
			JWTSecret:     cfg.Identity.TokenSecret,
			TokenDuration: cfg.Identity.TokenDuration,
		})
	}

	return container, nil
}

func (c *Container) initGeneration() error {
	if err := c.Config.Generation.Validate(); err != nil {
		return fmt.Errorf("invalid generation config: %w", err)
	}
	if c.Config.Generation.Mode == config.GenerationModeLive && !c.Config.Generation.HasCredential() {
		c.Logger.Warn("GEMINI_API_KEY is not set; generation requests will fail")
	}

	client, err := generation.NewFactory(c.Logger).Create(&generation.Config{
		Mode:    c.Config.Generation.Mode,
		APIKey:  c.Config.Generation.APIKey,
		Model:   c.Config.Generation.ModelName,
		BaseURL: c.Config.Generation.BaseURL,
		Timeout: c.Config.Generation.Timeout,
	})
	if err != nil {
		return fmt.Errorf("failed to create generation client: %w", err)
	}

	c.GenerationClient = client
	c.ItineraryService = services.NewItineraryService(client, c.Logger)
	return nil
}

func (c *Container) initTrips() error {
	store := &c.Config.Store
	if err := store.Validate(); err != nil {
		return fmt.Errorf("invalid trip store config: %w", err)
	}

	switch store.Type {
	case config.StoreTypeSupabase:
		repo, err := supabase.NewTripRepository(supabase.Options{
			URL:     store.URL,
			Key:     store.Key,
			Timeout: store.Timeout,
		}, c.Logger)
		if err != nil {
			return fmt.Errorf("failed to create supabase trip store: %w", err)
		}
		c.TripRepository = repo
		c.health = append(c.health, repo)
	case config.StoreTypeSQLite:
		cm := database.NewConnectionManager(store.ToConnectionConfig(c.Logger))
		if err := cm.Connect(); err != nil {
			return fmt.Errorf("failed to open sqlite trip store: %w", err)
		}
		c.db = cm
		c.TripRepository = sqlite.NewTripRepository(cm.GetDB(), c.Logger)
		c.health = append(c.health, cm)
	}

	c.TripService = services.NewTripService(c.TripRepository, c.Logger)
	c.Logger.WithField("store", store.Type).Info("Trip store initialized")
	return nil
}

// HealthCheck checks every backing store the container owns
func (c *Container) HealthCheck(ctx context.Context) error {
	for _, h := range c.health {
		if err := h.HealthCheck(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Close cleans up all resources
func (c *Container) Close() error {
	if c.db != nil {
		if err := c.db.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
		c.db = nil
	}
	return nil
}
