package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"itinerary-api/internal/config"
	"itinerary-api/internal/handlers"
	"itinerary-api/internal/middleware"
	"itinerary-api/pkg/server"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const version = "1.0.0"

// maxBodyBytes bounds request bodies on the dev server
const maxBodyBytes = 1 << 20

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	// Initialize dependencies
	container, err := server.NewContainer(cfg, server.ComponentAll)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize container")
	}
	defer container.Close()

	logger := container.Logger

	// Setup Gin router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.StructuredLogger(logger))
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.RateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, logger))
	router.Use(middleware.RequestSizeLimit(maxBodyBytes))

	handlers.SetupRoutes(router, &handlers.RouterConfig{
		Itinerary: handlers.NewItineraryHandler(
			container.ItineraryService,
			handlers.ItineraryCORS(cfg.CORS.AllowOrigin),
			logger,
		),
		Trips: handlers.NewTripHandler(
			container.TripService,
			handlers.NewIdentityPolicy(container.AuthService),
			handlers.TripCORS(cfg.CORS.AllowOrigin),
			logger,
		),
		AuthService: container.AuthService,
		IssueTokens: cfg.DevTokensEnabled(),
		HealthCheck: container.HealthCheck,
		Version:     version,
	})

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Failed to start server")
		}
	}()

	logger.WithFields(logrus.Fields{
		"deployment_mode": config.GetDeploymentMode(),
		"dev_tokens":      cfg.DevTokensEnabled(),
		"port":            cfg.Port,
		"store":           cfg.Store.Type,
		"generation_mode": cfg.Generation.Mode,
		"model":           cfg.Generation.ModelName,
	}).Info("Server started")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Fatal("Server forced to shutdown")
	}

	logger.Info("Server exited")
}
