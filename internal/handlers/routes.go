package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"itinerary-api/internal/middleware"
	"itinerary-api/pkg/lambda"
)

// RouterConfig holds configuration for setting up routes
type RouterConfig struct {
	Itinerary *ItineraryHandler
	Trips     *TripHandler
	// AuthService enables /dev/token when IssueTokens is also set
	AuthService *middleware.AuthService
	IssueTokens bool
	// HealthCheck reports the state of the backing stores
	HealthCheck func(ctx context.Context) error
	Version     string
}

// SetupRoutes configures all API routes.
// The endpoint handlers accept every method themselves so that OPTIONS and 405 responses match the serverless functions.
func SetupRoutes(router *gin.Engine, config *RouterConfig) {
	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", func(c *gin.Context) {
		status := http.StatusOK
		body := gin.H{
			"status":    "healthy",
			"service":   "itinerary-api",
			"version":   config.Version,
			"timestamp": time.Now().UTC(),
		}
		if config.HealthCheck != nil {
			if err := config.HealthCheck(c.Request.Context()); err != nil {
				status = http.StatusServiceUnavailable
				body["status"] = "unhealthy"
				body["error"] = err.Error()
			}
		}
		c.JSON(status, body)
	})

	api := router.Group("/api")
	{
		if config.Itinerary != nil {
			api.Any("/itinerary", lambda.GinHandler(config.Itinerary.Handle))
		}
		if config.Trips != nil {
			api.Any("/trips", lambda.GinHandler(config.Trips.Handle))
		}
	}

	if config.IssueTokens && config.AuthService != nil {
		authHandler := NewAuthHandler(config.AuthService, nil)
		router.POST("/dev/token", authHandler.IssueToken)
	}

	router.NoRoute(middleware.NotFound())
}
