package main

import (
	"syscall"

	"itinerary-api/internal/handlers"
	"itinerary-api/pkg/lambda"
	"itinerary-api/pkg/server"

	awslambda "github.com/aws/aws-lambda-go/lambda"
	"github.com/sirupsen/logrus"
)

func main() {
	connections := lambda.NewConnectionManager(server.ComponentGeneration)

	// A missing GEMINI_API_KEY is reported per request, not here
	container, err := connections.GetContainer()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize generation client")
	}

	stop := connections.CleanupOnSignal(container.Logger, syscall.SIGTERM)
	defer stop()

	handler := handlers.NewItineraryHandler(
		container.ItineraryService,
		handlers.ItineraryCORS(container.Config.CORS.AllowOrigin),
		container.Logger,
	)

	awslambda.Start(lambda.APIGatewayHandler(handler.Handle, container.Logger))
}
