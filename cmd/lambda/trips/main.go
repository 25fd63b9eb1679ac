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
	connections := lambda.NewConnectionManager(server.ComponentTrips)

	// The store must be configured before the first request is accepted
	container, err := connections.GetContainer()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize trip store")
	}

	stop := connections.CleanupOnSignal(container.Logger, syscall.SIGTERM)
	defer stop()

	handler := handlers.NewTripHandler(
		container.TripService,
		handlers.NewIdentityPolicy(container.AuthService),
		handlers.TripCORS(container.Config.CORS.AllowOrigin),
		container.Logger,
	)

	awslambda.Start(lambda.APIGatewayHandler(handler.Handle, container.Logger))
}
