package handlers

// @title Itinerary API
// @version 1.0
// @description Travel itinerary generation and saved trips

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8081
// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the identity token. Only checked when USER_TOKEN_SECRET is set.

// @tag.name itinerary
// @tag.description Itinerary generation

// @tag.name trips
// @tag.description Saved trip records

// @tag.name auth
// @tag.description Development identity tokens
