package handlers

import (
	"errors"
	"net/http"

	"itinerary-api/internal/adapters/generation"
	"itinerary-api/internal/repositories"
	"itinerary-api/internal/services"
)

const (
	msgMethodNotAllowed = "Method not allowed"
	msgInvalidBody      = "Invalid JSON body"
	msgMissingUserID    = "Missing userId"
)

// classifyError maps an error to a status code and optional diagnostic context
func classifyError(err error) (int, map[string]interface{}) {
	if services.IsValidationError(err) {
		return http.StatusBadRequest, nil
	}

	var identityErr *IdentityError
	if errors.As(err, &identityErr) {
		return http.StatusUnauthorized, nil
	}

	if parseErr, ok := services.AsParseError(err); ok {
		return http.StatusInternalServerError, map[string]interface{}{"stage": parseErr.Stage}
	}

	if storeErr, ok := repositories.AsStoreError(err); ok {
		details := map[string]interface{}{"stage": "store"}
		if storeErr.Code != "" {
			details["code"] = storeErr.Code
		}
		return http.StatusInternalServerError, details
	}

	if repositories.IsConnection(err) {
		return http.StatusInternalServerError, map[string]interface{}{"stage": "store_connection"}
	}

	if generation.IsMissingCredential(err) {
		return http.StatusInternalServerError, map[string]interface{}{"stage": "credential"}
	}

	if apiErr, ok := generation.AsAPIError(err); ok {
		details := map[string]interface{}{"stage": "generation"}
		if apiErr.Status != "" {
			details["status"] = apiErr.Status
		}
		return http.StatusInternalServerError, details
	}

	return http.StatusInternalServerError, nil
}

// errorMessage returns the caller-facing message for err.
// Store-reported errors surface the store's own message.
func errorMessage(err error) string {
	return repositories.Message(err)
}
