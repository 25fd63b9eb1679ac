package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"itinerary-api/internal/models"
	"itinerary-api/internal/services"
	"itinerary-api/pkg/lambda"
)

// UserIDHeader carries the caller's user id when it is not in the query or body
const UserIDHeader = "X-User-Id"

// TripListResponse is returned by GET
type TripListResponse struct {
	Trips []*models.Trip `json:"trips"`
}

// TripResponse is returned by POST
type TripResponse struct {
	Trip *models.Trip `json:"trip"`
}

// TripHandler handles trip record requests
type TripHandler struct {
	tripService services.TripService
	identity    IdentityPolicy
	cors        CORSPolicy
	logger      *logrus.Logger
}

// NewTripHandler creates a new trip handler
func NewTripHandler(tripService services.TripService, identity IdentityPolicy, cors CORSPolicy, logger *logrus.Logger) *TripHandler {
	if identity == nil {
		identity = CallerSuppliedIdentity{}
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &TripHandler{
		tripService: tripService,
		identity:    identity,
		cors:        cors,
		logger:      logger,
	}
}

// @Summary List or save trips
// @Description GET lists the caller's trips newest first. POST saves a new trip. userId is read from the query, then the body, then the X-User-Id header.
// @Tags trips
// @Accept json
// @Produce json
// @Param userId query string false "User id"
// @Param X-User-Id header string false "User id"
// @Param trip body services.CreateTripRequest false "Trip to save (POST only)"
// @Success 200 {object} TripListResponse
// @Success 200 {object} TripResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 405 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /trips [get]
// @Router /trips [post]
func (h *TripHandler) Handle(ctx context.Context, req *lambda.Request) (resp *lambda.Response, err error) {
	headers := h.cors.Headers()

	defer func() {
		if r := recover(); r != nil {
			h.logger.WithFields(logrus.Fields{
				"method": req.Method,
				"path":   req.Path,
				"panic":  r,
			}).Error("Recovered from panic in trip handler")
			resp = writeError(http.StatusInternalServerError, fmt.Sprint(r), nil, headers)
			err = nil
		}
	}()

	if !h.cors.Allows(req.Method) {
		headers["Allow"] = h.cors.Allow()
		return writeError(http.StatusMethodNotAllowed, msgMethodNotAllowed, nil, headers), nil
	}
	if req.Method == http.MethodOptions {
		return writeJSON(http.StatusOK, nil, headers), nil
	}

	var body services.CreateTripRequest
	if raw := bytes.TrimSpace(req.Body); len(raw) > 0 {
		if err := json.Unmarshal(raw, &body); err != nil {
			if req.Method == http.MethodPost {
				h.logger.WithError(err).Debug("Rejected trip request body")
				return writeError(http.StatusBadRequest, msgInvalidBody, nil, headers), nil
			}
			body = services.CreateTripRequest{}
		}
	}

	userID := resolveUserID(req, string(body.UserID))
	if userID == "" {
		return writeError(http.StatusBadRequest, msgMissingUserID, nil, headers), nil
	}

	if err := h.identity.Authorize(req, userID); err != nil {
		return h.fail(req, err, headers), nil
	}

	if req.Method == http.MethodGet {
		trips, err := h.tripService.ListTrips(ctx, userID)
		if err != nil {
			return h.fail(req, err, headers), nil
		}
		return writeJSON(http.StatusOK, TripListResponse{Trips: trips}, headers), nil
	}

	body.UserID = models.RecordID(userID)
	trip, err := h.tripService.CreateTrip(ctx, &body)
	if err != nil {
		return h.fail(req, err, headers), nil
	}
	return writeJSON(http.StatusOK, TripResponse{Trip: trip}, headers), nil
}

// resolveUserID picks the first non-blank user id from the query string,
// the request body, then the X-User-Id header
func resolveUserID(req *lambda.Request, bodyUserID string) string {
	for _, candidate := range []string{req.Query("userId"), bodyUserID, req.Header(UserIDHeader)} {
		if strings.TrimSpace(candidate) != "" {
			return candidate
		}
	}
	return ""
}

func (h *TripHandler) fail(req *lambda.Request, err error, headers map[string]string) *lambda.Response {
	status, details := classifyError(err)
	fields := logrus.Fields{
		"method":      req.Method,
		"path":        req.Path,
		"status_code": status,
		"error":       err.Error(),
	}
	if status >= http.StatusInternalServerError {
		h.logger.WithFields(fields).Error("Trip request failed")
	} else {
		h.logger.WithFields(fields).Info("Trip request rejected")
	}
	return writeError(status, errorMessage(err), details, headers)
}
