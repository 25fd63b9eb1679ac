package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"itinerary-api/internal/models"
	"itinerary-api/internal/services"
	"itinerary-api/pkg/lambda"
)

// ItineraryTextResponse is returned for free-text generation
type ItineraryTextResponse struct {
	Text  string `json:"text"`
	Model string `json:"model"`
}

// ItineraryJSONResponse is returned when JSON output was requested
type ItineraryJSONResponse struct {
	Data   map[string]interface{} `json:"data"`
	Model  string                 `json:"model"`
	Status string                 `json:"status"`
}

// ItineraryHandler handles itinerary generation requests
type ItineraryHandler struct {
	itineraryService services.ItineraryService
	cors             CORSPolicy
	logger           *logrus.Logger
}

// NewItineraryHandler creates a new itinerary handler
func NewItineraryHandler(itineraryService services.ItineraryService, cors CORSPolicy, logger *logrus.Logger) *ItineraryHandler {
	if logger == nil {
		logger = logrus.New()
	}
	return &ItineraryHandler{
		itineraryService: itineraryService,
		cors:             cors,
		logger:           logger,
	}
}

// @Summary Generate an itinerary
// @Description Forward a prompt to the text generation backend. With responseFormat "json" the output is parsed and returned as an object.
// @Tags itinerary
// @Accept json
// @Produce json
// @Param request body models.GenerationRequest true "Prompt"
// @Success 200 {object} ItineraryTextResponse
// @Success 200 {object} ItineraryJSONResponse
// @Failure 400 {object} ErrorResponse
// @Failure 405 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /itinerary [post]
func (h *ItineraryHandler) Handle(ctx context.Context, req *lambda.Request) (resp *lambda.Response, err error) {
	headers := h.cors.Headers()

	defer func() {
		if r := recover(); r != nil {
			h.logger.WithFields(logrus.Fields{
				"method": req.Method,
				"path":   req.Path,
				"panic":  r,
			}).Error("Recovered from panic in itinerary handler")
			resp = writeError(http.StatusInternalServerError, fmt.Sprint(r), nil, headers)
			err = nil
		}
	}()

	if !h.cors.Allows(req.Method) {
		headers["Allow"] = h.cors.Allow()
		return writeError(http.StatusMethodNotAllowed, msgMethodNotAllowed, nil, headers), nil
	}
	if req.Method == http.MethodOptions {
		return writeJSON(http.StatusOK, struct{}{}, headers), nil
	}

	if err := h.itineraryService.CheckReady(); err != nil {
		return h.fail(req, err, headers), nil
	}

	var genReq models.GenerationRequest
	if body := bytes.TrimSpace(req.Body); len(body) > 0 {
		if err := json.Unmarshal(body, &genReq); err != nil {
			h.logger.WithError(err).Debug("Rejected itinerary request body")
			return writeError(http.StatusBadRequest, msgInvalidBody, nil, headers), nil
		}
	}

	result, err := h.itineraryService.Generate(ctx, &genReq)
	if err != nil {
		return h.fail(req, err, headers), nil
	}

	if result.Format == models.ResponseFormatJSON {
		return writeJSON(http.StatusOK, ItineraryJSONResponse{
			Data:   result.Data,
			Model:  result.Model,
			Status: "success",
		}, headers), nil
	}

	return writeJSON(http.StatusOK, ItineraryTextResponse{
		Text:  result.Text,
		Model: result.Model,
	}, headers), nil
}

func (h *ItineraryHandler) fail(req *lambda.Request, err error, headers map[string]string) *lambda.Response {
	status, details := classifyError(err)
	fields := logrus.Fields{
		"method":      req.Method,
		"path":        req.Path,
		"status_code": status,
		"error":       err.Error(),
	}
	if status >= http.StatusInternalServerError {
		h.logger.WithFields(fields).Error("Itinerary request failed")
	} else {
		h.logger.WithFields(fields).Info("Itinerary request rejected")
	}
	return writeError(status, errorMessage(err), details, headers)
}
