package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"itinerary-api/internal/middleware"
)

// TokenRequest represents the token issuance request body
type TokenRequest struct {
	UserID string `json:"userId" binding:"required"`
}

// TokenResponse represents an issued identity token
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	UserID    string    `json:"userId"`
}

// AuthHandler issues identity tokens for the signed identity policy
type AuthHandler struct {
	authService *middleware.AuthService
	logger      *logrus.Logger
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(authService *middleware.AuthService, logger *logrus.Logger) *AuthHandler {
	if logger == nil {
		logger = logrus.New()
	}
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// @Summary Issue a development token
// @Description Issue a signed identity token for userId. Only mounted outside production.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body TokenRequest true "User"
// @Success 200 {object} TokenResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /dev/token [post]
func (h *AuthHandler) IssueToken(c *gin.Context) {
	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.UserID) == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: msgMissingUserID})
		return
	}

	token, expiresAt, err := h.authService.GenerateToken(req.UserID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to issue token")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to generate token"})
		return
	}

	h.logger.WithField("user_id", req.UserID).Info("Issued development token")

	c.JSON(http.StatusOK, TokenResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		UserID:    req.UserID,
	})
}
