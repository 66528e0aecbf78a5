package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tempohub/tempohub-service/internal/auth"
)

type AuthHandler struct {
	auth   *auth.Service
	logger *zap.Logger
}

// MeResponse describes the caller's session.
type MeResponse struct {
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

func NewAuthHandler(authService *auth.Service, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		auth:   authService,
		logger: logger.Named("auth_handler"),
	}
}

func (h *AuthHandler) SignUp(c *gin.Context) {
	var req auth.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	session, err := h.auth.SignUp(c.Request.Context(), req)
	if err != nil {
		respondWithDomainError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	session, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		respondWithDomainError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// Logout is stateless: the client drops its token.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) Me(c *gin.Context) {
	claims, ok := CurrentClaims(c)
	if !ok {
		RespondWithError(c, http.StatusUnauthorized, auth.ErrInvalidToken.Error())
		return
	}

	resp := MeResponse{
		UserID: claims.UserID(),
		Name:   claims.Name,
		Email:  claims.Email,
	}
	if claims.ExpiresAt != nil {
		resp.ExpiresAt = claims.ExpiresAt.Time.UTC()
	}
	c.JSON(http.StatusOK, resp)
}
