package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tempohub/tempohub-service/internal/auth"
	"github.com/tempohub/tempohub-service/internal/catalog"
	"github.com/tempohub/tempohub-service/internal/community"
	"github.com/tempohub/tempohub-service/internal/repository"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

const claimsKey = "tempohub.claims"

// StatusClientClosedRequest is reported when the client goes away before the
// response is ready. It is the nginx convention; net/http has no constant.
const StatusClientClosedRequest = 499

// TokenVerifier validates bearer tokens. *auth.Service satisfies it.
type TokenVerifier interface {
	VerifyToken(token string) (*auth.Claims, error)
}

// RespondWithError sends a JSON error response with the given status code and message
func RespondWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, ErrorResponse{Error: message})
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, catalog.ErrTitleRequired),
		errors.Is(err, auth.ErrInvalidInput),
		errors.Is(err, community.ErrEmptyContent):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, repository.ErrEventNotFound),
		errors.Is(err, community.ErrPostNotFound),
		errors.Is(err, community.ErrChatNotFound),
		errors.Is(err, community.ErrGroupNotFound):
		return http.StatusNotFound
	case errors.Is(err, auth.ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, context.Canceled):
		return StatusClientClosedRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// respondWithDomainError writes err with its mapped status. Unexpected
// errors are logged and hidden from the client.
func respondWithDomainError(c *gin.Context, logger *zap.Logger, err error) {
	status := statusFor(err)
	switch status {
	case StatusClientClosedRequest, http.StatusGatewayTimeout:
		logger.Debug("Request aborted",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		RespondWithError(c, status, "Request aborted")
		return
	case http.StatusInternalServerError:
		logger.Error("Request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		RespondWithError(c, status, "Internal server error")
		return
	}
	RespondWithError(c, status, err.Error())
}

// RequireAuth rejects requests without a valid bearer token.
func RequireAuth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			RespondWithError(c, http.StatusUnauthorized, "Authorization header required")
			return
		}
		claims, err := verifier.VerifyToken(token)
		if err != nil {
			RespondWithError(c, http.StatusUnauthorized, auth.ErrInvalidToken.Error())
			return
		}
		c.Set(claimsKey, claims)
		c.Next()
	}
}

// OptionalAuth attaches claims when a valid token is present and otherwise
// lets the request through anonymously.
func OptionalAuth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			if claims, err := verifier.VerifyToken(token); err == nil {
				c.Set(claimsKey, claims)
			}
		}
		c.Next()
	}
}

// CurrentClaims returns the claims set by RequireAuth or OptionalAuth.
func CurrentClaims(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}

// viewerID is the authenticated user's ID, or "" for anonymous requests.
func viewerID(c *gin.Context) string {
	if claims, ok := CurrentClaims(c); ok {
		return claims.UserID()
	}
	return ""
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
