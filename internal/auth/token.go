package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tempohub/tempohub-service/internal/models"
)

// ErrInvalidToken is returned for missing, malformed, forged or expired tokens.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims identifies the user behind a session token.
type Claims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// UserID is the subject of the token.
func (c *Claims) UserID() string {
	return c.Subject
}

func (s *Service) issueSession(account models.Account) (*models.Session, error) {
	now := s.now().UTC().Truncate(time.Second)
	expiresAt := now.Add(s.cfg.Expiration)

	claims := Claims{
		Name:  account.Name,
		Email: account.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   account.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &models.Session{
		Token:     signed,
		ExpiresAt: expiresAt,
		User:      account,
	}, nil
}

// VerifyToken validates tokenString and returns its claims.
func (s *Service) VerifyToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (interface{}, error) { return []byte(s.cfg.Secret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return claims, nil
}
