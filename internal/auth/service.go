// Package auth implements TempoHub's lightweight accounts: sign-up and log-in
// behind a simulated delay, bcrypt password hashes and HS256 session tokens.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/tempohub/tempohub-service/internal/events"
	"github.com/tempohub/tempohub-service/internal/models"
)

var (
	// ErrInvalidInput wraps every sign-up/log-in validation failure
	ErrInvalidInput = errors.New("invalid input")
	// ErrEmailTaken is returned when signing up with a registered email
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials is returned for an unknown email or a wrong password
	ErrInvalidCredentials = errors.New("invalid email or password")
)

const (
	minPasswordLength = 6
	// bcrypt only looks at the first 72 bytes.
	maxPasswordLength = 72
)

// Config controls sessions and the simulated latency.
type Config struct {
	Secret     string
	Expiration time.Duration
	Delay      time.Duration
	BcryptCost int
}

type SignUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Service keeps accounts in memory and issues session tokens.
type Service struct {
	cfg       Config
	publisher events.Publisher
	logger    *zap.Logger
	now       func() time.Time

	mu       sync.RWMutex
	accounts map[string]models.Account // keyed by normalized email
}

func NewService(cfg Config, publisher events.Publisher, logger *zap.Logger) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		cfg:       cfg,
		publisher: publisher,
		logger:    logger.Named("auth"),
		now:       time.Now,
		accounts:  make(map[string]models.Account),
	}
}

// SignUp creates an account and returns a session for it.
func (s *Service) SignUp(ctx context.Context, req SignUpRequest) (*models.Session, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	email := normalizeEmail(req.Email)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if err := validateCredentials(email, req.Password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := models.Account{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}

	s.mu.Lock()
	if _, exists := s.accounts[email]; exists {
		s.mu.Unlock()
		return nil, ErrEmailTaken
	}
	s.accounts[email] = account
	s.mu.Unlock()

	s.logger.Info("User registered", zap.String("user_id", account.ID))
	if err := s.publisher.PublishUserRegistered(ctx, account); err != nil {
		s.logger.Warn("Failed to publish user_registered", zap.String("user_id", account.ID), zap.Error(err))
	}

	return s.issueSession(account)
}

// Login checks the password of an existing account and returns a session.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*models.Session, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	email := normalizeEmail(req.Email)
	if err := validateCredentials(email, req.Password); err != nil {
		return nil, err
	}

	s.mu.RLock()
	account, ok := s.accounts[email]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword(account.PasswordHash, []byte(req.Password)); err != nil {
		s.logger.Debug("Password mismatch", zap.String("user_id", account.ID))
		return nil, ErrInvalidCredentials
	}

	s.logger.Info("User logged in", zap.String("user_id", account.ID))
	return s.issueSession(account)
}

// wait simulates the round trip of a remote identity provider.
func (s *Service) wait(ctx context.Context) error {
	if s.cfg.Delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(s.cfg.Delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateCredentials(email, password string) error {
	if !strings.Contains(email, "@") {
		return fmt.Errorf("%w: a valid email is required", ErrInvalidInput)
	}
	if len(password) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLength)
	}
	if len(password) > maxPasswordLength {
		return fmt.Errorf("%w: password must be at most %d bytes", ErrInvalidInput, maxPasswordLength)
	}
	return nil
}
