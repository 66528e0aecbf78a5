package auth

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/tempohub/tempohub-service/internal/events"
	"github.com/tempohub/tempohub-service/internal/models"
)

type recordingPublisher struct {
	events.NopPublisher
	mu       sync.Mutex
	accounts []models.Account
}

func (p *recordingPublisher) PublishUserRegistered(_ context.Context, account models.Account) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.accounts = append(p.accounts, account)
	return nil
}

var clock = time.Date(2025, 4, 1, 9, 30, 0, 0, time.UTC)

func newTestService(pub events.Publisher) *Service {
	s := NewService(Config{
		Secret:     "test-secret",
		Expiration: time.Hour,
		BcryptCost: bcrypt.MinCost,
	}, pub, zap.NewNop())
	s.now = func() time.Time { return clock }
	return s
}

func TestSignUp_IssuesVerifiableSession(t *testing.T) {
	pub := &recordingPublisher{}
	s := newTestService(pub)

	session, err := s.SignUp(context.Background(), SignUpRequest{
		Name:     "  Alex Raver ",
		Email:    " Alex@TempoHub.io",
		Password: "techno123",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, session.Token)
	assert.Equal(t, clock.Add(time.Hour), session.ExpiresAt)
	assert.Equal(t, "Alex Raver", session.User.Name)
	assert.Equal(t, "alex@tempohub.io", session.User.Email)
	assert.NoError(t, bcrypt.CompareHashAndPassword(session.User.PasswordHash, []byte("techno123")))

	claims, err := s.VerifyToken(session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, claims.UserID())
	assert.Equal(t, "Alex Raver", claims.Name)
	assert.Equal(t, "alex@tempohub.io", claims.Email)
	assert.Equal(t, clock, claims.IssuedAt.Time.UTC())

	require.Len(t, pub.accounts, 1)
	assert.Equal(t, session.User.ID, pub.accounts[0].ID)
}

func TestSignUp_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  SignUpRequest
	}{
		{"blank name", SignUpRequest{Name: "  ", Email: "a@b.c", Password: "secret1"}},
		{"email without at", SignUpRequest{Name: "A", Email: "nobody", Password: "secret1"}},
		{"short password", SignUpRequest{Name: "A", Email: "a@b.c", Password: "12345"}},
		{"long password", SignUpRequest{Name: "A", Email: "a@b.c", Password: strings.Repeat("x", 73)}},
	}

	s := newTestService(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.SignUp(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestSignUp_DuplicateEmail(t *testing.T) {
	s := newTestService(nil)
	ctx := context.Background()

	_, err := s.SignUp(ctx, SignUpRequest{Name: "A", Email: "dup@tempohub.io", Password: "secret1"})
	require.NoError(t, err)

	_, err = s.SignUp(ctx, SignUpRequest{Name: "B", Email: "DUP@tempohub.io", Password: "secret2"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogin(t *testing.T) {
	s := newTestService(nil)
	ctx := context.Background()

	signup, err := s.SignUp(ctx, SignUpRequest{Name: "Sarah", Email: "sarah@tempohub.io", Password: "jazzhands"})
	require.NoError(t, err)

	session, err := s.Login(ctx, LoginRequest{Email: "SARAH@tempohub.io", Password: "jazzhands"})
	require.NoError(t, err)
	assert.Equal(t, signup.User.ID, session.User.ID)

	_, err = s.Login(ctx, LoginRequest{Email: "sarah@tempohub.io", Password: "wrongpass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = s.Login(ctx, LoginRequest{Email: "ghost@tempohub.io", Password: "jazzhands"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = s.Login(ctx, LoginRequest{Email: "sarah", Password: "jazzhands"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSimulatedDelay(t *testing.T) {
	s := newTestService(nil)
	s.cfg.Delay = 50 * time.Millisecond

	start := time.Now()
	_, err := s.SignUp(context.Background(), SignUpRequest{Name: "A", Email: "slow@tempohub.io", Password: "secret1"})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestSimulatedDelay_Cancelled(t *testing.T) {
	s := newTestService(nil)
	s.cfg.Delay = time.Minute

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := s.Login(ctx, LoginRequest{Email: "a@b.c", Password: "secret1"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestVerifyToken_Rejects(t *testing.T) {
	s := newTestService(nil)
	session, err := s.SignUp(context.Background(), SignUpRequest{Name: "A", Email: "a@tempohub.io", Password: "secret1"})
	require.NoError(t, err)

	t.Run("garbage", func(t *testing.T) {
		_, err := s.VerifyToken("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := newTestService(nil)
		other.cfg.Secret = "another-secret"
		_, err := other.VerifyToken(session.Token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		later := newTestService(nil)
		later.now = func() time.Time { return clock.Add(2 * time.Hour) }
		_, err := later.VerifyToken(session.Token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("unsigned", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "u1",
				ExpiresAt: jwt.NewNumericDate(clock.Add(time.Hour)),
			},
		})
		unsigned, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = s.VerifyToken(unsigned)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("missing subject", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
			RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(clock.Add(time.Hour))},
		})
		signed, err := token.SignedString([]byte("test-secret"))
		require.NoError(t, err)

		_, err = s.VerifyToken(signed)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
