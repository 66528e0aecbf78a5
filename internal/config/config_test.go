package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("API_KEY", "")
	cfg := FromEnv()

	assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
	assert.Equal(t, "0.0.0.0:9090", cfg.OpsAddr())
	assert.Equal(t, "", cfg.Database.Path)
	assert.Equal(t, "", cfg.Redis.URL)
	assert.Equal(t, "tempohub_events", cfg.Redis.Channel)
	assert.Equal(t, 24*time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, "gemini-2.5-flash", cfg.Gemini.TextModel)
	assert.Equal(t, "gemini-2.5-flash-image", cfg.Gemini.ImageModel)
	assert.Equal(t, 1500*time.Millisecond, cfg.Auth.SimulatedDelay)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "3000")
	t.Setenv("DB_PATH", "/tmp/tempohub.db")
	t.Setenv("REDIS_URL", "redis://cache:6379/1")
	t.Setenv("API_KEY", "key-123")
	t.Setenv("AUTH_SIMULATED_DELAY", "0s")
	t.Setenv("AUTH_BCRYPT_COST", "4")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:5173, https://tempohub.app ,")

	cfg := FromEnv()

	assert.Equal(t, "0.0.0.0:3000", cfg.Addr())
	assert.Equal(t, "/tmp/tempohub.db", cfg.Database.Path)
	assert.Equal(t, "redis://cache:6379/1", cfg.Redis.URL)
	assert.Equal(t, "key-123", cfg.Gemini.APIKey)
	assert.Equal(t, time.Duration(0), cfg.Auth.SimulatedDelay)
	assert.Equal(t, 4, cfg.Auth.BcryptCost)
	assert.Equal(t, []string{"http://localhost:5173", "https://tempohub.app"}, cfg.CORS.AllowedOrigins)
}

func TestFromEnv_ExplicitEmptyAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "gemini-key")
	t.Setenv("API_KEY", "")

	// GEMINI_API_KEY only applies when API_KEY is unset.
	assert.Equal(t, "", FromEnv().Gemini.APIKey)
}

func TestFromEnv_InvalidValuesKeepDefaults(t *testing.T) {
	t.Setenv("JWT_EXPIRATION", "forever")
	t.Setenv("AUTH_BCRYPT_COST", "high")

	cfg := FromEnv()

	assert.Equal(t, 24*time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
}

func TestUsesDefaultJWTSecret(t *testing.T) {
	tests := []struct {
		name        string
		environment string
		secret      string
		want        bool
	}{
		{"development with default", "development", DefaultJWTSecret, false},
		{"production with default", "production", DefaultJWTSecret, true},
		{"production with own secret", "production", "s3cret", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Environment: tt.environment}
			cfg.JWT.Secret = tt.secret
			assert.Equal(t, tt.want, cfg.UsesDefaultJWTSecret())
		})
	}
}
