package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultJWTSecret signs sessions when JWT_SECRET is unset. It is only fit
// for local development.
const DefaultJWTSecret = "tempohub-dev-secret"

type Config struct {
	Server struct {
		Host            string
		Port            string
		ReadTimeout     time.Duration
		WriteTimeout    time.Duration
		IdleTimeout     time.Duration
		ShutdownTimeout time.Duration
	}
	Ops struct {
		Port string
	}
	Database struct {
		// Path is empty when events live in memory only.
		Path string
	}
	Redis struct {
		URL     string
		Channel string
	}
	JWT struct {
		Secret     string
		Expiration time.Duration
	}
	Gemini struct {
		APIKey     string
		TextModel  string
		ImageModel string
	}
	Auth struct {
		SimulatedDelay time.Duration
		BcryptCost     int
	}
	CORS struct {
		AllowedOrigins []string
	}
	LogLevel    string
	Environment string
}

// Load reads the configuration from the environment. Values from a .env file
// in the working directory are applied first and never override variables
// that are already set.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	return FromEnv(), nil
}

// FromEnv builds a Config from the current process environment only.
func FromEnv() *Config {
	cfg := &Config{}

	// Server configuration
	cfg.Server.Host = getEnv("SERVER_HOST", "0.0.0.0")
	cfg.Server.Port = getEnv("SERVER_PORT", "8080")
	cfg.Server.ReadTimeout = getEnvAsDuration("SERVER_READ_TIMEOUT", "10s")
	cfg.Server.WriteTimeout = getEnvAsDuration("SERVER_WRITE_TIMEOUT", "90s")
	cfg.Server.IdleTimeout = getEnvAsDuration("SERVER_IDLE_TIMEOUT", "60s")
	cfg.Server.ShutdownTimeout = getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", "15s")
	cfg.Ops.Port = getEnv("OPS_PORT", "9090")

	// Storage and messaging
	cfg.Database.Path = getEnv("DB_PATH", "")
	cfg.Redis.URL = getEnv("REDIS_URL", "")
	cfg.Redis.Channel = getEnv("REDIS_CHANNEL", "tempohub_events")

	// JWT configuration
	cfg.JWT.Secret = getEnv("JWT_SECRET", DefaultJWTSecret)
	cfg.JWT.Expiration = getEnvAsDuration("JWT_EXPIRATION", "24h")

	// Generative AI provider
	cfg.Gemini.APIKey = getEnv("API_KEY", os.Getenv("GEMINI_API_KEY"))
	cfg.Gemini.TextModel = getEnv("GEMINI_TEXT_MODEL", "gemini-2.5-flash")
	cfg.Gemini.ImageModel = getEnv("GEMINI_IMAGE_MODEL", "gemini-2.5-flash-image")

	cfg.Auth.SimulatedDelay = getEnvAsDuration("AUTH_SIMULATED_DELAY", "1500ms")
	cfg.Auth.BcryptCost = getEnvAsInt("AUTH_BCRYPT_COST", 10)

	cfg.CORS.AllowedOrigins = getEnvAsList("CORS_ALLOWED_ORIGINS", "*")

	// Logging
	cfg.LogLevel = getEnv("LOG_LEVEL", "info")
	cfg.Environment = getEnv("ENVIRONMENT", "development")

	return cfg
}

// UsesDefaultJWTSecret reports whether a non-development environment is
// signing sessions with the built-in development secret.
func (c *Config) UsesDefaultJWTSecret() bool {
	return c.Environment != "development" && c.JWT.Secret == DefaultJWTSecret
}

// Addr is the listen address of the public API.
func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}

// OpsAddr is the listen address of the health and metrics server.
func (c *Config) OpsAddr() string {
	return c.Server.Host + ":" + c.Ops.Port
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key, defaultValue string) time.Duration {
	val := getEnv(key, defaultValue)
	duration, err := time.ParseDuration(val)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}
	return duration
}

func getEnvAsInt(key string, defaultValue int) int {
	val := getEnv(key, strconv.Itoa(defaultValue))
	intVal, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return intVal
}

func getEnvAsList(key, defaultValue string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, defaultValue), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
