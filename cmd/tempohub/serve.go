package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tempohub/tempohub-service/internal/api"
	"github.com/tempohub/tempohub-service/internal/auth"
	"github.com/tempohub/tempohub-service/internal/catalog"
	"github.com/tempohub/tempohub-service/internal/community"
	"github.com/tempohub/tempohub-service/internal/config"
	"github.com/tempohub/tempohub-service/internal/database"
	"github.com/tempohub/tempohub-service/internal/events"
	"github.com/tempohub/tempohub-service/internal/generator"
	"github.com/tempohub/tempohub-service/internal/logger"
	"github.com/tempohub/tempohub-service/internal/repository"
	"github.com/tempohub/tempohub-service/internal/server"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the public API and the ops server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			log, err := logger.New(cfg.LogLevel)
			if err != nil {
				return err
			}
			defer log.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			svc, err := buildApp(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer svc.close()

			return svc.server.Run(ctx)
		},
	}
}

// app is the fully wired service.
type app struct {
	server  *server.Server
	closers []func() error
	logger  *zap.Logger
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("Error during cleanup", zap.Error(err))
		}
	}
}

func buildApp(ctx context.Context, cfg *config.Config, log *zap.Logger) (*app, error) {
	a := &app{logger: log}
	checks := make(map[string]server.Check)

	if cfg.UsesDefaultJWTSecret() {
		log.Warn("JWT_SECRET is not set, sessions are signed with the development secret",
			zap.String("environment", cfg.Environment))
	}

	// Event storage
	repo := repository.NewMemoryEventRepository()
	if cfg.Database.Path != "" {
		db, err := database.NewSQLiteDB(cfg.Database.Path)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		a.closers = append(a.closers, db.Close)
		checks["sqlite"] = db.PingContext
		repo = repository.NewSQLiteEventRepository(db.DB, log)
		log.Info("Using SQLite event storage", zap.String("path", cfg.Database.Path))
	} else {
		log.Info("Using in-memory event storage")
	}

	// Domain events
	var publisher events.Publisher = events.NopPublisher{}
	if cfg.Redis.URL != "" {
		client, err := events.NewRedisClient(ctx, cfg.Redis.URL)
		if err != nil {
			a.close()
			return nil, err
		}
		redisPublisher := events.NewRedisPublisher(client, cfg.Redis.Channel, log)
		a.closers = append(a.closers, redisPublisher.Close)
		checks["redis"] = redisPublisher.Ping
		publisher = redisPublisher
		log.Info("Publishing domain events to Redis", zap.String("channel", cfg.Redis.Channel))
	}

	gen := generator.New(ctx, generator.Config{
		APIKey:     cfg.Gemini.APIKey,
		TextModel:  cfg.Gemini.TextModel,
		ImageModel: cfg.Gemini.ImageModel,
	}, log)

	catalogService := catalog.NewService(repo, gen, publisher, log)
	if err := catalogService.LoadSeed(ctx); err != nil {
		a.close()
		return nil, err
	}

	authService := auth.NewService(auth.Config{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Delay:      cfg.Auth.SimulatedDelay,
		BcryptCost: cfg.Auth.BcryptCost,
	}, publisher, log)

	handler := api.NewHandler(api.Services{
		Catalog:   catalogService,
		Auth:      authService,
		Community: community.NewService(publisher, log),
	}, api.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Debug:          cfg.LogLevel == "debug",
	}, log)

	a.server = server.New(server.Config{
		APIAddr:         cfg.Addr(),
		OpsAddr:         cfg.OpsAddr(),
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		IdleTimeout:     cfg.Server.IdleTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, handler, checks, log)

	log.Info("TempoHub configured",
		zap.String("environment", cfg.Environment),
		zap.String("api_addr", cfg.Addr()),
		zap.String("ops_addr", cfg.OpsAddr()),
	)
	return a, nil
}
