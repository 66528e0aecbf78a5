// Package server runs the public API and the operations endpoints.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Config holds listener addresses and timeouts.
type Config struct {
	APIAddr         string
	OpsAddr         string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// Server owns the two HTTP listeners.
type Server struct {
	api    *http.Server
	ops    *http.Server
	cfg    Config
	logger *zap.Logger
}

// New wires handler as the public API and builds the ops server around
// checks.
func New(cfg Config, handler http.Handler, checks map[string]Check, logger *zap.Logger) *Server {
	return &Server{
		api: &http.Server{
			Addr:         cfg.APIAddr,
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
		ops: &http.Server{
			Addr:         cfg.OpsAddr,
			Handler:      newOpsRouter(checks),
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
		cfg:    cfg,
		logger: logger.Named("server"),
	}
}

// Run listens on both addresses until ctx is cancelled or a listener fails,
// then shuts both servers down gracefully.
func (s *Server) Run(ctx context.Context) error {
	apiLn, err := net.Listen("tcp", s.api.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.api.Addr, err)
	}
	opsLn, err := net.Listen("tcp", s.ops.Addr)
	if err != nil {
		apiLn.Close()
		return fmt.Errorf("failed to listen on %s: %w", s.ops.Addr, err)
	}
	return s.Serve(ctx, apiLn, opsLn)
}

// Serve is Run with caller-provided listeners.
func (s *Server) Serve(ctx context.Context, apiLn, opsLn net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("Starting API server", zap.String("address", apiLn.Addr().String()))
		return serve(s.api, apiLn)
	})
	g.Go(func() error {
		s.logger.Info("Starting ops server", zap.String("address", opsLn.Addr().String()))
		return serve(s.ops, opsLn)
	})
	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("Shutting down servers...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()

		return errors.Join(
			s.api.Shutdown(shutdownCtx),
			s.ops.Shutdown(shutdownCtx),
		)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	s.logger.Info("Servers exited")
	return nil
}

func serve(srv *http.Server, ln net.Listener) error {
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server on %s failed: %w", ln.Addr(), err)
	}
	return nil
}
