package app

import (
	"context"
	"fmt"
	stdhttp "net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/steamchat/steamchat-server/internal/config"
	"github.com/steamchat/steamchat-server/internal/core"
	"github.com/steamchat/steamchat-server/internal/store"
	"github.com/steamchat/steamchat-server/internal/store/sqlite"
	transporthttp "github.com/steamchat/steamchat-server/internal/transport/http"
)

// App wires together core and transport layers.
type App struct {
	server          *stdhttp.Server
	shutdownTimeout time.Duration
	hub             *core.Hub
	pipeline        *core.Pipeline
	store           store.Store
	log             *zerolog.Logger
}

// New constructs the application with provided configuration.
func New(cfg *config.Config, logger *zerolog.Logger) (*App, error) {
	mode, err := core.ParseDurabilityMode(cfg.Durability)
	if err != nil {
		return nil, fmt.Errorf("parse durability mode: %w", err)
	}

	st, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}

	logger.Info().
		Str("db_path", cfg.DatabasePath).
		Str("durability", string(mode)).
		Msg("store initialized")

	hub := core.NewHub(logger)
	pipeline := core.NewPipeline(hub, st, mode, cfg.WriteTimeout, logger)
	server := transporthttp.NewServer(hub, pipeline, st, cfg, logger)

	return &App{
		server:          server,
		shutdownTimeout: cfg.ShutdownTimeout,
		hub:             hub,
		pipeline:        pipeline,
		store:           st,
		log:             logger,
	}, nil
}

// Run starts the HTTP server and blocks until context cancellation or fatal error.
func (a *App) Run(ctx context.Context) error {
	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	go a.hub.Run(hubCtx)

	serverErr := make(chan error, 1)
	go func() {
		if err := a.server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		a.cleanup()
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down http server")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			a.cleanup()
			return err
		}

		// Let in-flight background writes finish before closing the
		// store; they must not be cut off by client disconnects or
		// shutdown.
		if err := a.pipeline.Drain(shutdownCtx); err != nil {
			a.log.Warn().Err(err).Msg("background writes not drained before shutdown deadline")
		}

		a.cleanup()
		return <-serverErr
	}
}

// cleanup closes the database and other resources.
func (a *App) cleanup() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn().Err(err).Msg("failed to close store")
		} else {
			a.log.Info().Msg("store closed")
		}
	}
}
