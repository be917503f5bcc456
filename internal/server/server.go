// Package server defines the core Server struct that composes the app's main dependencies.
//
// It owns the lifecycle of:
//   - configuration
//   - logger + optional New Relic service wrapper
//   - the document store selected by config (mongo, postgres or memory)
//   - Prometheus metrics
//   - http.Server
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/deppfellow/todos/internal/config"
	"github.com/deppfellow/todos/internal/database"
	"github.com/deppfellow/todos/internal/metrics"
	"github.com/deppfellow/todos/internal/repository"
	"github.com/deppfellow/todos/internal/repository/memstore"
	"github.com/deppfellow/todos/internal/repository/mongostore"
	"github.com/deppfellow/todos/internal/repository/pgstore"
	"github.com/rs/zerolog"

	loggerPkg "github.com/deppfellow/todos/internal/logger"
)

// Server is the application container that holds shared resources.
//
// It is not the HTTP server itself.
type Server struct {
	Config        *config.Config
	Logger        *zerolog.Logger
	LoggerService *loggerPkg.LoggerService

	// Store is the process-wide todo collection handle, instrumented with
	// Metrics. It is safe for concurrent use.
	Store   repository.TodoStore
	Metrics *metrics.Metrics

	httpServer *http.Server
}

// New opens the configured document store and builds the Server.
// The store is pinged once; startup fails when it cannot be reached.
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) (*Server, error) {
	store, err := OpenStore(cfg, logger, loggerService)
	if err != nil {
		return nil, err
	}

	return NewWithStore(cfg, logger, loggerService, store), nil
}

// NewWithStore builds a Server around an already opened store.
func NewWithStore(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService, store repository.TodoStore) *Server {
	m := metrics.New()

	return &Server{
		Config:        cfg,
		Logger:        logger,
		LoggerService: loggerService,
		Store:         metrics.InstrumentStore(store, m),
		Metrics:       m,
	}
}

// OpenStore connects to the store named by cfg.Storage.Driver.
func OpenStore(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) (repository.TodoStore, error) {
	switch cfg.Storage.Driver {
	case config.DriverMongo:
		db, err := database.NewMongo(cfg, logger, loggerService)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize mongo: %w", err)
		}
		return mongostore.New(db.Database, cfg.Storage.Collection), nil

	case config.DriverPostgres:
		db, err := database.NewPostgres(cfg, logger, loggerService)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		return pgstore.New(db.Pool, cfg.Storage.Collection), nil

	case config.DriverMemory:
		logger.Warn().Msg("using in-memory store, data is lost on restart")
		return memstore.New(), nil
	}

	return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}

// SetupHTTPServer configures the internal net/http server.
func (s *Server) SetupHTTPServer(handler http.Handler) {
	s.httpServer = &http.Server{
		Addr:         ":" + s.Config.Server.Port,
		Handler:      handler,
		ReadTimeout:  time.Duration(s.Config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.Config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.Config.Server.IdleTimeout) * time.Second,
	}
}

// Start runs the HTTP server. It blocks until the server stops.
// SetupHTTPServer must be called first.
func (s *Server) Start() error {
	if s.httpServer == nil {
		return errors.New("HTTP server not initialized")
	}

	s.Logger.Info().
		Str("port", s.Config.Server.Port).
		Str("env", s.Config.Primary.Env).
		Str("storage", s.Config.Storage.Driver).
		Msg("starting server")

	return s.httpServer.ListenAndServe()
}

// Shutdown stops accepting requests, waits for in-flight ones up to ctx,
// then closes the store and flushes New Relic.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown HTTP server: %w", err)
		}
	}

	if err := s.Store.Close(ctx); err != nil {
		return fmt.Errorf("failed to close store: %w", err)
	}

	s.LoggerService.Shutdown(5 * time.Second)

	return nil
}
