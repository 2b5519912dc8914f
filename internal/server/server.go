// Package server provides the HTTP transport for the rollcall API.
// Handlers decode inbound batches, delegate to the reconciliation
// engine and map its outcome onto status codes; no business logic
// lives here.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/eventstack/rollcall/pkg/constants"
	"github.com/eventstack/rollcall/pkg/logging"
	"github.com/eventstack/rollcall/pkg/reconcile"
	"github.com/eventstack/rollcall/pkg/roster"
)

// Server holds the HTTP server state and dependencies.
type Server struct {
	store      *roster.Store
	reconciler reconcile.Reconciler
	logger     *zerolog.Logger
	config     Config
	httpServer *http.Server
	startTime  time.Time
}

// New creates a new server instance with the given configuration.
func New(store *roster.Store, rec reconcile.Reconciler, cfg Config, logger *zerolog.Logger) *Server {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultConfig().Addr
	}

	s := &Server{
		store:      store,
		reconciler: rec,
		logger:     logger,
		config:     cfg,
		startTime:  time.Now(),
	}

	s.httpServer = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.setupRouter(),
		ReadTimeout:  constants.ServerReadTimeout,
		WriteTimeout: constants.ServerWriteTimeout,
	}

	return s
}

// ListenAndServe starts serving and blocks until the server stops.
func (s *Server) ListenAndServe() error {
	s.logger.Info().
		Str("addr", s.config.Addr).
		Str("prefix", s.config.PathPrefix).
		Msg("HTTP server listening")
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("Shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the configured routes, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}
