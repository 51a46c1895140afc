// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes search and menu selection over HTTP. Searches go
// straight to the aggregator; the selection engine has a single owner, so
// every handler touching it holds the server's engine lock.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/IT2357/catalog-engine/internal/aggregate"
	"github.com/IT2357/catalog-engine/internal/metrics"
	"github.com/IT2357/catalog-engine/internal/selection"
	"github.com/IT2357/catalog-engine/pkg/types"
)

// Searcher runs one synchronous aggregated search.
type Searcher interface {
	Search(ctx context.Context, query string) (aggregate.Publication, error)
}

// Server serves the catalog engine HTTP API.
type Server struct {
	search Searcher
	log    *zap.Logger

	mu     sync.Mutex
	engine *selection.Engine
}

// New returns a server over the given searcher and selection engine.
func New(search Searcher, engine *selection.Engine, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{search: search, engine: engine, log: log}
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(jsonRecoverer(s.log))
	r.Use(chiMiddleware.RequestID)
	r.Use(requestLogger(s.log))
	r.Use(metrics.Middleware())

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.Get("/search", s.handleSearch)
	r.Get("/catalog", s.handleCatalog)

	r.Route("/selection", func(r chi.Router) {
		r.Get("/", s.handleSummary)
		r.Put("/plan/{planID}", s.handleSetPlan)
		r.Post("/items/{itemID}", s.handleIncrement)
		r.Delete("/items/{itemID}", s.handleDecrement)
		r.Post("/confirm", s.handleConfirm)
	})
	return r
}

// Run serves on cfg.Addr until ctx is cancelled, then shuts down within
// cfg.ShutdownTimeout.
func (s *Server) Run(ctx context.Context, cfg types.ServerConfig) error {
	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", cfg.Addr, err)
	}
	return s.serve(ctx, ln, cfg.ShutdownTimeout)
}

func (s *Server) serve(ctx context.Context, ln net.Listener, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("starting HTTP server", zap.String("addr", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	s.log.Info("server stopped gracefully")
	return nil
}
