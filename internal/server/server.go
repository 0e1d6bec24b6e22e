// Package server implements the flowstudio HTTP persistence API.
//
// Routes:
//
//	GET    /healthz
//	GET    /api/v1/operators/{operatorID}/graphs
//	GET    /api/v1/operators/{operatorID}/graphs/{graphID}
//	PUT    /api/v1/operators/{operatorID}/graphs/{graphID}
//	DELETE /api/v1/operators/{operatorID}/graphs/{graphID}
//	GET    /api/v1/operators/{operatorID}/graphs/{graphID}/export
//
// Graph payloads use the canonical wire format from pkg/graph. Concurrent
// saves to the same graph resolve last-write-wins. Serialized payloads and
// rendered exports are cached when a cache backend is configured; writes
// invalidate the graph's cache entries.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mistaa/flowstudio/pkg/cache"
	"github.com/mistaa/flowstudio/pkg/store"
)

// Server wires the persistence API's dependencies.
type Server struct {
	store  store.Store
	cache  cache.Cache
	keyer  cache.Keyer
	ttl    time.Duration
	logger *log.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithCache enables payload caching with the given backend and TTL.
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(s *Server) {
		s.cache = c
		s.ttl = ttl
	}
}

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// New creates a server backed by the given store.
func New(st store.Store, opts ...Option) *Server {
	s := &Server{
		store:  st,
		cache:  cache.NewNullCache(),
		keyer:  cache.NewDefaultKeyer(),
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router builds the chi router with middleware and all routes mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(s.logger))

	r.Get("/healthz", s.handleHealth)

	r.Route("/api/v1/operators/{operatorID}/graphs", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Route("/{graphID}", func(r chi.Router) {
			r.Get("/", s.handleLoad)
			r.Put("/", s.handleSave)
			r.Delete("/", s.handleDelete)
			r.Get("/export", s.handleExport)
		})
	})

	return r
}

// ListenAndServe runs the API on addr until the listener fails or ctx is
// cancelled, in which case it drains in-flight requests before returning.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"healthy"}`))
}
