package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/penwyp/go-vessel-trail/internal/core/constants"
	"github.com/penwyp/go-vessel-trail/internal/data/provider"
	"github.com/penwyp/go-vessel-trail/internal/util"
)

// Server serves the browser map and the trail API.
type Server struct {
	config   *Config
	provider provider.Provider
	router   *mux.Router
	now      func() time.Time
}

// Option customises a Server.
type Option func(*Server)

// WithProvider replaces the provider built from the data path.
func WithProvider(p provider.Provider) Option {
	return func(s *Server) { s.provider = p }
}

// WithClock replaces time.Now, which anchors default criteria.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// New creates a server. It does not listen until Run.
func New(config *Config, opts ...Option) (*Server, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	s := &Server{config: config, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	if s.provider == nil {
		s.provider = provider.New(util.ExpandPath(config.DataPath),
			provider.WithConcurrency(config.Concurrency), provider.WithCache(config.Cache))
	}
	s.router = s.setupRouter()
	return s, nil
}

// setupRouter configures the HTTP router with all endpoints
func (s *Server) setupRouter() *mux.Router {
	router := mux.NewRouter()
	router.Use(requestIDMiddleware, loggingMiddleware)

	// API routes sit on the root router so a wrong method yields 405
	router.HandleFunc("/api/trail", s.handleTrail).Methods(http.MethodGet)
	router.HandleFunc("/api/hover", s.handleHover).Methods(http.MethodGet)
	router.HandleFunc("/api/filters", s.handleFilters).Methods(http.MethodGet)

	router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	return router
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Addr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.Addr(), err)
	}
	return s.Serve(ctx, ln)
}

// Serve handles requests on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		util.LogInfof("Serving %s on http://%s", s.provider.Source(), ln.Addr())
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	util.LogInfo("Shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ServerShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}
