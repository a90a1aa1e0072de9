package httpserver

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"forum/backend/internal/config"
	authusecase "forum/backend/internal/usecase/auth"
	categoryusecase "forum/backend/internal/usecase/category"
	commentusecase "forum/backend/internal/usecase/comment"
	threadusecase "forum/backend/internal/usecase/thread"
	userusecase "forum/backend/internal/usecase/user"

	"github.com/go-chi/chi/v5"
)

// Services groups the use cases exposed over HTTP.
type Services struct {
	Auth       *authusecase.Service
	Users      *userusecase.Service
	Categories *categoryusecase.Service
	Threads    *threadusecase.Service
	Comments   *commentusecase.Service
}

// ReadinessFunc reports whether backing stores are reachable.
type ReadinessFunc func(ctx context.Context) error

// Server wraps the HTTP server lifecycle.
type Server struct {
	httpServer *http.Server
	router     chi.Router
	services   Services
	logger     *slog.Logger
	metrics    *Metrics
	limiter    *rateLimiter
	ready      ReadinessFunc
	cfg        config.Config
}

// Option customises a Server.
type Option func(*Server)

// WithMetrics records request and auth metrics into m and serves them on /metrics.
func WithMetrics(m *Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithReadiness makes /health report the result of check.
func WithReadiness(check ReadinessFunc) Option {
	return func(s *Server) { s.ready = check }
}

// NewServer constructs a new Server with configured dependencies.
func NewServer(cfg config.Config, services Services, logger *slog.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		router:   chi.NewRouter(),
		services: services,
		logger:   logger,
		cfg:      cfg,
		limiter:  newRateLimiter(cfg.AuthRateLimit),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = NewMetrics()
	}

	s.httpServer = &http.Server{
		Addr:         cfg.Addr(),
		Handler:      s.router,
		ReadTimeout:  time.Duration(cfg.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeoutSec) * time.Second,
		IdleTimeout:  time.Duration(cfg.IdleTimeoutSec) * time.Second,
	}
	s.registerRoutes()
	return s
}

// Start listens on the configured address. It returns http.ErrServerClosed
// after Shutdown.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the routed handler, middleware included.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr returns the configured network address for the HTTP server.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}
