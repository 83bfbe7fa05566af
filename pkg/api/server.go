// Package api exposes label dilation over HTTP.
//
// Routes:
//
//	GET  /healthz     liveness probe, returns {"status":"ok","version":...}
//	POST /v1/dilate   dilate labels on a surface
//	GET  /metrics     Prometheus metrics (when enabled)
//
// The dilate endpoint accepts the JSON interchange formats of package
// surfio, embedded in one request body:
//
//	{
//	  "surface": {"vertices": [...], "triangles": [...]},
//	  "labels":  {"table": [...], "columns": [...]},
//	  "radius":  2.0,
//	  "column":  "aparc"
//	}
//
// Errors are returned as {"code": ..., "message": ..., "request_id": ...}
// with a status derived from the error code: INVALID_* maps to 400.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/surflabel/pkg/pipeline"
)

// Defaults for server limits.
const (
	DefaultMaxBodyBytes = 256 << 20
	DefaultTimeout      = 5 * time.Minute
)

// Server serves the HTTP API.
type Server struct {
	runner  *pipeline.Runner
	logger  *log.Logger
	workers int
	maxBody int64
	timeout time.Duration
	metrics http.Handler
	version string
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option { return func(s *Server) { s.logger = l } }

// WithWorkers sets per-request dilation parallelism (0 = CPU count).
func WithWorkers(n int) Option { return func(s *Server) { s.workers = n } }

// WithMaxBodyBytes limits request body size.
func WithMaxBodyBytes(n int64) Option { return func(s *Server) { s.maxBody = n } }

// WithTimeout bounds the handling time of a single request.
func WithTimeout(d time.Duration) Option { return func(s *Server) { s.timeout = d } }

// WithMetrics mounts h at /metrics.
func WithMetrics(h http.Handler) Option { return func(s *Server) { s.metrics = h } }

// WithVersion sets the version reported by /healthz.
func WithVersion(v string) Option { return func(s *Server) { s.version = v } }

// New creates a server that dilates through runner.
func New(runner *pipeline.Runner, opts ...Option) *Server {
	s := &Server{
		runner:  runner,
		logger:  log.Default(),
		maxBody: DefaultMaxBodyBytes,
		timeout: DefaultTimeout,
		version: "dev",
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/healthz", s.handleHealth)
	r.With(middleware.Timeout(s.timeout)).Post("/v1/dilate", s.handleDilate)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
