// Package server implements the sankeyflow render service.
//
// The service accepts chart documents (JSON or HuJSON) and energy summaries
// (TOML) over HTTP, lays them out with the shared pipeline and answers with
// the rendered artifact. Charts can also be stored and rendered later by id.
//
// # Routes
//
//	POST /api/v1/render                       render a chart in the request body
//	POST /api/v1/charts                       store a chart, returns its id
//	GET  /api/v1/charts/{id}                  stored chart record
//	GET  /api/v1/charts/{id}/render.{format}  render a stored chart
//	GET  /charts/{id}                         HTML preview page
//	GET  /healthz                             liveness
//	GET  /metrics                             Prometheus metrics
package server

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/sankeyflow/pkg/pipeline"
	"github.com/matzehuels/sankeyflow/pkg/store"
)

const (
	defaultMaxBodyBytes = 1 << 20
	shutdownTimeout     = 10 * time.Second
	renderTimeout       = 30 * time.Second
)

// Server serves the render API.
type Server struct {
	runner   *pipeline.Runner
	store    store.Store
	logger   *log.Logger
	gatherer prometheus.Gatherer
	maxBody  int64
	timeout  time.Duration
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithGatherer sets the registry served on /metrics. Defaults to the
// Prometheus default gatherer.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) { s.gatherer = g }
}

// WithMaxBodyBytes limits request bodies.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) { s.maxBody = n }
}

// WithRenderTimeout bounds a single render.
func WithRenderTimeout(d time.Duration) Option {
	return func(s *Server) { s.timeout = d }
}

// New creates a server rendering with runner and storing charts in st.
func New(runner *pipeline.Runner, st store.Store, opts ...Option) *Server {
	s := &Server{
		runner:   runner,
		store:    st,
		logger:   log.NewWithOptions(io.Discard, log.Options{}),
		gatherer: prometheus.DefaultGatherer,
		maxBody:  defaultMaxBodyBytes,
		timeout:  renderTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the HTTP handler with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	// Inline middleware runs after routing, so observe sees the full pattern.
	r.Group(func(r chi.Router) {
		r.Use(s.observe)

		r.Post("/api/v1/render", s.handleRender)
		r.Post("/api/v1/charts", s.handleCreateChart)
		r.Get("/api/v1/charts/{id}", s.handleGetChart)
		r.Get("/api/v1/charts/{id}/render.{format}", s.handleRenderChart)

		r.Get("/charts/{id}", s.handlePreview)
		r.Get("/healthz", s.handleHealth)
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	})

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

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
