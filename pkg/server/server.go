// Package server hosts navigation views over HTTP.
//
// A client creates a view for a container, then drives it by activating
// nodes (by child-index path) and reads back the derived breadcrumb trail
// and info summary, or the rendered sunburst and trail SVGs:
//
//	POST   /views                  {"containerId": 42}
//	GET    /views/{id}
//	POST   /views/{id}/activate    {"path": [0, 2]}
//	POST   /views/{id}/reset
//	POST   /views/{id}/up
//	GET    /views/{id}/sunburst.svg
//	GET    /views/{id}/trail.svg
//	DELETE /views/{id}
//	GET    /overview.svg
//	GET    /healthz
//
// Views live in memory and are closed after ViewTTL without requests.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/kustodian/sunburst/pkg/info"
	"github.com/kustodian/sunburst/pkg/pipeline"
)

// Config configures the server.
type Config struct {
	Addr          string
	ViewTTL       time.Duration // zero keeps views until deleted
	LookupTimeout time.Duration // per item lookup; zero means none
	Width         float64       // default render width
	Height        float64       // default render height
}

// Server serves views over HTTP.
type Server struct {
	cfg    Config
	runner *pipeline.Runner
	lookup info.ItemLookup
	logger *log.Logger
	views  *registry

	ctx    context.Context // parent of background item lookups
	cancel context.CancelFunc
}

// New creates a server. lookup may be nil, in which case summaries are
// never enriched.
func New(cfg Config, runner *pipeline.Runner, lookup info.ItemLookup, logger *log.Logger) *Server {
	if cfg.Width <= 0 {
		cfg.Width = pipeline.DefaultWidth
	}
	if cfg.Height <= 0 {
		cfg.Height = pipeline.DefaultHeight
	}
	if logger == nil {
		logger = log.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		cfg:    cfg,
		runner: runner,
		lookup: lookup,
		logger: logger,
		views:  newRegistry(cfg.ViewTTL),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/overview.svg", s.handleOverview)

	r.Route("/views", func(r chi.Router) {
		r.Post("/", s.handleCreateView)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetView)
			r.Delete("/", s.handleDeleteView)
			r.Post("/activate", s.handleActivate)
			r.Post("/reset", s.handleReset)
			r.Post("/up", s.handleUp)
			r.Get("/sunburst.svg", s.handleSunburst)
			r.Get("/trail.svg", s.handleTrail)
		})
	})
	return r
}

// Run serves on cfg.Addr until ctx is cancelled, then shuts down
// gracefully and closes every view.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.sweepLoop(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		s.Close()
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.Close()
	s.logger.Info("server stopped")
	return err
}

// Close cancels background lookups and closes all views.
func (s *Server) Close() {
	s.cancel()
	s.views.closeAll()
}

func (s *Server) sweepLoop(ctx context.Context) {
	if s.cfg.ViewTTL <= 0 {
		return
	}
	interval := max(s.cfg.ViewTTL/4, time.Second)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.views.sweep(); n > 0 {
				s.logger.Debug("expired idle views", "count", n, "remaining", s.views.len())
			}
		}
	}
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
