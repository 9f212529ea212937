// Package site serves the citations page and a small JSON API over a
// publication catalog.
package site

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/folio-cv/folio/internal/citation"
	"github.com/folio-cv/folio/internal/observability"
	"github.com/folio-cv/folio/internal/publication"
)

// Catalog is the read side of a publication store. storage.DB satisfies it.
type Catalog interface {
	// ListAll returns publications newest first; limit <= 0 means all.
	ListAll(limit int) ([]publication.Publication, error)
	// GetByID returns nil, nil when the publication does not exist.
	GetByID(id string) (*publication.Publication, error)
}

// SliceCatalog is an in-memory Catalog.
type SliceCatalog []publication.Publication

// ListAll returns the slice, truncated to limit when positive.
func (c SliceCatalog) ListAll(limit int) ([]publication.Publication, error) {
	if limit > 0 && limit < len(c) {
		return c[:limit], nil
	}
	return c, nil
}

// GetByID finds a publication by ID.
func (c SliceCatalog) GetByID(id string) (*publication.Publication, error) {
	for i := range c {
		if c[i].ID == id {
			p := c[i]
			return &p, nil
		}
	}
	return nil, nil
}

// Config holds HTTP server configuration.
type Config struct {
	Address         string
	Title           string
	Owner           string
	DefaultStyle    citation.Style
	RateLimit       float64 // requests per second, 0 disables
	Burst           int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Server is the citations HTTP server.
type Server struct {
	cfg        Config
	catalog    Catalog
	router     chi.Router
	httpServer *http.Server
	registry   *prometheus.Registry
	metrics    *observability.Metrics
	limiter    *rate.Limiter
	logger     zerolog.Logger
}

// NewServer creates a server over catalog. Metrics are registered on a
// registry owned by the server and exposed at /metrics.
func NewServer(cfg Config, catalog Catalog, logger zerolog.Logger) *Server {
	if cfg.DefaultStyle == "" {
		cfg.DefaultStyle = citation.StyleAPA
	}
	if cfg.Title == "" {
		cfg.Title = "Publications"
	}

	reg := prometheus.NewRegistry()
	s := &Server{
		cfg:      cfg,
		catalog:  catalog,
		registry: reg,
		metrics:  observability.NewMetrics(reg),
		logger:   logger.With().Str("component", "site").Logger(),
	}
	if cfg.RateLimit > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.Burst)
	}

	s.router = s.buildRouter()
	s.httpServer = &http.Server{
		Addr:         cfg.Address,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Metrics exposes the server's metrics.
func (s *Server) Metrics() *observability.Metrics {
	return s.metrics
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.healthHandler)
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	r.Group(func(r chi.Router) {
		r.Use(s.rateLimit)

		r.Get("/", s.pageHandler)
		r.Route("/api", func(r chi.Router) {
			r.Get("/styles", s.listStyles)
			r.Get("/details", s.decomposeDetails)
			r.Get("/publications", s.listPublications)
			r.Route("/publications/{id}", func(r chi.Router) {
				r.Get("/", s.getPublication)
				r.Get("/citation", s.getCitation)
				r.Get("/citations", s.getAllCitations)
				r.Get("/bibtex", s.getBibTeX)
			})
		})
	})

	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listen on HTTP address: %w", err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.logger.Info().Str("address", ln.Addr().String()).Msg("HTTP server starting")

	errc := make(chan error, 1)
	go func() {
		errc <- s.httpServer.Serve(ln)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.logger.Info().Msg("HTTP server shutting down")
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}
