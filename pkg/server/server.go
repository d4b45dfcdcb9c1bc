// Package server exposes the extraction service over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/gnana997/brandkit/pkg/metrics"
	"github.com/gnana997/brandkit/pkg/service"
)

// Config configures the HTTP listener.
type Config struct {
	Addr            string        `yaml:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxBodyBytes caps POST bodies. Default: 4MB.
	MaxBodyBytes int64 `yaml:"max_body_bytes"`
}

// DefaultConfig returns the standard listener config.
func DefaultConfig() Config {
	return Config{Addr: ":3000", ShutdownTimeout: 10 * time.Second, MaxBodyBytes: 4 << 20}
}

// Server is the brandkit HTTP API.
type Server struct {
	cfg     Config
	svc     *service.Service
	metrics *metrics.Metrics
	log     *slog.Logger
	router  *chi.Mux
}

// New builds the router. m and log may be nil.
func New(cfg Config, svc *service.Service, m *metrics.Metrics, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultConfig().MaxBodyBytes
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = DefaultConfig().ShutdownTimeout
	}

	s := &Server{cfg: cfg, svc: svc, metrics: m, log: log}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", m.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(noStore)
		r.Get("/extract", s.handleExtract)
		r.Post("/assemble", s.handleAssemble)
		r.Get("/export/{format}", s.handleExport)
		r.Get("/contrast", s.handleContrast)
		r.Get("/cache", s.handleCacheStats)
		r.Delete("/cache", s.handlePurgeCache)
	})

	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves until ctx is canceled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	s.log.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}
