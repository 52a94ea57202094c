package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/jfoltran/colorserve/internal/appconfig"
	"github.com/jfoltran/colorserve/internal/colors"
	"github.com/jfoltran/colorserve/internal/metrics"
)

const shutdownTimeout = 5 * time.Second

// Server is the HTTP server that serves the colors API, the push endpoint,
// and the embedded frontend.
type Server struct {
	cfg       appconfig.Config
	source    *colors.Source
	collector *metrics.Collector
	logger    zerolog.Logger
	frontend  fs.FS
}

// New creates a new Server.
func New(cfg appconfig.Config, source *colors.Source, collector *metrics.Collector, logger zerolog.Logger) *Server {
	return &Server{
		cfg:       cfg,
		source:    source,
		collector: collector,
		logger:    logger.With().Str("component", "http-server").Logger(),
	}
}

// Handler builds the routed handler with all middleware applied.
func (s *Server) Handler() (http.Handler, error) {
	frontend := s.frontend
	if frontend == nil {
		sub, err := fs.Sub(distFS, "dist")
		if err != nil {
			return nil, fmt.Errorf("embed fs: %w", err)
		}
		frontend = sub
	}

	h := &handlers{
		source:    s.source,
		app:       s.cfg.App,
		collector: s.collector,
		logger:    s.logger,
	}
	watcher := newColorsWatcher(s.source, s.collector, s.cfg.Colors.WatchInterval.Duration, s.logger)

	var api []middleware
	if s.cfg.RateLimit.Enabled() {
		api = append(api, rateLimit(s.cfg.RateLimit, s.collector, s.logger))
	}
	route := func(fn http.HandlerFunc) http.Handler {
		return chain(fn, api...)
	}

	mux := http.NewServeMux()

	// API routes. /api/colors accepts any method and is never rate limited:
	// it answers with the document or the data-unavailable error only.
	mux.HandleFunc("/api/colors", h.colors)
	mux.Handle("/api/colors/ws", route(watcher.handleWS))
	mux.Handle("GET /api/config", route(h.configHandler))
	mux.Handle("GET /api/status", route(h.status))
	mux.Handle("GET /api/logs", route(h.logs))
	mux.Handle("/api/", route(h.notFound))

	// Serve embedded frontend.
	mux.Handle("/", spaHandler(frontend))

	return chain(mux, requestLog(s.collector, s.logger), securityHeaders), nil
}

// Start begins serving on the configured address. It blocks until the
// context is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	handler, err := s.Handler()
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", s.cfg.Addr())
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr(), err)
	}
	return s.Serve(ctx, ln, handler)
}

// Serve runs the server on an existing listener until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener, handler http.Handler) error {
	srv := &http.Server{
		Handler:      handler,
		ReadTimeout:  s.cfg.Server.ReadTimeout.Duration,
		WriteTimeout: s.cfg.Server.WriteTimeout.Duration,
		IdleTimeout:  s.cfg.Server.IdleTimeout.Duration,
		BaseContext: func(l net.Listener) context.Context {
			return ctx
		},
	}

	s.logger.Info().
		Str("addr", ln.Addr().String()).
		Str("colors", s.source.Path()).
		Msg("starting HTTP server")

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info().Msg("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return srv.Close()
		}
		return nil
	case err := <-errCh:
		return err
	}
}
