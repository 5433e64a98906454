// Package dashboard serves the precon statistics over HTTP.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/ramonehamilton/precon-stats/internal/charts"
	"github.com/ramonehamilton/precon-stats/internal/dashboard/handlers"
	"github.com/ramonehamilton/precon-stats/internal/logging"
)

// Server represents the dashboard HTTP server.
type Server struct {
	router     *chi.Mux
	httpServer *http.Server
	listener   net.Listener
	port       int
	logger     *zap.Logger

	// Browser auto-open configuration
	openBrowser bool

	source handlers.SnapshotSource
	pages  *handlers.PageHandler

	errCh chan error
}

// Config holds configuration for the dashboard server.
type Config struct {
	Port        int
	OpenBrowser bool // Whether to open the dashboard in a browser on startup
}

// DefaultConfig returns the default server configuration.
func DefaultConfig() *Config {
	return &Config{
		Port:        8080,
		OpenBrowser: false,
	}
}

// NewServer creates a dashboard server over source.
func NewServer(cfg *Config, source handlers.SnapshotSource, logger *zap.Logger) (*Server, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logging.Component(logger, "dashboard")

	pages, err := handlers.NewPageHandler(source, logger)
	if err != nil {
		return nil, err
	}

	s := &Server{
		router:      chi.NewRouter(),
		port:        cfg.Port,
		logger:      logger,
		openBrowser: cfg.OpenBrowser,
		source:      source,
		pages:       pages,
		errCh:       make(chan error, 1),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s, nil
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(60 * time.Second))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start binds the port and serves in a goroutine. A bind failure is
// returned directly; a later serve failure is delivered on Errors.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		return fmt.Errorf("listen on port %d: %w", s.port, err)
	}
	s.listener = ln

	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		s.logger.Info("dashboard listening", zap.String("url", s.URL()))
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("dashboard server error", zap.Error(err))
			s.errCh <- err
		}
	}()

	if s.openBrowser {
		go func() {
			time.Sleep(500 * time.Millisecond)
			if err := charts.OpenInBrowser(s.URL()); err != nil {
				s.logger.Warn("failed to open browser", zap.Error(err))
			}
		}()
	}

	return nil
}

// URL returns the address the dashboard is reachable at.
func (s *Server) URL() string {
	port := s.port
	if s.listener != nil {
		if addr, ok := s.listener.Addr().(*net.TCPAddr); ok {
			port = addr.Port
		}
	}
	return fmt.Sprintf("http://localhost:%d/", port)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}

	s.logger.Info("shutting down dashboard")
	return s.httpServer.Shutdown(ctx)
}

// Errors receives the error that stopped the server, if it stops for any
// reason other than Shutdown.
func (s *Server) Errors() <-chan error {
	return s.errCh
}
