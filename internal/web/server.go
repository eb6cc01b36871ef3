// Package web serves the resolver over HTTP.
package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/ledger-resolve/internal/config"
	"github.com/ledger-resolve/internal/metrics"
	"github.com/ledger-resolve/internal/web/handlers"
	"github.com/ledger-resolve/internal/web/middleware"
)

// Server represents the web server
type Server struct {
	config     config.ServerConfig
	resolver   handlers.Resolver
	metrics    *metrics.Recorder
	logger     *zap.Logger
	httpServer *http.Server
	router     *mux.Router
}

// NewServer creates a new web server instance
func NewServer(cfg config.ServerConfig, resolver handlers.Resolver, recorder *metrics.Recorder, logger *zap.Logger) *Server {
	if recorder == nil {
		recorder = metrics.NewRecorder()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	server := &Server{
		config:   cfg,
		resolver: resolver,
		metrics:  recorder,
		logger:   logger,
	}
	server.setupRoutes()

	server.httpServer = &http.Server{
		Addr:         cfg.Addr(),
		Handler:      server.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return server
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	s.router = mux.NewRouter()

	apiHandler := &handlers.APIHandler{}
	searchHandler := &handlers.SearchHandler{Resolver: s.resolver, Metrics: s.metrics, Logger: s.logger}
	exportHandler := &handlers.ExportHandler{Search: searchHandler}

	s.router.HandleFunc("/health", apiHandler.Health).Methods("GET")
	s.router.Handle("/metrics", s.metrics.Handler()).Methods("GET")

	api := s.router.NewRoute().Subrouter()
	api.HandleFunc("/search", searchHandler.Search).Methods("GET")
	api.HandleFunc("/export", exportHandler.ExportCSV).Methods("GET")
	api.Use(middleware.Authentication(s.config.APIKey))

	s.router.Use(middleware.RequestID())
	s.router.Use(middleware.RequestLogging(s.logger))
}

// Handler returns the routed handler wrapped in CORS, which must see
// preflight requests before routing.
func (s *Server) Handler() http.Handler {
	return middleware.CORS()(s.router)
}

// Start serves until ctx is cancelled or the process receives SIGINT or
// SIGTERM, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting server", zap.String("addr", "http://"+s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}
