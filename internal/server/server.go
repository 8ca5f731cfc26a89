package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/solofarma/alerts/internal/models"
)

// Evaluator runs one alert evaluation pass.
type Evaluator interface {
	Run(ctx context.Context) (*models.Report, error)
}

// AlertStore is the persistence surface the transport layer needs: the
// single-row toggle plus a liveness probe.
type AlertStore interface {
	SetAlertState(ctx context.Context, userID, productID int64, active bool, armedPrice string) (*models.Alert, error)
	Ping(ctx context.Context) error
}

// Server is the HTTP boundary: it exposes the evaluation trigger, the alert
// toggle and the health/metrics endpoints.
type Server struct {
	log       *slog.Logger
	evaluator Evaluator
	store     AlertStore
	srv       *http.Server
}

// New creates a Server listening on addr.
func New(log *slog.Logger, addr string, evaluator Evaluator, store AlertStore) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{log: log, evaluator: evaluator, store: store}
	s.registerRoutes(engine)

	s.srv = &http.Server{
		Addr:              addr,
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s
}

// registerRoutes configures all HTTP routes.
func (s *Server) registerRoutes(engine *gin.Engine) {
	engine.GET("/healthz", s.healthHandler)
	engine.GET("/readyz", s.readyHandler)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := engine.Group("/api")
	api.POST("/alerts/run", s.runHandler)
	api.POST("/alerts", s.toggleHandler)
}

// Handler exposes the underlying handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Start begins serving HTTP requests and blocks until shutdown.
func (s *Server) Start() error {
	s.log.Info("HTTP server is starting...", "addr", s.srv.Addr)
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server failed: %w", err)
	}

	return nil
}

// Stop gracefully shuts the HTTP server down.
func (s *Server) Stop(ctx context.Context) error {
	s.log.Info("HTTP server is stopping...")
	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("http server shutdown failed: %w", err)
	}

	return nil
}
