// Package web serves the log sheet dashboard: trip list, trip detail, the
// new-trip form and the daily log sheet, plus a JSON sheet endpoint.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/faizmokh/logsheet/internal/api"
	"github.com/faizmokh/logsheet/internal/planner"
	"github.com/faizmokh/logsheet/internal/session"
)

//go:embed templates/*.html static/*
var assets embed.FS

// Backend is the slice of the API the dashboard calls.
type Backend interface {
	session.Source
	ListTrips(ctx context.Context) ([]api.Trip, error)
	GenerateLogs(ctx context.Context, tripID string) (api.GenerateLogsResult, error)
	CalculateRoute(ctx context.Context, tripID string) (api.RouteResult, error)
	ValidateTrip(ctx context.Context, tripID string) (api.Validation, error)
}

// Planner creates trips from the new-trip form.
type Planner interface {
	Plan(ctx context.Context, req planner.Request) (api.Trip, error)
}

// Config holds the dependencies for New.
type Config struct {
	Backend Backend
	Planner Planner
	Logger  *slog.Logger
	// Addr is the listen address, e.g. 127.0.0.1:7430.
	Addr string
}

// Server holds the Gin engine and dependencies for the web dashboard.
type Server struct {
	engine  *gin.Engine
	backend Backend
	planner Planner
	logger  *slog.Logger
	addr    string

	mu       sync.Mutex
	inflight map[string]struct{}
}

// New builds the dashboard server.
func New(cfg Config) (*Server, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	tmpl, err := template.New("").Funcs(templateFuncs).ParseFS(assets, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	if gin.Mode() == gin.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery(), requestID(), accessLog(logger))
	engine.SetHTMLTemplate(tmpl)

	s := &Server{
		engine:   engine,
		backend:  cfg.Backend,
		planner:  cfg.Planner,
		logger:   logger,
		addr:     cfg.Addr,
		inflight: make(map[string]struct{}),
	}
	if err := s.setupRoutes(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Server) setupRoutes() error {
	static, err := fs.Sub(assets, "static")
	if err != nil {
		return fmt.Errorf("static assets: %w", err)
	}
	s.engine.StaticFS("/static", http.FS(static))

	s.engine.GET("/healthz", s.health)
	s.engine.GET("/", s.listTrips)
	s.engine.GET("/trips/new", s.newTripForm)
	s.engine.POST("/trips", s.createTrip)
	s.engine.GET("/trips/:id", s.showTrip)
	s.engine.GET("/trips/:id/logs", s.showLogs)
	s.engine.POST("/trips/:id/generate-logs", s.generateLogs)
	s.engine.POST("/trips/:id/calculate-route", s.calculateRoute)
	s.engine.GET("/api/trips/:id/sheet", s.sheetJSON)
	return nil
}

// Handler exposes the engine for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("dashboard listening", "addr", s.addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}

// begin marks a generate-logs request as running; false means one already is.
func (s *Server) begin(tripID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inflight[tripID]; busy {
		return false
	}
	s.inflight[tripID] = struct{}{}
	return true
}

func (s *Server) end(tripID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, tripID)
}
