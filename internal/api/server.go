package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	mw "github.com/weathercloset/weathercloset/internal/api/middleware"
	"github.com/weathercloset/weathercloset/internal/closet"
	"github.com/weathercloset/weathercloset/internal/conf"
	"github.com/weathercloset/weathercloset/internal/datastore"
	wcerrors "github.com/weathercloset/weathercloset/internal/errors"
	"github.com/weathercloset/weathercloset/internal/logger"
	"github.com/weathercloset/weathercloset/internal/observability"
	"github.com/weathercloset/weathercloset/internal/security"
)

// HealthChecker reports whether a backing service is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Server is the Weather Closet HTTP server.
type Server struct {
	echo     *echo.Echo
	config   *Config
	settings *conf.Settings

	// Dependencies
	users   datastore.UserRepository
	tokens  *security.TokenService
	closet  *closet.Service
	metrics *observability.Metrics
	health  HealthChecker

	staticServer *StaticFileServer

	startTime time.Time
}

// ServerOption is a functional option for configuring the Server.
type ServerOption func(*Server)

// WithUsers sets the account repository.
func WithUsers(users datastore.UserRepository) ServerOption {
	return func(s *Server) {
		s.users = users
	}
}

// WithTokens sets the access token service.
func WithTokens(tokens *security.TokenService) ServerOption {
	return func(s *Server) {
		s.tokens = tokens
	}
}

// WithCloset sets the closet service.
func WithCloset(svc *closet.Service) ServerOption {
	return func(s *Server) {
		s.closet = svc
	}
}

// WithMetrics sets the Prometheus metrics.
func WithMetrics(m *observability.Metrics) ServerOption {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithHealthChecker sets the dependency probed by /healthz.
func WithHealthChecker(h HealthChecker) ServerOption {
	return func(s *Server) {
		s.health = h
	}
}

// New creates a new HTTP server with the given settings and options.
func New(settings *conf.Settings, opts ...ServerOption) (*Server, error) {
	config := ConfigFromSettings(settings)
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid server configuration: %w", err)
	}

	s := &Server{
		config:    config,
		settings:  settings,
		startTime: time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.users == nil || s.tokens == nil || s.closet == nil {
		return nil, wcerrors.Newf("api server requires users, tokens and closet").
			Component("api").
			Category(wcerrors.CategoryConfiguration).
			Build()
	}

	s.echo = echo.New()
	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.Debug = config.Debug
	s.echo.HTTPErrorHandler = s.errorHandler

	s.echo.Server.ReadTimeout = config.ReadTimeout
	s.echo.Server.WriteTimeout = config.WriteTimeout
	s.echo.Server.IdleTimeout = config.IdleTimeout

	renderer, err := newTemplateRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}
	s.echo.Renderer = renderer

	s.setupMiddleware()
	s.setupRoutes()

	GetLogger().Info("HTTP server initialized",
		logger.String("address", config.Address()),
		logger.Bool("metrics", s.metricsEnabled()),
		logger.Bool("debug", config.Debug))

	return s, nil
}

func (s *Server) metricsEnabled() bool {
	return s.config.MetricsEnabled && s.metrics != nil
}

// setupMiddleware configures the Echo middleware stack.
func (s *Server) setupMiddleware() {
	s.echo.Use(echomw.Recover())
	s.echo.Use(mw.NewRequestID())
	s.echo.Use(mw.NewRequestLoggerWithSkipper(logger.Global().Module("access"), mw.SkipPaths("/healthz", "/metrics")))
	if s.metricsEnabled() {
		s.echo.Use(mw.NewHTTPMetrics(s.metrics.HTTP))
	}

	s.echo.Use(mw.NewCORS(s.settings.WebServer))
	s.echo.Use(mw.NewBodyLimit(s.settings.WebServer))
	s.echo.Use(mw.NewSecureHeaders(s.settings.WebServer))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.echo.GET("/healthz", s.healthCheck)
	if s.metricsEnabled() {
		s.echo.GET("/metrics", echo.WrapHandler(s.metrics.Handler()))
	}

	s.echo.POST("/signup", s.Signup)
	s.echo.POST("/login", s.Login)

	// Auth is attached per route; a root group would also guard unmatched paths.
	s.echo.POST("/closet/upload", s.UploadItem, s.AuthMiddleware)
	s.echo.GET("/closet", s.ListItems, s.AuthMiddleware)
	s.echo.DELETE("/closet/:id", s.DeleteItem, s.AuthMiddleware)
	s.echo.GET("/recommend/:city", s.Recommend, s.AuthMiddleware)

	s.registerPageRoutes()

	s.staticServer = NewStaticFileServer(s.config.StaticDir, s.config.ImageDir)
	s.staticServer.RegisterRoutes(s.echo)
}

// healthCheck reports uptime and database reachability.
func (s *Server) healthCheck(c echo.Context) error {
	uptime := time.Since(s.startTime)
	status, code := "healthy", http.StatusOK
	database := "ok"

	if s.health != nil {
		if err := s.health.Ping(c.Request().Context()); err != nil {
			GetLogger().Warn("health check failed", logger.Error(err))
			status, code, database = "unhealthy", http.StatusServiceUnavailable, "unreachable"
		}
	}

	return c.JSON(code, map[string]any{
		"status":         status,
		"database":       database,
		"uptime":         uptime.String(),
		"uptime_seconds": uptime.Seconds(),
		"timestamp":      time.Now().Format(time.RFC3339),
	})
}

// Run serves HTTP requests until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.startBlocking()
	}()
	GetLogger().Info("HTTP server starting", logger.String("address", s.config.Address()))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		GetLogger().Info("shutdown signal received, initiating graceful shutdown")
		if err := s.Shutdown(); err != nil {
			return err
		}
		return <-errCh
	}
}

// startBlocking serves HTTP requests and blocks until the server is shut down.
func (s *Server) startBlocking() error {
	err := s.echo.Start(s.config.Address())
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	if err := s.echo.Shutdown(ctx); err != nil {
		GetLogger().Error("error during server shutdown", logger.Error(err))
		return fmt.Errorf("shutdown error: %w", err)
	}

	GetLogger().Info("server shutdown complete")
	return nil
}

// Echo returns the underlying Echo instance.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}
