// Package api exposes the cron expression builder and the schedule store
// over HTTP for the dataset console.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/liliang-cn/datacron/api/handlers"
	"github.com/liliang-cn/datacron/pkg/config"
	"github.com/liliang-cn/datacron/pkg/cronexpr"
	"github.com/liliang-cn/datacron/pkg/log"
	"github.com/liliang-cn/datacron/pkg/schedule"
	"golang.org/x/sync/errgroup"
)

// Server represents the HTTP API server
type Server struct {
	config *Config
	echo   *echo.Echo
	server *http.Server
	logger *slog.Logger
}

// Config contains server configuration
type Config struct {
	Host         string
	Port         int
	CORSOrigins  []string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	PreviewCount int
	Version      string
}

// ConfigFrom derives the server settings from the application config.
func ConfigFrom(cfg *config.Config, version string) *Config {
	return &Config{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		CORSOrigins:  cfg.Server.CORSOrigins,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		PreviewCount: cfg.Cron.PreviewCount,
		Version:      version,
	}
}

// Deps are the services the routes call. Service and Store may be nil, in
// which case the schedule routes are not mounted.
type Deps struct {
	Catalog *cronexpr.Catalog
	Service *schedule.Service
	Store   handlers.Pinger
}

// NewServer creates a new API server instance
func NewServer(cfg *Config, deps Deps) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		config: cfg,
		echo:   e,
		logger: log.WithModule("api"),
	}

	s.setupMiddleware()
	s.setupRoutes(deps)

	s.server = &http.Server{
		Addr:         s.Addr(),
		Handler:      e,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return s
}

// Addr is the listen address.
func (s *Server) Addr() string {
	return net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.echo }

func (s *Server) setupMiddleware() {
	s.echo.Use(middleware.Recover())

	origins := s.config.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: origins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
	}))

	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"remote_ip", c.RealIP(),
			}
			if v.Error != nil {
				s.logger.Warn("request failed", append(attrs, "error", v.Error)...)
				return nil
			}
			s.logger.Debug("request", attrs...)
			return nil
		},
	}))
}

func (s *Server) setupRoutes(deps Deps) {
	health := handlers.NewHealthHandler(deps.Store, s.config.Version)
	s.echo.GET("/health", health.Handle)

	cron := handlers.NewCronHandler(deps.Catalog, s.config.PreviewCount)
	g := s.echo.Group("/api/cron")
	g.GET("/fields", cron.ListFields)
	g.GET("/fields/:name", cron.GetField)
	g.GET("/fields/:name/options", cron.FieldOptions)
	g.POST("/validate", cron.Validate)
	g.POST("/compose", cron.Compose)
	g.POST("/decompose", cron.Decompose)
	g.POST("/describe", cron.Describe)
	g.POST("/preview", cron.Preview)

	if deps.Service == nil {
		return
	}
	sch := handlers.NewScheduleHandler(deps.Service, s.config.PreviewCount)
	sg := s.echo.Group("/api/schedules")
	sg.GET("", sch.List)
	sg.POST("", sch.Create)
	sg.GET("/:id", sch.Get)
	sg.PUT("/:id", sch.Update)
	sg.DELETE("/:id", sch.Delete)
	sg.POST("/:id/enable", sch.SetEnabled(true))
	sg.POST("/:id/disable", sch.SetEnabled(false))
	sg.GET("/:id/preview", sch.Preview)
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("api server listening", "addr", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("shutting down api server")
		return s.server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
