package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/nexiot/site-backend/docs"
	"github.com/nexiot/site-backend/internal/api/handler"
	"github.com/nexiot/site-backend/internal/api/middleware"
	"github.com/nexiot/site-backend/internal/core/domain"
	"github.com/nexiot/site-backend/internal/core/ports"
)

// RouterConfig carries the wired services and HTTP settings.
type RouterConfig struct {
	AuthService    ports.AuthService
	ContactService ports.ContactService
	Checks         map[string]handler.CheckFunc

	CookieName   string
	CookieSecure bool
	LoginPath    string

	// Registerer and Gatherer default to the prometheus globals.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer

	Logger zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg RouterConfig) *echo.Echo {
	if cfg.Registerer == nil {
		cfg.Registerer = prometheus.DefaultRegisterer
	}
	if cfg.Gatherer == nil {
		cfg.Gatherer = prometheus.DefaultGatherer
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(cfg.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(cfg.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "http",
		Registerer: cfg.Registerer,
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(cfg.AuthService, handler.CookieOptions{
		Name:   cfg.CookieName,
		Secure: cfg.CookieSecure,
	})
	contactHandler := handler.NewContactHandler(cfg.ContactService)
	requireAdmin := []echo.MiddlewareFunc{
		middleware.Auth(cfg.AuthService, middleware.AuthOptions{
			CookieName: cfg.CookieName,
			LoginPath:  cfg.LoginPath,
		}),
		middleware.RBAC(domain.RoleAdmin),
	}

	// --- Public routes ---
	e.POST("/contact", contactHandler.Submit)
	e.POST("/auth/login", authHandler.Login)
	e.GET("/auth/session-check", authHandler.SessionCheck)

	// --- Admin routes ---
	e.POST("/auth/logout", authHandler.Logout, requireAdmin...)
	admin := e.Group("/admin", requireAdmin...)
	admin.GET("/session", authHandler.Session)
	admin.GET("/contacts", contactHandler.List)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(cfg.Checks)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	// --- Operations ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: cfg.Gatherer,
	}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
