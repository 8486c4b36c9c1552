package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/autostock/dealership-api/docs"
	"github.com/autostock/dealership-api/internal/api/handler"
	"github.com/autostock/dealership-api/internal/api/middleware"
	"github.com/autostock/dealership-api/internal/core/domain"
	"github.com/autostock/dealership-api/internal/core/ports"
)

// RouterDeps carries everything NewRouter wires into the Echo instance.
type RouterDeps struct {
	Auth      ports.AuthService
	Contracts ports.ContractService

	// LoginLimiter throttles POST /auth/login per client IP. Nil disables it.
	LoginLimiter    middleware.RateLimiter
	LoginRateLimit  int
	LoginRateWindow time.Duration

	// TrustProxy honours X-Forwarded-For from private-network peers. When
	// false the client IP is always the TCP peer address.
	TrustProxy bool

	MaxUploadBytes int64
	HealthChecks   map[string]handler.HealthCheck
	Log            zerolog.Logger

	// Registerer and Gatherer default to the global Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps RouterDeps) *echo.Echo {
	if deps.Registerer == nil {
		deps.Registerer = prometheus.DefaultRegisterer
	}
	if deps.Gatherer == nil {
		deps.Gatherer = prometheus.DefaultGatherer
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)
	e.Validator = handler.NewValidator()
	if deps.TrustProxy {
		e.IPExtractor = echo.ExtractIPFromXFFHeader()
	} else {
		e.IPExtractor = echo.ExtractIPDirect()
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.ClientIP())
	e.Use(middleware.RequestLogger(deps.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "dealership",
		Subsystem:  "http",
		Registerer: deps.Registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	contractHandler := handler.NewContractHandler(deps.Contracts, deps.MaxUploadBytes)
	healthHandler := handler.NewHealthHandler(deps.HealthChecks)
	authMiddleware := middleware.Auth(deps.Auth)

	// --- Auth routes ---
	var loginMiddleware []echo.MiddlewareFunc
	if deps.LoginLimiter != nil {
		loginMiddleware = append(loginMiddleware,
			middleware.RateLimit(deps.LoginLimiter, deps.LoginRateLimit, deps.LoginRateWindow, deps.Log))
	}
	e.POST("/auth/login", authHandler.Login, loginMiddleware...)
	e.POST("/auth/validate", authHandler.Validate)
	e.GET("/auth/me", authHandler.Me, authMiddleware)
	e.POST("/auth/register", authHandler.Register, authMiddleware, middleware.RBAC(domain.RoleAdmin))

	// --- Contract routes (any authenticated role) ---
	contracts := e.Group("/v1/contracts", authMiddleware)
	contracts.POST("", contractHandler.Upload)
	contracts.GET("", contractHandler.List)
	contracts.GET("/:id", contractHandler.Get)
	contracts.GET("/:id/file", contractHandler.Download)
	contracts.GET("/:id/verify", contractHandler.Verify)
	contracts.DELETE("/:id", contractHandler.Delete, middleware.RBAC(domain.RoleAdmin, domain.RoleManager))

	// --- Health checks (no auth required) ---
	e.GET("/health", healthHandler.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", healthHandler.Readiness) // readiness – are dependencies up?

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: deps.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
