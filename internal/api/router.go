package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/solx/solx-api/docs"
	"github.com/solx/solx-api/internal/api/handler"
	"github.com/solx/solx-api/internal/api/middleware"
	"github.com/solx/solx-api/internal/core/ports"
)

// Deps is everything the HTTP layer needs from the rest of the process.
type Deps struct {
	Log         zerolog.Logger
	CORSOrigins []string

	Tokens   ports.TokenVerifier
	Auth     ports.AuthService
	Access   ports.AccessRequestService
	Projects ports.ProjectService

	// Health maps a dependency name to its readiness probe.
	Health map[string]handler.Pinger

	// Registerer and Gatherer default to the global Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	registerer, gatherer := d.Registerer, d.Gatherer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "solx",
		Subsystem:  "http",
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(echomiddleware.RecoverWithConfig(echomiddleware.RecoverConfig{
		DisableErrorHandler: true,
	}))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: d.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType},
	}))
	e.Use(echomiddleware.BodyLimit("1M"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.Auth, d.Access)
	projectHandler := handler.NewProjectHandler(d.Projects)
	healthHandler := handler.NewHealthHandler(d.Health)

	// Auth is attached per route so unknown paths still fall through to
	// the "Route not found" handler instead of the gate.
	requireAuth := middleware.Auth(d.Tokens, d.Log)

	// --- Operational endpoints (no auth) ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")
	api.GET("/health", healthHandler.APIHealth)

	// --- Auth routes ---
	auth := api.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/request-access", authHandler.RequestAccess)
	auth.GET("/verify", authHandler.Verify, requireAuth)
	auth.GET("/profile", authHandler.Profile, requireAuth)
	auth.PUT("/profile", authHandler.UpdateProfile, requireAuth)

	// --- Project routes ---
	projects := api.Group("/projects")
	projects.GET("", projectHandler.List, requireAuth)
	projects.GET("/:id", projectHandler.Get, requireAuth)
	projects.POST("", projectHandler.Create, requireAuth, middleware.RequireProjectManager)
	projects.PUT("/:id", projectHandler.Update, requireAuth, middleware.RequireProjectManager)
	projects.DELETE("/:id", projectHandler.Delete, requireAuth, middleware.RequireAdmin)
	// Without this a trailing :id swallows the rest of the path ("a/b").
	projects.RouteNotFound("/:id/*", echo.NotFoundHandler)

	return e
}
