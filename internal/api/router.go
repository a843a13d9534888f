package api

import (
	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/taskserver/task-api/docs"
	"github.com/taskserver/task-api/internal/api/handler"
	"github.com/taskserver/task-api/internal/api/middleware"
	"github.com/taskserver/task-api/internal/core/ports"
)

// Deps carries everything the router needs to register its routes.
type Deps struct {
	Auth     ports.AuthService
	Tasks    ports.TaskService
	Activity ports.ActivityService

	// Checks are run by GET /health/ready, keyed by dependency name.
	Checks map[string]handler.Check

	// StatusRouteRequiresAuth guards PATCH /tasks/:id/status with the token check.
	StatusRouteRequiresAuth bool

	// Registerer receives the HTTP request metrics and Gatherer feeds
	// /metrics. Both default to the global Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer

	Logger zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	registerer := d.Registerer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	gatherer := d.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLogger(d.Logger))
	e.Use(echomiddleware.CORS())
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "taskapi",
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	authHandler := handler.NewAuthHandler(d.Auth)
	taskHandler := handler.NewTaskHandler(d.Tasks)
	activityHandler := handler.NewActivityHandler(d.Activity)
	requireAuth := middleware.Auth(d.Auth)

	// --- Public routes ---
	e.GET("/", handler.Banner)
	e.POST("/signup", authHandler.Signup)
	e.POST("/login", authHandler.Login)

	// --- Task routes ---
	e.GET("/alltask", taskHandler.List, requireAuth)
	e.POST("/task", taskHandler.Create, requireAuth)
	e.POST("/alltask", taskHandler.Create, requireAuth)
	e.DELETE("/alltask/:id", taskHandler.Delete, requireAuth)
	e.GET("/tasks/:id", taskHandler.Get, requireAuth)
	e.GET("/tasks/:id/activity", activityHandler.History, requireAuth)

	if d.StatusRouteRequiresAuth {
		e.PATCH("/tasks/:id/status", taskHandler.Complete, requireAuth)
	} else {
		e.PATCH("/tasks/:id/status", taskHandler.Complete)
	}

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.Checks)

	e.GET("/health", healthHandler.Liveness)            // liveness: is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness: are dependencies up?

	// --- Operations ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
