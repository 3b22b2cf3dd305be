package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/cagataysunal/payroll-manager/docs"
	"github.com/cagataysunal/payroll-manager/internal/api/handler"
	"github.com/cagataysunal/payroll-manager/internal/api/metrics"
	"github.com/cagataysunal/payroll-manager/internal/api/middleware"
	"github.com/cagataysunal/payroll-manager/internal/core/domain"
	"github.com/cagataysunal/payroll-manager/internal/core/ports"
	"github.com/cagataysunal/payroll-manager/internal/infrastructure/http/handlers"
)

// Dependencies are the collaborators the router wires into its handlers.
type Dependencies struct {
	AuthService     ports.AuthService
	EmployeeService ports.EmployeeService
	// Health lists the stores probed by /health/ready, keyed by name.
	Health map[string]handlers.Pinger
	// Idempotency is optional. Without it POST /employee ignores Idempotency-Key.
	Idempotency middleware.IdempotencyStore
	Logger      zerolog.Logger
	// Registerer and Gatherer default to the prometheus default registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	if deps.Registerer == nil {
		deps.Registerer = prometheus.DefaultRegisterer
	}
	if deps.Gatherer == nil {
		deps.Gatherer = prometheus.DefaultGatherer
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  metrics.Namespace,
		Registerer: deps.Registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Operational routes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(deps.Health)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – can we reach the store?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: deps.Gatherer,
	}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(deps.AuthService)
	e.POST("/token", authHandler.Token)

	// --- Employee routes ---
	employeeHandler := handler.NewEmployeeHandler(deps.EmployeeService)
	authed := middleware.Auth(deps.AuthService)
	manage := middleware.RBAC(deps.AuthService, domain.ManageEmployees...)
	remove := middleware.RBAC(deps.AuthService, domain.RemoveEmployees...)

	createChain := []echo.MiddlewareFunc{authed, manage}
	if deps.Idempotency != nil {
		createChain = append(createChain, middleware.Idempotency(deps.Idempotency, deps.Logger))
	}

	e.GET("/employees", employeeHandler.List, authed)
	e.GET("/employee/:id", employeeHandler.Get, authed)
	e.POST("/employee", employeeHandler.Create, createChain...)
	e.PUT("/employee/:id", employeeHandler.Replace, authed, manage)
	e.PATCH("/employee/:id", employeeHandler.Update, authed, manage)
	e.DELETE("/employee/:id", employeeHandler.Delete, authed, remove)

	return e
}

// requestLogger writes one structured line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			event := log.Info()
			if v.Error != nil {
				event = log.Warn().Err(v.Error)
			}
			event.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
