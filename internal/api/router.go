package api

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.opentelemetry.io/otel"

	_ "github.com/usermgmt/user-service/docs"
	"github.com/usermgmt/user-service/internal/api/handler"
	"github.com/usermgmt/user-service/internal/api/middleware"
)

const bodyLimit = "1M"

// Handlers groups everything the router dispatches to.
type Handlers struct {
	Roles     *handler.RoleHandler
	Users     *handler.UserHandler
	Health    *handler.HealthHandler
	Readiness *handler.ReadinessHandler
}

// RouterOptions tunes the cross-cutting parts of the router.
type RouterOptions struct {
	// Registerer and Gatherer back the HTTP metrics. Nil selects the
	// Prometheus default registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
	// Tracing starts a span per request on the global tracer provider.
	Tracing     bool
	ServiceName string
	// Debug exposes Echo's debug mode.
	Debug bool
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(h Handlers, log zerolog.Logger, opts RouterOptions) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Debug = opts.Debug
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(echomiddleware.CORS())
	e.Use(echomiddleware.BodyLimit(bodyLimit))
	if opts.Tracing {
		e.Use(tracingMiddleware(opts.ServiceName))
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "http",
		Registerer: opts.Registerer,
	}))
	e.Use(middleware.RequestLogger(log))

	// --- Operational endpoints ---
	e.GET("/health", h.Health.Liveness)
	if h.Readiness != nil {
		e.GET("/health/ready", h.Readiness.Readiness)
	}
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: opts.Gatherer,
	}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Roles ---
	roles := e.Group("/api/roles")
	roles.POST("", h.Roles.Create)
	roles.GET("", h.Roles.List)
	roles.GET("/:id", h.Roles.Get)
	roles.PUT("/:id", h.Roles.Update)
	roles.DELETE("/:id", h.Roles.Delete)

	// --- Users ---
	// Static segments win over :id in Echo's router, so /activate and
	// /username/:username never reach the id handlers.
	users := e.Group("/api/users")
	users.POST("", h.Users.Create)
	users.POST("/activate", h.Users.Activate)
	users.GET("", h.Users.List)
	users.GET("/username/:username", h.Users.GetByUsername)
	users.GET("/:id", h.Users.Get)
	users.PUT("/:id", h.Users.Update)
	users.DELETE("/:id", h.Users.Delete)

	return e
}

func tracingMiddleware(serviceName string) echo.MiddlewareFunc {
	tracer := otel.Tracer(serviceName)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx, span := tracer.Start(c.Request().Context(), fmt.Sprintf("[%s] %s", c.Request().Method, c.Path()))
			defer span.End()

			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}
