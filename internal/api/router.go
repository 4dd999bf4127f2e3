package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/schoolhub/school-api/internal/api/handler"
	"github.com/schoolhub/school-api/internal/api/middleware"
	"github.com/schoolhub/school-api/internal/core/ports"
	"github.com/schoolhub/school-api/internal/infrastructure/http/handlers"

	_ "github.com/schoolhub/school-api/docs"
)

const bodyLimit = "1M"

// Deps carries everything the router wires into routes.
type Deps struct {
	Auth      ports.AuthService
	Gate      middleware.Authorizer
	Resources []Resource
	Probes    []handlers.Probe
	Log       zerolog.Logger

	// CORSOrigins lists the browser origins allowed to call the API. Empty
	// disables CORS headers.
	CORSOrigins []string

	// Metrics receives the HTTP metrics and backs GET /metrics. Nil means
	// the default Prometheus registry.
	Metrics *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))
	if len(deps.CORSOrigins) > 0 {
		e.Use(cors(deps.CORSOrigins))
	}
	e.Use(echomiddleware.BodyLimit(bodyLimit))
	e.Use(metricsMiddleware(deps.Metrics))

	// --- Public routes ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(deps.Probes...)

	e.GET("/health", healthHandler.Liveness)            // liveness
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness
	e.GET("/metrics", metricsHandler(deps.Metrics))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	authHandler := handler.NewAuthHandler(deps.Auth)
	e.POST("/register", authHandler.Register)
	e.POST("/login", authHandler.Login)

	// --- Protected routes: every one passes the gate ---
	gate := middleware.Gate(deps.Gate, RoutePolicies(), deps.Log)

	e.POST("/logout", authHandler.Logout, gate)
	e.GET("/me", authHandler.Me, gate)

	for _, r := range deps.Resources {
		collection, item := "/"+r.Name, "/"+r.Name+"/:id"

		e.GET(collection, r.Handler.List, gate)
		e.GET(item, r.Handler.Get, gate)
		if !r.NoCreate {
			e.POST(collection, r.Handler.Create, gate)
		}
		e.PUT(item, r.Handler.Update, gate)
		e.PATCH(item, r.Handler.Update, gate)
		e.DELETE(item, r.Handler.Delete, gate)
	}

	return e
}

func cors(origins []string) echo.MiddlewareFunc {
	return echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: origins,
		AllowMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType},
	})
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURIPath:   true,
		LogRoutePath: true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			switch {
			case v.Status >= http.StatusInternalServerError:
				ev = log.Error().Err(v.Error)
			case v.Status >= http.StatusBadRequest:
				ev = log.Warn()
			}
			ev.Str("method", v.Method).
				Str("path", v.URIPath).
				Str("route", v.RoutePath).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}

func metricsMiddleware(reg *prometheus.Registry) echo.MiddlewareFunc {
	cfg := echoprometheus.MiddlewareConfig{
		Subsystem: "school",
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}
	if reg != nil {
		cfg.Registerer = reg
	}
	return echoprometheus.NewMiddlewareWithConfig(cfg)
}

func metricsHandler(reg *prometheus.Registry) echo.HandlerFunc {
	if reg == nil {
		return echoprometheus.NewHandler()
	}
	return echo.WrapHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
}
