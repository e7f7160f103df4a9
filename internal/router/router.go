// Package router builds the echo instances of the users and flights
// services: shared middleware, health and metrics endpoints, and the
// guarded API routes.
package router

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/flight-booking-admin/internal/config"
	"github.com/iliyamo/flight-booking-admin/internal/handler"
	"github.com/iliyamo/flight-booking-admin/internal/metrics"
	"github.com/iliyamo/flight-booking-admin/internal/middleware"
)

// Base holds what both services share.  DB and Redis may be nil in tests;
// a nil Redis disables rate limiting and a nil DB drops /readyz.
type Base struct {
	Log       *slog.Logger
	Metrics   *metrics.Metrics
	DB        handler.Pinger
	Redis     *redis.Client
	RateLimit config.RateLimitConfig
}

// newEcho wires the middleware chain:
// CORS (pre-routing) -> request id -> logger -> recover -> metrics -> rate limit.
func newEcho(b Base) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = httpErrorHandler

	e.Pre(middleware.CORS())
	e.Use(echomw.RequestID())
	e.Use(middleware.InjectLogger(b.Log))
	e.Use(middleware.AccessLog(b.Log))
	e.Use(echomw.Recover())
	e.Use(b.Metrics.Middleware())
	e.Use(middleware.NewTokenBucket(b.RateLimit, b.Redis))

	RegisterRoutes(e, b)
	return e
}

// RegisterRoutes registers the unauthenticated operational endpoints.
func RegisterRoutes(e *echo.Echo, b Base) {
	e.GET("/healthz", handler.Health)
	if b.DB != nil {
		e.GET("/readyz", handler.Ready(b.DB))
	}
	e.GET("/metrics", b.Metrics.Handler())
}
