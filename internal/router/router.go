package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/bus-seat-inventory/internal/config"
	"github.com/iliyamo/bus-seat-inventory/internal/handler"
	"github.com/iliyamo/bus-seat-inventory/internal/metrics"
	"github.com/iliyamo/bus-seat-inventory/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance: the health check used by load balancers and the
// Prometheus metrics endpoint.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", metrics.Handler())
}

// RegisterSeats registers the seat-inventory endpoints.
//
// The availability matrix is public and read-only; it sits behind the
// short-TTL response cache since it is allowed to be momentarily stale.
// The lock endpoint requires a valid access token and is rate limited per
// user, and lives under /v1 like every mutating route.
func RegisterSeats(e *echo.Echo, lockH *handler.SeatLockHandler, availH *handler.AvailabilityHandler,
	jwtSecret string, rdb *redis.Client, cacheCfg config.CacheConfig, rlCfg config.RateLimitConfig) {

	// Publicly view seat availability for a trip.  Seat status is derived per
	// row; values can be AVAILABLE, LOCKED or BOOKED.
	e.GET("/v1/trips/:id/seats", availH.GetTripSeats,
		middleware.NewSeatMatrixCache(cacheCfg, rdb))

	// Protected group: every handler here runs after JWT validation.
	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.NewFixedWindowLimiter(rlCfg, rdb))
	auth.POST("/trips/:id/seats/lock", lockH.LockSeats)
}
