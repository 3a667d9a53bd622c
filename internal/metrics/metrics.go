// Package metrics registers the Prometheus counters the service exposes on
// /metrics.  Counters cover the contended paths: lock grants and conflicts,
// sweeper reclaims and initializer runs.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/labstack/echo/v4"
)

var (
	// LocksGranted counts successful lockSeats calls.
	LocksGranted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "seat_locks_granted_total",
		Help: "Number of successful seat lock requests.",
	})

	// LockConflicts counts lockSeats calls rejected because a requested
	// seat was locked by another owner or already booked.
	LockConflicts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "seat_lock_conflicts_total",
		Help: "Number of seat lock requests rejected due to seat state.",
	}, []string{"reason"})

	// SeatsSwept counts seats whose expired leases the sweeper reclaimed.
	SeatsSwept = promauto.NewCounter(prometheus.CounterOpts{
		Name: "seat_locks_swept_total",
		Help: "Number of expired seat locks cleared by the sweeper.",
	})

	// TripsInitialized counts trips whose seat set was fully created.
	TripsInitialized = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trip_seat_sets_initialized_total",
		Help: "Number of trips whose seat inventory was seeded.",
	})
)

// Handler exposes the default Prometheus registry as an Echo handler.
func Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.Handler())
}
