package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bus-seat-inventory/internal/repository"
	"github.com/iliyamo/bus-seat-inventory/internal/service"
)

// AvailabilityHandler serves the read-only seat matrix.  It never takes row
// locks and never influences a grant decision; it exists purely so clients
// can render the bus layout with current seat status.
type AvailabilityHandler struct {
	TripRepo *repository.TripRepo
	SeatRepo *repository.SeatRepo

	SeatsPerRow int // columns in the layout
	DefaultRows int // rows assumed when the catalog gives no seat count
}

// NewAvailabilityHandler constructs an AvailabilityHandler.  Both
// repositories must be non-nil.
func NewAvailabilityHandler(tripRepo *repository.TripRepo, seatRepo *repository.SeatRepo, seatsPerRow, defaultRows int) *AvailabilityHandler {
	if tripRepo == nil || seatRepo == nil {
		panic("nil repository passed to NewAvailabilityHandler")
	}
	if seatsPerRow < 1 {
		seatsPerRow = 4
	}
	if defaultRows < 1 {
		defaultRows = 12
	}
	return &AvailabilityHandler{
		TripRepo:    tripRepo,
		SeatRepo:    seatRepo,
		SeatsPerRow: seatsPerRow,
		DefaultRows: defaultRows,
	}
}

// GetTripSeats handles GET /v1/trips/:id/seats.  It returns the row-major
// seat matrix for the trip with each cell's derived status.  Leases that
// have already elapsed render AVAILABLE even when the sweeper has not
// reclaimed them yet, and positions without a backing row (a trip whose
// seat set is still being initialized) render AVAILABLE as well.
func (h *AvailabilityHandler) GetTripSeats(c echo.Context) error {
	tripID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || tripID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid trip id"})
	}

	ctx := c.Request().Context()
	trip, err := h.TripRepo.GetByID(ctx, tripID)
	if err != nil {
		if errors.Is(err, repository.ErrTripNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "trip not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	records, err := h.SeatRepo.ListByTrip(ctx, tripID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load seats"})
	}

	totalRows := service.RowsFor(trip.TotalSeatCount, h.SeatsPerRow, h.DefaultRows)
	matrix := service.BuildSeatMatrix(records, totalRows, h.SeatsPerRow, time.Now().UTC())

	return c.JSON(http.StatusOK, echo.Map{
		"trip_id":       tripID,
		"total_rows":    totalRows,
		"seats_per_row": h.SeatsPerRow,
		"seat_matrix":   matrix,
	})
}
