package handler

import (
	"errors"   // for errors.Is/As comparisons
	"log"      // request-path logging
	"net/http" // HTTP status codes
	"sort"     // deterministic seat ordering
	"strconv"  // parsing path parameters
	"time"     // working with timestamps

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bus-seat-inventory/internal/metrics"
	"github.com/iliyamo/bus-seat-inventory/internal/queue"
	"github.com/iliyamo/bus-seat-inventory/internal/repository"
	"github.com/iliyamo/bus-seat-inventory/internal/service"
)

// SeatLockHandler implements the lock-acquisition endpoint.  The whole grant
// decision runs inside one transaction holding exclusive row locks, so two
// overlapping requests are serialized by the database and exactly one can
// win a contested seat.
//
// A request redefines the owner's complete held set for the trip: seats the
// owner held before but did not re-request are released in the same
// transaction.
type SeatLockHandler struct {
	TripRepo *repository.TripRepo // trip existence and layout sizing
	UserRepo *repository.UserRepo // lock-owner identity resolution
	SeatRepo *repository.SeatRepo // seat rows, row locks, lease stamps

	LeaseDuration time.Duration // how long a granted lock remains valid
}

// NewSeatLockHandler constructs a SeatLockHandler with the provided
// repositories.  All dependencies must be non-nil.
func NewSeatLockHandler(tripRepo *repository.TripRepo, userRepo *repository.UserRepo, seatRepo *repository.SeatRepo, lease time.Duration) *SeatLockHandler {
	if tripRepo == nil || userRepo == nil || seatRepo == nil {
		panic("nil repository passed to NewSeatLockHandler")
	}
	if lease <= 0 {
		lease = 10 * time.Minute
	}
	return &SeatLockHandler{
		TripRepo:      tripRepo,
		UserRepo:      userRepo,
		SeatRepo:      seatRepo,
		LeaseDuration: lease,
	}
}

// LockSeats handles POST /v1/trips/:id/seats/lock.  The request body carries
// the seat numbers to hold and the owner taking the hold; the response
// returns the locked seats and the lease expiry.  Either every requested
// seat is locked or none is: any booked seat or foreign live lock aborts
// the transaction and the response names the conflicting seat.
func (h *SeatLockHandler) LockSeats(c echo.Context) error {
	tripID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || tripID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid trip id"})
	}

	var body struct {
		SeatNumbers []string `json:"seat_numbers"`
		OwnerID     int64    `json:"owner_id"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.OwnerID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "owner_id is required"})
	}

	// deduplicate seat numbers to avoid double-claiming the same row
	unique := make([]string, 0, len(body.SeatNumbers))
	seen := make(map[string]struct{})
	for _, sn := range body.SeatNumbers {
		if sn == "" {
			continue
		}
		if _, ok := seen[sn]; !ok {
			seen[sn] = struct{}{}
			unique = append(unique, sn)
		}
	}
	if len(unique) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "no seats specified to lock"})
	}
	sort.Strings(unique)

	ctx := c.Request().Context()
	if _, err := h.TripRepo.GetByID(ctx, tripID); err != nil {
		if errors.Is(err, repository.ErrTripNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "trip not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if _, err := h.UserRepo.GetByID(ctx, body.OwnerID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	tx, err := h.SeatRepo.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Load, under exclusive row locks, the requested seats plus everything
	// the owner currently holds on this trip.  Rows come back in seat
	// number order, which is the fixed lock order across all callers.
	rows, err := h.SeatRepo.LockRowsTx(ctx, tx, tripID, unique, body.OwnerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load seats"})
	}

	now := time.Now().UTC()
	plan, err := service.PlanLock(rows, unique, body.OwnerID, now)
	if err != nil {
		var bookedErr *service.SeatBookedError
		if errors.As(err, &bookedErr) {
			metrics.LockConflicts.WithLabelValues("booked").Inc()
			return c.JSON(http.StatusConflict, echo.Map{
				"error": "seat already booked",
				"seat":  bookedErr.SeatNumber,
			})
		}
		var lockedErr *service.SeatLockedError
		if errors.As(err, &lockedErr) {
			metrics.LockConflicts.WithLabelValues("locked").Inc()
			return c.JSON(http.StatusConflict, echo.Map{
				"error": "seat already locked",
				"seat":  lockedErr.SeatNumber,
			})
		}
		var unknownErr *service.UnknownSeatError
		if errors.As(err, &unknownErr) {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error": "unknown seat number",
				"seat":  unknownErr.SeatNumber,
			})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to plan lock"})
	}

	expiresAt := now.Add(h.LeaseDuration)
	if err := h.SeatRepo.ReleaseByIDTx(ctx, tx, plan.Release); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to release previous holds"})
	}
	if err := h.SeatRepo.ClaimSeatsTx(ctx, tx, tripID, plan.Claim, body.OwnerID, expiresAt); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to lock seats"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true
	metrics.LocksGranted.Inc()

	// Best effort: a broker outage must not fail a lock that committed.
	if err := queue.PublishSeatsLocked(ctx, queue.SeatsLockedEvent{
		EventID:       uuid.NewString(),
		TripID:        tripID,
		OwnerID:       body.OwnerID,
		Seats:         plan.Claim,
		LockExpiresAt: expiresAt.Format(time.RFC3339),
		LockedAt:      now.Format(time.RFC3339),
	}); err != nil {
		log.Printf("seat-lock: publish seats.locked failed: %v", err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message":         "seats locked successfully",
		"locked_seats":    plan.Claim,
		"lock_expires_at": expiresAt.Format(time.RFC3339),
	})
}
