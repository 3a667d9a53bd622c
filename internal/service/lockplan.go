// Package service holds the domain logic of the seat-inventory core: the
// lock-grant planner and the availability projection.  Both are pure
// functions over loaded seat rows, so every concurrency-sensitive decision
// can be tested without a database; the repository layer is responsible for
// loading the rows under exclusive locks and applying the resulting plan
// atomically.
package service

import (
	"fmt"
	"time"

	"github.com/iliyamo/bus-seat-inventory/internal/model"
)

// SeatBookedError reports that a requested seat already carries a confirmed
// booking.  The whole lock request fails; nothing is applied.
type SeatBookedError struct {
	SeatNumber string
}

func (e *SeatBookedError) Error() string {
	return fmt.Sprintf("seat %s is already booked", e.SeatNumber)
}

// SeatLockedError reports that a requested seat is held by another owner
// under a lease that has not expired.  The whole lock request fails.
type SeatLockedError struct {
	SeatNumber string
}

func (e *SeatLockedError) Error() string {
	return fmt.Sprintf("seat %s is already locked", e.SeatNumber)
}

// UnknownSeatError reports a seat number with no backing row.  Seat rows are
// created in full when a trip is initialized, so an unknown number means the
// client asked for a seat outside the bus layout.
type UnknownSeatError struct {
	SeatNumber string
}

func (e *UnknownSeatError) Error() string {
	return fmt.Sprintf("seat %s does not exist on this trip", e.SeatNumber)
}

// LockPlan is the outcome of a successful planning pass: the seats to stamp
// with the new lease and the rows whose lock fields must be cleared because
// the owner no longer wants them.
type LockPlan struct {
	Claim   []string // seat numbers to lock for the owner
	Release []int64  // seat row ids to reset to available
}

// PlanLock decides a lock request against the rows loaded (under exclusive
// row locks) for it: every seat in the requested set plus every seat
// currently attributed to the owner on the trip.
//
// Rules, in order:
//   - a lease whose locked_until is in the past counts as no lease at all,
//     independent of whether the sweeper has reclaimed the row yet;
//   - a requested seat with a booking fails the whole request;
//   - a requested seat under another owner's live lease fails the whole
//     request;
//   - seats the owner holds that are absent from the request are released;
//     the request redefines the owner's complete held set for the trip;
//   - every requested seat is claimed, which also renews the lease on seats
//     the owner already held.
//
// The returned error is always one of *SeatBookedError, *SeatLockedError or
// *UnknownSeatError, naming the first offending seat in seat-number order.
func PlanLock(rows []model.SeatRecord, requested []string, ownerID int64, now time.Time) (*LockPlan, error) {
	want := make(map[string]struct{}, len(requested))
	for _, sn := range requested {
		want[sn] = struct{}{}
	}

	known := make(map[string]struct{}, len(rows))
	plan := &LockPlan{Claim: make([]string, 0, len(requested))}

	// rows arrive in seat_number order, so the first conflict reported is
	// deterministic across retries
	for i := range rows {
		row := &rows[i]
		known[row.SeatNumber] = struct{}{}
		status := row.StatusAt(now)

		if _, wanted := want[row.SeatNumber]; wanted {
			if status == model.SeatBooked {
				return nil, &SeatBookedError{SeatNumber: row.SeatNumber}
			}
			if status == model.SeatLocked && !row.HeldBy(ownerID, now) {
				return nil, &SeatLockedError{SeatNumber: row.SeatNumber}
			}
			continue
		}

		// Not requested: the row was loaded because it is attributed to the
		// owner.  Live own locks are released; stale lock fields are cleared
		// as well so the row does not wait for the sweeper.
		if status != model.SeatBooked && row.LockOwnerID.Valid && row.LockOwnerID.Int64 == ownerID {
			plan.Release = append(plan.Release, row.ID)
		}
	}

	for _, sn := range requested {
		if _, ok := known[sn]; !ok {
			return nil, &UnknownSeatError{SeatNumber: sn}
		}
		plan.Claim = append(plan.Claim, sn)
	}
	return plan, nil
}
