package model

import (
	"database/sql"
	"time"
)

// SeatInitStatus tracks how far seat seeding has progressed for a trip.
// The value acts as a cooperative mutex across workers: only the worker
// that successfully flips NOT_INITIALIZED (or a stale INITIALIZING claim)
// to INITIALIZING may create seat rows for the trip.
type SeatInitStatus string

const (
	SeatInitNotInitialized SeatInitStatus = "NOT_INITIALIZED"
	SeatInitInitializing   SeatInitStatus = "INITIALIZING"
	SeatInitInitialized    SeatInitStatus = "INITIALIZED"
)

// Trip mirrors a row of the `trips` table.  Catalog fields (origin,
// destination, travel date, seat count) are owned by the external trip
// catalog and never mutated by this service; only SeatInitStatus and
// SeatInitClaimedAt belong to the seat-inventory subsystem.
//
// Fields:
//  ID                – primary key identifier of the trip.
//  Origin            – departure city, read-only here.
//  Destination       – arrival city, read-only here.
//  TravelDate        – calendar date of departure.
//  TotalSeatCount    – number of seats the bus offers; sizes the seat layout.
//  SeatInitStatus    – seat seeding progress (see SeatInitStatus).
//  SeatInitClaimedAt – when the current INITIALIZING claim was taken; NULL
//                      unless a worker holds the seeding job.
type Trip struct {
	ID                int64          // trips.id
	Origin            string         // trips.origin
	Destination       string         // trips.destination
	TravelDate        time.Time      // trips.travel_date
	TotalSeatCount    int            // trips.total_seat_count
	SeatInitStatus    SeatInitStatus // trips.seat_init_status
	SeatInitClaimedAt sql.NullTime   // trips.seat_init_claimed_at
}

// SeatInitClaimable reports whether a worker may take the seat-seeding job
// for this trip: the job was never claimed, or the current INITIALIZING
// claim was taken at or before staleBefore (a crashed worker's leftover).
// The conditional UPDATE in the repository applies the same rule and stays
// the authoritative, race-safe arbiter; this method is the decision itself,
// testable without a database.
func (t *Trip) SeatInitClaimable(staleBefore time.Time) bool {
	switch t.SeatInitStatus {
	case SeatInitInitialized:
		return false
	case SeatInitInitializing:
		return !t.SeatInitClaimedAt.Valid || !t.SeatInitClaimedAt.Time.After(staleBefore)
	default:
		return true
	}
}
