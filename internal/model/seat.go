package model

import (
	"database/sql"
	"time"
)

// SeatStatus is the status a seat presents to clients.  It is never stored;
// it is derived from the lock and booking columns at read time so that a
// stale row (expired lock the sweeper has not reclaimed yet) still renders
// as AVAILABLE.
type SeatStatus string

const (
	SeatAvailable SeatStatus = "AVAILABLE"
	SeatLocked    SeatStatus = "LOCKED"
	SeatBooked    SeatStatus = "BOOKED"
)

// SeatRecord mirrors a row of the `seats` table.  Rows are bulk-created once
// per trip by the initializer, all AVAILABLE; after that every lock and
// release is an UPDATE on a pre-existing row.  BookingID is written exactly
// once, by the external booking-confirmation collaborator, after which the
// row is frozen for this service.
//
// Fields:
//  ID          – primary key identifier.
//  TripID      – trip this seat belongs to.
//  SeatNumber  – row label + column, e.g. "A1".."L4"; unique per trip.
//  LockOwnerID – user holding the current lease, NULL when unlocked.
//  LockedUntil – lease expiry; a past value means the lock is logically gone.
//  BookingID   – confirmed booking reference; non-NULL means BOOKED, terminal.
type SeatRecord struct {
	ID          int64         // seats.id
	TripID      int64         // seats.trip_id
	SeatNumber  string        // seats.seat_number
	LockOwnerID sql.NullInt64 // seats.lock_owner_id
	LockedUntil sql.NullTime  // seats.locked_until
	BookingID   sql.NullInt64 // seats.booking_id
}

// StatusAt derives the seat status at the given instant.  Exactly one of the
// three statuses describes a seat: a set booking wins over everything, a
// live lease means LOCKED, and anything else (including stale lock fields)
// is AVAILABLE.
func (s *SeatRecord) StatusAt(now time.Time) SeatStatus {
	if s.BookingID.Valid {
		return SeatBooked
	}
	if s.LockedUntil.Valid && s.LockedUntil.Time.After(now) {
		return SeatLocked
	}
	return SeatAvailable
}

// HeldBy reports whether the seat carries a live lease owned by the given
// user at the given instant.  Booked seats are never "held".
func (s *SeatRecord) HeldBy(ownerID int64, now time.Time) bool {
	return s.StatusAt(now) == SeatLocked && s.LockOwnerID.Valid && s.LockOwnerID.Int64 == ownerID
}
