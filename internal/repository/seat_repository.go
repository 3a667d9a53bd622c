package repository // repository for seat inventory persistence

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/iliyamo/bus-seat-inventory/internal/model"
)

// SeatRepo encapsulates database operations for the seats table.  Methods
// suffixed Tx run inside a caller-provided transaction; the caller must
// commit or roll back.  All lock-granting paths go through LockRowsTx,
// which takes the row locks that serialize concurrent lock attempts.
type SeatRepo struct {
	db *sql.DB
}

// NewSeatRepo constructs a SeatRepo given a DB handle.
func NewSeatRepo(db *sql.DB) *SeatRepo {
	return &SeatRepo{db: db}
}

// DB exposes the underlying handle so handlers can open transactions.
func (r *SeatRepo) DB() *sql.DB { return r.db }

const seatColumns = `id, trip_id, seat_number, lock_owner_id, locked_until, booking_id`

// placeholders returns "?, ?, ?" with n markers for IN clauses.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// LockRowsTx loads, with exclusive row locks, every seat of the trip that is
// either in the requested set or currently attributed to the owner.  Rows
// are locked in seat_number order so two overlapping multi-seat requests
// always acquire locks in the same sequence and cannot deadlock.  The locks
// are held until the surrounding transaction ends.
func (r *SeatRepo) LockRowsTx(ctx context.Context, tx *sql.Tx, tripID int64, seatNumbers []string, ownerID int64) ([]model.SeatRecord, error) {
	if len(seatNumbers) == 0 {
		return nil, nil
	}
	query := `SELECT ` + seatColumns + ` FROM seats
		WHERE trip_id = ? AND (seat_number IN (` + placeholders(len(seatNumbers)) + `) OR lock_owner_id = ?)
		ORDER BY seat_number
		FOR UPDATE`
	args := make([]interface{}, 0, len(seatNumbers)+2)
	args = append(args, tripID)
	for _, sn := range seatNumbers {
		args = append(args, sn)
	}
	args = append(args, ownerID)

	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.SeatRecord
	for rows.Next() {
		var s model.SeatRecord
		if err := rows.Scan(&s.ID, &s.TripID, &s.SeatNumber, &s.LockOwnerID, &s.LockedUntil, &s.BookingID); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ClaimSeatsTx stamps the lease onto the requested seats.  Callers must have
// loaded and checked the same rows via LockRowsTx inside the same
// transaction; by the time this runs the rows are known to be claimable.
func (r *SeatRepo) ClaimSeatsTx(ctx context.Context, tx *sql.Tx, tripID int64, seatNumbers []string, ownerID int64, until time.Time) error {
	if len(seatNumbers) == 0 {
		return nil
	}
	query := `UPDATE seats SET lock_owner_id = ?, locked_until = ?
		WHERE trip_id = ? AND seat_number IN (` + placeholders(len(seatNumbers)) + `)`
	args := make([]interface{}, 0, len(seatNumbers)+3)
	args = append(args, ownerID, until, tripID)
	for _, sn := range seatNumbers {
		args = append(args, sn)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// ReleaseByIDTx clears the lock fields on the given seat rows.  Used when a
// lock request redefines the owner's held set and some previously held
// seats are no longer wanted.
func (r *SeatRepo) ReleaseByIDTx(ctx context.Context, tx *sql.Tx, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	query := `UPDATE seats SET lock_owner_id = NULL, locked_until = NULL
		WHERE id IN (` + placeholders(len(ids)) + `)`
	args := make([]interface{}, 0, len(ids))
	for _, id := range ids {
		args = append(args, id)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// ListByTrip returns every seat row of a trip, ordered by seat number.  This
// feeds the availability projection and takes no locks.
func (r *SeatRepo) ListByTrip(ctx context.Context, tripID int64) ([]model.SeatRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+seatColumns+` FROM seats WHERE trip_id = ? ORDER BY seat_number`, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.SeatRecord
	for rows.Next() {
		var s model.SeatRecord
		if err := rows.Scan(&s.ID, &s.TripID, &s.SeatNumber, &s.LockOwnerID, &s.LockedUntil, &s.BookingID); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// InsertSeatSet bulk-creates seat rows for a trip, all AVAILABLE.  The
// ON DUPLICATE KEY clause makes the insert skip rows that already exist, so
// a retry after a partially-completed earlier attempt fills only the gaps
// and can never produce duplicates.
func (r *SeatRepo) InsertSeatSet(ctx context.Context, tripID int64, seatNumbers []string) error {
	if len(seatNumbers) == 0 {
		return nil
	}
	query := `INSERT INTO seats (trip_id, seat_number) VALUES `
	args := make([]interface{}, 0, len(seatNumbers)*2)
	for i, sn := range seatNumbers {
		if i > 0 {
			query += ","
		}
		query += "(?, ?)"
		args = append(args, tripID, sn)
	}
	query += ` ON DUPLICATE KEY UPDATE seat_number = seat_number`
	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

// ClearExpiredLocks resets every seat whose lease has elapsed and that has
// no booking.  It is a single conditional bulk update: idempotent, safe to
// run concurrently with lock requests (a freshly extended lease has a future
// locked_until and will not match), and it can never touch a booked row.
// Returns the number of seats reclaimed.
func (r *SeatRepo) ClearExpiredLocks(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE seats SET lock_owner_id = NULL, locked_until = NULL
		 WHERE locked_until <= ? AND booking_id IS NULL`,
		now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ConfirmBooking stamps a booking reference onto seats the owner still
// holds.  Only the external booking-confirmation flow calls this (via the
// queue consumer).  The WHERE clause makes the stamp conditional: rows that
// are already booked, or no longer held by the owner, are left untouched.
// Returns how many seats were actually confirmed so callers can detect a
// partial or lost hold.
func (r *SeatRepo) ConfirmBooking(ctx context.Context, tripID, ownerID, bookingID int64, seatNumbers []string) (int64, error) {
	if len(seatNumbers) == 0 {
		return 0, nil
	}
	query := `UPDATE seats SET booking_id = ?, lock_owner_id = NULL, locked_until = NULL
		WHERE trip_id = ? AND lock_owner_id = ? AND booking_id IS NULL
		  AND seat_number IN (` + placeholders(len(seatNumbers)) + `)`
	args := make([]interface{}, 0, len(seatNumbers)+3)
	args = append(args, bookingID, tripID, ownerID)
	for _, sn := range seatNumbers {
		args = append(args, sn)
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
