package repository // repository for trip persistence

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/bus-seat-inventory/internal/model"
)

// TripRepo encapsulates database access to the trips table.  Catalog columns
// are read-only here; the repository writes only the two seat-initialization
// columns this subsystem owns.
type TripRepo struct {
	db *sql.DB
}

// NewTripRepo constructs a TripRepo given a DB handle.
func NewTripRepo(db *sql.DB) *TripRepo {
	return &TripRepo{db: db}
}

const tripColumns = `id, origin, destination, travel_date, total_seat_count,
	seat_init_status, seat_init_claimed_at`

// GetByID loads a single trip.  It returns ErrTripNotFound when the id does
// not exist.
func (r *TripRepo) GetByID(ctx context.Context, id int64) (*model.Trip, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+tripColumns+` FROM trips WHERE id = ?`, id)
	t, err := scanTrip(row)
	if err == sql.ErrNoRows {
		return nil, ErrTripNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// ListNeedingSeatInit returns upcoming trips whose seat set has not been
// fully created yet.  Trips stuck at INITIALIZING are included so a worker
// can reclaim a stale claim; whether the claim is actually stale is decided
// by ClaimSeatInit.
func (r *TripRepo) ListNeedingSeatInit(ctx context.Context, travelFrom time.Time, limit int) ([]model.Trip, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+tripColumns+` FROM trips
		 WHERE seat_init_status <> 'INITIALIZED' AND travel_date >= ?
		 ORDER BY travel_date, id
		 LIMIT ?`,
		travelFrom.Format("2006-01-02"), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

// ClaimSeatInit attempts to take exclusive ownership of the seat-seeding job
// for a trip.  The single conditional UPDATE is the whole mutual-exclusion
// protocol: it matches either a trip nobody has claimed, or an INITIALIZING
// claim taken before staleBefore (a crashed worker's leftover).  Exactly one
// concurrent caller can see rows-affected = 1.
func (r *TripRepo) ClaimSeatInit(ctx context.Context, tripID int64, now, staleBefore time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE trips
		 SET seat_init_status = 'INITIALIZING', seat_init_claimed_at = ?
		 WHERE id = ?
		   AND (seat_init_status = 'NOT_INITIALIZED'
		     OR (seat_init_status = 'INITIALIZING' AND seat_init_claimed_at <= ?))`,
		now, tripID, staleBefore)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// MarkSeatsInitialized records that the full seat set exists.  The claim
// timestamp is cleared so the row no longer matches any reclaim predicate.
func (r *TripRepo) MarkSeatsInitialized(ctx context.Context, tripID int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE trips
		 SET seat_init_status = 'INITIALIZED', seat_init_claimed_at = NULL
		 WHERE id = ?`,
		tripID)
	return err
}

// scanner lets scanTrip accept both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanTrip(s scanner) (*model.Trip, error) {
	var t model.Trip
	var status string
	if err := s.Scan(&t.ID, &t.Origin, &t.Destination, &t.TravelDate,
		&t.TotalSeatCount, &status, &t.SeatInitClaimedAt); err != nil {
		return nil, err
	}
	t.SeatInitStatus = model.SeatInitStatus(status)
	return &t, nil
}
