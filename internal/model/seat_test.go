package model

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStatusAt(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	t.Run("no lock and no booking is available", func(t *testing.T) {
		s := SeatRecord{SeatNumber: "A1"}
		assert.Equal(t, SeatAvailable, s.StatusAt(now))
	})

	t.Run("live lease is locked", func(t *testing.T) {
		s := SeatRecord{
			SeatNumber:  "A1",
			LockOwnerID: sql.NullInt64{Int64: 5, Valid: true},
			LockedUntil: sql.NullTime{Time: now.Add(10 * time.Minute), Valid: true},
		}
		assert.Equal(t, SeatLocked, s.StatusAt(now))
	})

	t.Run("expired lease is available even with stale lock fields", func(t *testing.T) {
		s := SeatRecord{
			SeatNumber:  "A1",
			LockOwnerID: sql.NullInt64{Int64: 5, Valid: true},
			LockedUntil: sql.NullTime{Time: now.Add(-time.Second), Valid: true},
		}
		assert.Equal(t, SeatAvailable, s.StatusAt(now))
	})

	t.Run("booking wins over a live lease", func(t *testing.T) {
		s := SeatRecord{
			SeatNumber:  "A1",
			LockOwnerID: sql.NullInt64{Int64: 5, Valid: true},
			LockedUntil: sql.NullTime{Time: now.Add(10 * time.Minute), Valid: true},
			BookingID:   sql.NullInt64{Int64: 77, Valid: true},
		}
		assert.Equal(t, SeatBooked, s.StatusAt(now))
	})
}

func TestHeldBy(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	s := SeatRecord{
		SeatNumber:  "B2",
		LockOwnerID: sql.NullInt64{Int64: 5, Valid: true},
		LockedUntil: sql.NullTime{Time: now.Add(time.Minute), Valid: true},
	}
	assert.True(t, s.HeldBy(5, now))
	assert.False(t, s.HeldBy(9, now))
	assert.False(t, s.HeldBy(5, now.Add(2*time.Minute)), "lease elapsed")

	s.BookingID = sql.NullInt64{Int64: 1, Valid: true}
	assert.False(t, s.HeldBy(5, now), "booked seats are never held")
}
