package model

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSeatInitClaimable(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	staleBefore := now.Add(-5 * time.Minute)

	claimedAt := func(ts time.Time) sql.NullTime {
		return sql.NullTime{Time: ts, Valid: true}
	}

	tests := []struct {
		name string
		trip Trip
		want bool
	}{
		{"never claimed", Trip{SeatInitStatus: SeatInitNotInitialized}, true},
		{"already seeded", Trip{SeatInitStatus: SeatInitInitialized}, false},
		{"fresh claim held elsewhere", Trip{
			SeatInitStatus:    SeatInitInitializing,
			SeatInitClaimedAt: claimedAt(now.Add(-time.Minute)),
		}, false},
		{"stale claim reclaimable", Trip{
			SeatInitStatus:    SeatInitInitializing,
			SeatInitClaimedAt: claimedAt(now.Add(-10 * time.Minute)),
		}, true},
		{"claim exactly at the threshold", Trip{
			SeatInitStatus:    SeatInitInitializing,
			SeatInitClaimedAt: claimedAt(staleBefore),
		}, true},
		{"claiming flag without a timestamp", Trip{
			SeatInitStatus: SeatInitInitializing,
		}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.trip.SeatInitClaimable(staleBefore))
		})
	}
}
