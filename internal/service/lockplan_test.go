package service

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/bus-seat-inventory/internal/model"
)

var planNow = time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

func seat(id int64, number string) model.SeatRecord {
	return model.SeatRecord{ID: id, TripID: 1, SeatNumber: number}
}

func lockedSeat(id int64, number string, owner int64, until time.Time) model.SeatRecord {
	s := seat(id, number)
	s.LockOwnerID = sql.NullInt64{Int64: owner, Valid: true}
	s.LockedUntil = sql.NullTime{Time: until, Valid: true}
	return s
}

func bookedSeat(id int64, number string, booking int64) model.SeatRecord {
	s := seat(id, number)
	s.BookingID = sql.NullInt64{Int64: booking, Valid: true}
	return s
}

func TestPlanLockGrantsFreeSeats(t *testing.T) {
	rows := []model.SeatRecord{seat(1, "A1"), seat(2, "A2")}
	plan, err := PlanLock(rows, []string{"A1", "A2"}, 5, planNow)
	require.NoError(t, err)
	assert.Equal(t, []string{"A1", "A2"}, plan.Claim)
	assert.Empty(t, plan.Release)
}

func TestPlanLockRejectsForeignLiveLock(t *testing.T) {
	rows := []model.SeatRecord{
		lockedSeat(1, "A1", 5, planNow.Add(10*time.Minute)),
		seat(2, "A2"),
	}
	_, err := PlanLock(rows, []string{"A1", "A2"}, 9, planNow)
	var lockedErr *SeatLockedError
	require.True(t, errors.As(err, &lockedErr))
	assert.Equal(t, "A1", lockedErr.SeatNumber)
}

func TestPlanLockSelfHealsExpiredForeignLock(t *testing.T) {
	// A1's lease elapsed; owner 9 may take it even though the sweeper has
	// not cleared the row yet.
	rows := []model.SeatRecord{lockedSeat(1, "A1", 5, planNow.Add(-time.Second))}
	plan, err := PlanLock(rows, []string{"A1"}, 9, planNow)
	require.NoError(t, err)
	assert.Equal(t, []string{"A1"}, plan.Claim)
}

func TestPlanLockRejectsBookedSeatAllOrNothing(t *testing.T) {
	rows := []model.SeatRecord{seat(1, "A1"), bookedSeat(2, "A2", 77)}
	plan, err := PlanLock(rows, []string{"A1", "A2"}, 5, planNow)
	var bookedErr *SeatBookedError
	require.True(t, errors.As(err, &bookedErr))
	assert.Equal(t, "A2", bookedErr.SeatNumber)
	assert.Nil(t, plan, "no partial plan on conflict")
}

func TestPlanLockRenewsOwnLease(t *testing.T) {
	rows := []model.SeatRecord{
		lockedSeat(1, "A1", 5, planNow.Add(3*time.Minute)),
		lockedSeat(2, "A2", 5, planNow.Add(3*time.Minute)),
	}
	plan, err := PlanLock(rows, []string{"A1", "A2"}, 5, planNow)
	require.NoError(t, err)
	assert.Equal(t, []string{"A1", "A2"}, plan.Claim)
	assert.Empty(t, plan.Release)
}

func TestPlanLockReplacesWholeHeldSet(t *testing.T) {
	// Owner 5 holds A1 and A2, then asks for A2 and A3 only: A1 is released.
	rows := []model.SeatRecord{
		lockedSeat(1, "A1", 5, planNow.Add(3*time.Minute)),
		lockedSeat(2, "A2", 5, planNow.Add(3*time.Minute)),
		seat(3, "A3"),
	}
	plan, err := PlanLock(rows, []string{"A2", "A3"}, 5, planNow)
	require.NoError(t, err)
	assert.Equal(t, []string{"A2", "A3"}, plan.Claim)
	assert.Equal(t, []int64{1}, plan.Release)
}

func TestPlanLockReleasesOwnStaleRows(t *testing.T) {
	// A stale row still attributed to the owner but not requested again is
	// cleared instead of waiting for the sweeper.
	rows := []model.SeatRecord{
		lockedSeat(1, "A1", 5, planNow.Add(-time.Minute)),
		seat(2, "B1"),
	}
	plan, err := PlanLock(rows, []string{"B1"}, 5, planNow)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, plan.Release)
}

func TestPlanLockUnknownSeat(t *testing.T) {
	rows := []model.SeatRecord{seat(1, "A1")}
	_, err := PlanLock(rows, []string{"A1", "Z9"}, 5, planNow)
	var unknownErr *UnknownSeatError
	require.True(t, errors.As(err, &unknownErr))
	assert.Equal(t, "Z9", unknownErr.SeatNumber)
}

func TestPlanLockNeverTouchesBookedRowsOfOwner(t *testing.T) {
	// A booked seat that happens to still carry the owner's id in
	// lock_owner_id must not end up in the release list.
	booked := bookedSeat(1, "A1", 77)
	booked.LockOwnerID = sql.NullInt64{Int64: 5, Valid: true}
	rows := []model.SeatRecord{booked, seat(2, "A2")}
	plan, err := PlanLock(rows, []string{"A2"}, 5, planNow)
	require.NoError(t, err)
	assert.Empty(t, plan.Release)
}

func TestOverlappingRequestsExactlyOneWinner(t *testing.T) {
	// Sequential model of two concurrent calls: the row locks serialize
	// them, so the second planner sees the first plan already applied.
	rows := []model.SeatRecord{seat(1, "A1"), seat(2, "A2")}

	first, err := PlanLock(rows, []string{"A1", "A2"}, 5, planNow)
	require.NoError(t, err)
	until := planNow.Add(10 * time.Minute)
	for i := range rows {
		for _, sn := range first.Claim {
			if rows[i].SeatNumber == sn {
				rows[i].LockOwnerID = sql.NullInt64{Int64: 5, Valid: true}
				rows[i].LockedUntil = sql.NullTime{Time: until, Valid: true}
			}
		}
	}

	_, err = PlanLock(rows[:1], []string{"A1"}, 9, planNow)
	var lockedErr *SeatLockedError
	require.True(t, errors.As(err, &lockedErr))
	assert.Equal(t, "A1", lockedErr.SeatNumber)

	// After the lease elapses the loser succeeds.
	later := until.Add(time.Second)
	plan, err := PlanLock(rows[:1], []string{"A1"}, 9, later)
	require.NoError(t, err)
	assert.Equal(t, []string{"A1"}, plan.Claim)
}
