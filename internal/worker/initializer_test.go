package worker

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/bus-seat-inventory/internal/model"
)

type fakeInitStore struct {
	trips       []model.Trip
	claimDenied map[int64]bool  // trips whose claim another worker holds
	insertErr   map[int64]error // per-trip insert failures

	claimAttempts map[int64]int
	inserted      map[int64][]string
	initialized   []int64
}

func newFakeInitStore(trips ...model.Trip) *fakeInitStore {
	return &fakeInitStore{
		trips:         trips,
		claimDenied:   map[int64]bool{},
		insertErr:     map[int64]error{},
		claimAttempts: map[int64]int{},
		inserted:      map[int64][]string{},
	}
}

func (f *fakeInitStore) ListNeedingSeatInit(_ context.Context, _ time.Time, _ int) ([]model.Trip, error) {
	return f.trips, nil
}

func (f *fakeInitStore) ClaimSeatInit(_ context.Context, tripID int64, _, _ time.Time) (bool, error) {
	f.claimAttempts[tripID]++
	return !f.claimDenied[tripID], nil
}

func (f *fakeInitStore) InsertSeatSet(_ context.Context, tripID int64, seatNumbers []string) error {
	if err := f.insertErr[tripID]; err != nil {
		return err
	}
	f.inserted[tripID] = seatNumbers
	return nil
}

func (f *fakeInitStore) MarkSeatsInitialized(_ context.Context, tripID int64) error {
	f.initialized = append(f.initialized, tripID)
	return nil
}

func trip(id int64, seatCount int) model.Trip {
	return model.Trip{
		ID:             id,
		TravelDate:     time.Now().AddDate(0, 0, 1),
		TotalSeatCount: seatCount,
		SeatInitStatus: model.SeatInitNotInitialized,
	}
}

func TestInitializerSeedsFullSeatSet(t *testing.T) {
	store := newFakeInitStore(trip(1, 48))
	w := NewSeatInitializer(store, 4, 12, 5*time.Minute, time.Minute)

	require.NoError(t, w.RunOnce(context.Background()))

	seats := store.inserted[1]
	require.Len(t, seats, 48)
	assert.Equal(t, "A1", seats[0])
	assert.Equal(t, "L4", seats[47])
	assert.Equal(t, []int64{1}, store.initialized)
}

func TestInitializerSkipsTripsClaimedElsewhere(t *testing.T) {
	store := newFakeInitStore(trip(1, 48), trip(2, 48))
	store.claimDenied[1] = true
	w := NewSeatInitializer(store, 4, 12, 5*time.Minute, time.Minute)

	require.NoError(t, w.RunOnce(context.Background()))

	assert.NotContains(t, store.inserted, int64(1))
	assert.Contains(t, store.inserted, int64(2))
	assert.Equal(t, []int64{2}, store.initialized)
}

func TestInitializerIsolatesPerTripFailures(t *testing.T) {
	store := newFakeInitStore(trip(1, 48), trip(2, 48), trip(3, 48))
	store.insertErr[2] = errors.New("insert blew up")
	w := NewSeatInitializer(store, 4, 12, 5*time.Minute, time.Minute)

	require.NoError(t, w.RunOnce(context.Background()), "batch error is not surfaced")

	assert.Contains(t, store.inserted, int64(1))
	assert.Contains(t, store.inserted, int64(3))
	// The failed trip is not marked initialized; a later pass reclaims it.
	assert.ElementsMatch(t, []int64{1, 3}, store.initialized)
}

func TestInitializerSkipsFreshClaimsWithoutRacing(t *testing.T) {
	fresh := trip(1, 48)
	fresh.SeatInitStatus = model.SeatInitInitializing
	fresh.SeatInitClaimedAt = sql.NullTime{Time: time.Now().UTC().Add(-time.Minute), Valid: true}

	stale := trip(2, 48)
	stale.SeatInitStatus = model.SeatInitInitializing
	stale.SeatInitClaimedAt = sql.NullTime{Time: time.Now().UTC().Add(-time.Hour), Valid: true}

	store := newFakeInitStore(fresh, stale)
	w := NewSeatInitializer(store, 4, 12, 5*time.Minute, time.Minute)

	require.NoError(t, w.RunOnce(context.Background()))

	// A fresh claim held by another worker is skipped before any UPDATE is
	// attempted; a stale one is reclaimed and seeded.
	assert.Zero(t, store.claimAttempts[1])
	assert.Equal(t, 1, store.claimAttempts[2])
	assert.NotContains(t, store.inserted, int64(1))
	assert.Contains(t, store.inserted, int64(2))
	assert.Equal(t, []int64{2}, store.initialized)
}

func TestInitializerSizesLayoutFromSeatCount(t *testing.T) {
	store := newFakeInitStore(trip(1, 8))
	w := NewSeatInitializer(store, 4, 12, 5*time.Minute, time.Minute)

	require.NoError(t, w.RunOnce(context.Background()))
	assert.Equal(t, []string{"A1", "A2", "A3", "A4", "B1", "B2", "B3", "B4"}, store.inserted[1])
}
