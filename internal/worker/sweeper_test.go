package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSweeperStore struct {
	mu       sync.Mutex
	released int64
	err      error
	calls    int
	lastNow  time.Time
}

func (f *fakeSweeperStore) ClearExpiredLocks(_ context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastNow = now
	return f.released, f.err
}

func (f *fakeSweeperStore) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestSweeperRunOnce(t *testing.T) {
	store := &fakeSweeperStore{released: 3}
	s := NewLockSweeper(store, time.Second)

	require.NoError(t, s.RunOnce(context.Background()))
	assert.Equal(t, 1, store.callCount())
	assert.WithinDuration(t, time.Now().UTC(), store.lastNow, time.Minute)
}

func TestSweeperRunOnceReportsStoreError(t *testing.T) {
	store := &fakeSweeperStore{err: errors.New("db down")}
	s := NewLockSweeper(store, time.Second)

	err := s.RunOnce(context.Background())
	assert.EqualError(t, err, "db down")

	// The next tick is unaffected by the previous failure.
	store.err = nil
	require.NoError(t, s.RunOnce(context.Background()))
	assert.Equal(t, 2, store.callCount())
}

func TestSweeperStartStop(t *testing.T) {
	store := &fakeSweeperStore{}
	s := NewLockSweeper(store, 10*time.Millisecond)
	s.Start(context.Background())
	time.Sleep(50 * time.Millisecond)
	s.Stop()

	assert.Greater(t, store.callCount(), 0, "ticker drove at least one sweep")
}
