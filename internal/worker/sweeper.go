// Package worker contains the background tasks of the seat-inventory core:
// the lock-expiry sweeper and the trip seat initializer.  Both are plain
// ticker loops with a Start/Stop lifecycle and a synchronous RunOnce, so one
// tick can be driven directly in tests.
package worker

import (
	"context"
	"log"
	"time"

	"github.com/iliyamo/bus-seat-inventory/internal/metrics"
)

// SweeperStore is the slice of the seat repository the sweeper needs.
type SweeperStore interface {
	ClearExpiredLocks(ctx context.Context, now time.Time) (int64, error)
}

// LockSweeper periodically resets seats whose lease has elapsed.  It is a
// cleanup pass, not a correctness requirement: the lock manager and the
// projector both treat an elapsed lease as no lease at all, so a missed or
// failed tick costs nothing but a little table bloat.
type LockSweeper struct {
	store    SweeperStore
	interval time.Duration
	ticker   *time.Ticker
	done     chan struct{}
}

// NewLockSweeper builds a sweeper with the given tick interval.
func NewLockSweeper(store SweeperStore, interval time.Duration) *LockSweeper {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &LockSweeper{
		store:    store,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Start launches the ticker loop.  Errors are logged and the next tick runs
// regardless; a failed sweep never blocks future sweeps.
func (s *LockSweeper) Start(ctx context.Context) {
	log.Printf("lock sweeper started, interval=%s", s.interval)
	s.ticker = time.NewTicker(s.interval)
	go func() {
		for {
			select {
			case <-s.ticker.C:
				if err := s.RunOnce(ctx); err != nil {
					log.Printf("lock sweeper: %v", err)
				}
			case <-s.done:
				log.Println("lock sweeper stopped")
				return
			}
		}
	}()
}

// Stop terminates the ticker loop.
func (s *LockSweeper) Stop() {
	if s.ticker != nil {
		s.ticker.Stop()
	}
	close(s.done)
}

// RunOnce executes a single sweep synchronously.  The reclaim is one bulk
// conditional update that only ever matches unbooked rows with an elapsed
// lease, so running it concurrently with lock requests is safe.
func (s *LockSweeper) RunOnce(ctx context.Context) error {
	now := time.Now().UTC()
	released, err := s.store.ClearExpiredLocks(ctx, now)
	if err != nil {
		return err
	}
	if released > 0 {
		metrics.SeatsSwept.Add(float64(released))
		log.Printf("released %d expired seat locks", released)
	}
	return nil
}
