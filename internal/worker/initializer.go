package worker

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/iliyamo/bus-seat-inventory/internal/metrics"
	"github.com/iliyamo/bus-seat-inventory/internal/model"
	"github.com/iliyamo/bus-seat-inventory/internal/service"
)

// initializerBatchLimit caps how many trips one pass picks up.
const initializerBatchLimit = 100

// InitializerStore is the data access the seat initializer needs, split
// across the trip and seat repositories.
type InitializerStore interface {
	ListNeedingSeatInit(ctx context.Context, travelFrom time.Time, limit int) ([]model.Trip, error)
	ClaimSeatInit(ctx context.Context, tripID int64, now, staleBefore time.Time) (bool, error)
	InsertSeatSet(ctx context.Context, tripID int64, seatNumbers []string) error
	MarkSeatsInitialized(ctx context.Context, tripID int64) error
}

// SeatInitializer seeds the full seat set for upcoming trips exactly once.
// Ownership of the per-trip job is taken through a conditional status flip
// to INITIALIZING; a claim older than staleAfter is considered abandoned by
// a crashed worker and may be reclaimed, so no trip is ever stranded.
type SeatInitializer struct {
	store       InitializerStore
	seatsPerRow int
	defaultRows int
	staleAfter  time.Duration
	interval    time.Duration
	ticker      *time.Ticker
	done        chan struct{}
}

// NewSeatInitializer builds an initializer for the given layout and timing.
func NewSeatInitializer(store InitializerStore, seatsPerRow, defaultRows int, staleAfter, interval time.Duration) *SeatInitializer {
	if seatsPerRow < 1 {
		seatsPerRow = 4
	}
	if defaultRows < 1 {
		defaultRows = 12
	}
	if staleAfter <= 0 {
		staleAfter = 5 * time.Minute
	}
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &SeatInitializer{
		store:       store,
		seatsPerRow: seatsPerRow,
		defaultRows: defaultRows,
		staleAfter:  staleAfter,
		interval:    interval,
		done:        make(chan struct{}),
	}
}

// Start launches the ticker loop with an immediate first pass.
func (w *SeatInitializer) Start(ctx context.Context) {
	log.Printf("seat initializer started, interval=%s", w.interval)
	w.ticker = time.NewTicker(w.interval)
	go func() {
		if err := w.RunOnce(ctx); err != nil {
			log.Printf("seat initializer: %v", err)
		}
		for {
			select {
			case <-w.ticker.C:
				if err := w.RunOnce(ctx); err != nil {
					log.Printf("seat initializer: %v", err)
				}
			case <-w.done:
				log.Println("seat initializer stopped")
				return
			}
		}
	}()
}

// Stop terminates the ticker loop.
func (w *SeatInitializer) Stop() {
	if w.ticker != nil {
		w.ticker.Stop()
	}
	close(w.done)
}

// RunOnce processes one batch of upcoming trips that still need their seat
// set.  A failure on one trip is logged and the pass moves on; the trip
// stays INITIALIZING and a later pass reclaims it once the claim is stale.
func (w *SeatInitializer) RunOnce(ctx context.Context) error {
	now := time.Now().UTC()
	trips, err := w.store.ListNeedingSeatInit(ctx, now, initializerBatchLimit)
	if err != nil {
		return fmt.Errorf("list trips needing seats: %w", err)
	}
	if len(trips) == 0 {
		return nil
	}
	log.Printf("found %d trips needing seat initialization", len(trips))

	for _, trip := range trips {
		if err := w.initializeTrip(ctx, &trip); err != nil {
			log.Printf("seat init failed for trip %d: %v", trip.ID, err)
		}
	}
	return nil
}

// initializeTrip seeds one trip.  The conditional claim means at most one
// worker gets past the first step; everyone else skips silently.  The seat
// insert is insert-or-skip on (trip_id, seat_number), so finishing the job
// of a crashed predecessor fills only the missing rows.
func (w *SeatInitializer) initializeTrip(ctx context.Context, trip *model.Trip) error {
	now := time.Now().UTC()
	staleBefore := now.Add(-w.staleAfter)
	if !trip.SeatInitClaimable(staleBefore) {
		// Another worker holds a fresh claim; no point racing the UPDATE.
		return nil
	}
	claimed, err := w.store.ClaimSeatInit(ctx, trip.ID, now, staleBefore)
	if err != nil {
		return fmt.Errorf("claim: %w", err)
	}
	if !claimed {
		// Another worker owns the job and its claim is still fresh.
		return nil
	}

	rows := service.RowsFor(trip.TotalSeatCount, w.seatsPerRow, w.defaultRows)
	labels := service.SeatLabels(rows, w.seatsPerRow)
	if err := w.store.InsertSeatSet(ctx, trip.ID, labels); err != nil {
		// Leave the trip at INITIALIZING: a later pass reclaims it once the
		// claim goes stale.
		return fmt.Errorf("insert seats: %w", err)
	}
	if err := w.store.MarkSeatsInitialized(ctx, trip.ID); err != nil {
		return fmt.Errorf("mark initialized: %w", err)
	}

	metrics.TripsInitialized.Inc()
	log.Printf("initialized %d seats for trip %d", len(labels), trip.ID)
	return nil
}
