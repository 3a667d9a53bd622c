// Package queue defines message payloads exchanged over the message broker
// and the consumer for the external booking-confirmation flow.
package queue

// SeatsLockedEvent is published when a lock request is granted.  It carries
// enough for downstream consumers (hold-expiry reminders, analytics) to act
// without querying the primary database.
type SeatsLockedEvent struct {
	EventID       string   `json:"event_id"`
	TripID        int64    `json:"trip_id"`
	OwnerID       int64    `json:"owner_id"`
	Seats         []string `json:"seats"`
	LockExpiresAt string   `json:"lock_expires_at"`
	LockedAt      string   `json:"locked_at"`
}

// BookingConfirmedEvent arrives on the booking.confirmed queue from the
// external booking service once payment settles.  The consumer stamps the
// booking onto the seats the owner still holds; this is the only way a seat
// ever becomes BOOKED.
type BookingConfirmedEvent struct {
	EventID   string   `json:"event_id"`
	BookingID int64    `json:"booking_id"`
	TripID    int64    `json:"trip_id"`
	OwnerID   int64    `json:"owner_id"`
	Seats     []string `json:"seats"`
}
