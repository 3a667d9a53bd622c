// Package repository defines error values that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios: a missing
// trip or user maps to a 404 response, while conflicting seat state is
// reported by the service layer with the specific seat attached.
package repository

import "errors"

// ErrTripNotFound is returned when a trip id does not resolve to a row in
// the trips table. Handlers should translate this into an HTTP 404.
var ErrTripNotFound = errors.New("trip not found")

// ErrUserNotFound is returned when a lock owner id does not resolve to an
// active user. Handlers should translate this into an HTTP 404.
var ErrUserNotFound = errors.New("user not found")
