package model

// User is the minimal identity record this service reads from the `users`
// table.  Accounts are created and managed by the external identity service;
// here a user id is only resolved to confirm that a lock owner exists and is
// active.
type User struct {
	ID       int64  // users.id
	Email    string // users.email
	IsActive bool   // users.is_active
}
