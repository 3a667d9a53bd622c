package repository // repository for user identity lookups

import (
	"context"
	"database/sql"

	"github.com/iliyamo/bus-seat-inventory/internal/model"
)

// UserRepo resolves lock-owner ids against the users table.  Identity is
// owned by the external auth service; this repository only confirms that an
// owner id references a real, active account before a lock is granted.
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo constructs a UserRepo given a DB handle.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

// GetByID loads the identity record for a user.  It returns ErrUserNotFound
// for unknown or deactivated accounts: a deactivated user must not be able
// to take new seat locks.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*model.User, error) {
	var u model.User
	err := r.db.QueryRowContext(ctx,
		`SELECT id, email, is_active FROM users WHERE id = ? AND is_active = 1`,
		id).Scan(&u.ID, &u.Email, &u.IsActive)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
