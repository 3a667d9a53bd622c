package database

import (
	"context"
	"database/sql"
	"log"
)

// EnsureSchema creates the tables this service owns when they do not exist
// yet.  Statements are idempotent, so running them on every startup is safe
// even with several instances racing.  The unique key on
// (trip_id, seat_number) is what makes the initializer's insert-or-skip
// seeding and the lock manager's per-seat exclusivity possible.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS trips (
			id BIGINT NOT NULL AUTO_INCREMENT,
			origin VARCHAR(100) NOT NULL,
			destination VARCHAR(100) NOT NULL,
			travel_date DATE NOT NULL,
			total_seat_count INT NOT NULL DEFAULT 0,
			seat_init_status ENUM('NOT_INITIALIZED','INITIALIZING','INITIALIZED')
				NOT NULL DEFAULT 'NOT_INITIALIZED',
			seat_init_claimed_at DATETIME NULL,
			PRIMARY KEY (id),
			KEY idx_trip_seat_init (seat_init_status, travel_date)
		) ENGINE=InnoDB`,
		`CREATE TABLE IF NOT EXISTS users (
			id BIGINT NOT NULL AUTO_INCREMENT,
			email VARCHAR(255) NOT NULL,
			is_active TINYINT(1) NOT NULL DEFAULT 1,
			PRIMARY KEY (id),
			UNIQUE KEY uq_user_email (email)
		) ENGINE=InnoDB`,
		`CREATE TABLE IF NOT EXISTS seats (
			id BIGINT NOT NULL AUTO_INCREMENT,
			trip_id BIGINT NOT NULL,
			seat_number VARCHAR(5) NOT NULL,
			lock_owner_id BIGINT NULL,
			locked_until DATETIME NULL,
			booking_id BIGINT NULL,
			PRIMARY KEY (id),
			UNIQUE KEY uq_seat_trip_number (trip_id, seat_number),
			KEY idx_seat_lock_owner (trip_id, lock_owner_id),
			KEY idx_seat_locked_until (locked_until),
			CONSTRAINT fk_seat_trip FOREIGN KEY (trip_id)
				REFERENCES trips (id) ON DELETE CASCADE
		) ENGINE=InnoDB`,
	}
	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			return err
		}
	}
	log.Println("database schema ensured")
	return nil
}
