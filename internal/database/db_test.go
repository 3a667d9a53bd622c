package database

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/bus-seat-inventory/internal/config"
)

func TestDSN(t *testing.T) {
	cfg := config.Config{
		DBUser: "inventory",
		DBPass: "s3cret",
		DBHost: "db.internal",
		DBPort: "3306",
		DBName: "bus",
	}
	assert.Equal(t,
		"inventory:s3cret@tcp(db.internal:3306)/bus?charset=utf8mb4&parseTime=true&loc=UTC",
		dsn(cfg))
}

func TestDSNEmptyPassword(t *testing.T) {
	cfg := config.Config{
		DBUser: "root",
		DBHost: "localhost",
		DBPort: "3306",
		DBName: "bus",
	}
	// No colon when the password is empty.
	assert.Equal(t,
		"root@tcp(localhost:3306)/bus?charset=utf8mb4&parseTime=true&loc=UTC",
		dsn(cfg))
}
