package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  Required values abort startup when missing;
// tunables fall back to the defaults the original deployment used (10 minute
// lease, 30 second sweep, 12 rows of 4 seats).
type Config struct {
	Env       string // application environment (e.g. "dev", "prod")
	Port      string // HTTP port to listen on
	DBUser    string // database username
	DBPass    string // database password (optional)
	DBHost    string // database host address
	DBPort    string // database port number
	DBName    string // database name
	JWTSecret string // secret used to verify access tokens

	DBMaxOpenConns   int // connection pool ceiling
	DBMaxIdleConns   int // idle connections kept around
	DBConnMaxLifeMin int // minutes before a pooled connection is recycled

	LockLeaseMin          int // minutes a seat lock remains valid once granted
	SweepIntervalSec      int // seconds between expired-lock sweeps
	SeatRows              int // default number of seat rows when the catalog gives no count
	SeatsPerRow           int // seats per row (2x2 bus layout -> 4)
	SeatInitIntervalMin   int // minutes between seat-initializer passes
	SeatInitStaleAfterMin int // minutes after which an INITIALIZING claim may be reclaimed
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:       must("APP_ENV"),      // environment (dev/test/prod)
		Port:      must("APP_PORT"),     // port to bind the HTTP server
		DBUser:    must("DB_USER"),      // database user
		DBPass:    os.Getenv("DB_PASS"), // database password (empty allowed)
		DBHost:    must("DB_HOST"),      // database host
		DBPort:    must("DB_PORT"),      // database port
		DBName:    must("DB_NAME"),      // database name
		JWTSecret: must("JWT_SECRET"),   // secret used for verifying JWTs

		DBMaxOpenConns:   envInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns:   envInt("DB_MAX_IDLE_CONNS", 25),
		DBConnMaxLifeMin: envInt("DB_CONN_MAX_LIFE_MIN", 30),

		LockLeaseMin:          envInt("LOCK_LEASE_MIN", 10),
		SweepIntervalSec:      envInt("SWEEP_INTERVAL_SEC", 30),
		SeatRows:              envInt("SEAT_ROWS", 12),
		SeatsPerRow:           envInt("SEATS_PER_ROW", 4),
		SeatInitIntervalMin:   envInt("SEAT_INIT_INTERVAL_MIN", 5),
		SeatInitStaleAfterMin: envInt("SEAT_INIT_STALE_AFTER_MIN", 5),
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// envInt reads an optional integer environment variable, returning the
// default when unset or unparsable.
func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("invalid int for %s: %q, using %d", key, v, def)
		return def
	}
	return n
}
