package main // Entry point package

import (
	"context"
	"log"  // Logging library
	"time" // Durations for lease/sweep configuration

	"github.com/joho/godotenv"    // Loads .env files in development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/bus-seat-inventory/internal/config"
	"github.com/iliyamo/bus-seat-inventory/internal/database"
	"github.com/iliyamo/bus-seat-inventory/internal/handler"
	"github.com/iliyamo/bus-seat-inventory/internal/queue"
	"github.com/iliyamo/bus-seat-inventory/internal/repository"
	"github.com/iliyamo/bus-seat-inventory/internal/router"
	"github.com/iliyamo/bus-seat-inventory/internal/worker"
)

// initStore composes the two repositories into the store the seat
// initializer consumes.
type initStore struct {
	*repository.TripRepo
	*repository.SeatRepo
}

func main() {
	// Load a local .env when present; in production the environment is real.
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file loaded, using process environment")
	}

	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := database.EnsureSchema(ctx, db); err != nil {
		log.Fatalf("schema bootstrap failed: %v", err)
	}

	// Redis is optional: a nil client disables caching and rate limiting.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, response cache and rate limiting disabled")
	}

	tripRepo := repository.NewTripRepo(db)
	userRepo := repository.NewUserRepo(db)
	seatRepo := repository.NewSeatRepo(db)

	// Background tasks: expired-lock sweeper and trip seat initializer.
	sweeper := worker.NewLockSweeper(seatRepo, time.Duration(cfg.SweepIntervalSec)*time.Second)
	sweeper.Start(ctx)
	defer sweeper.Stop()

	initializer := worker.NewSeatInitializer(
		initStore{tripRepo, seatRepo},
		cfg.SeatsPerRow,
		cfg.SeatRows,
		time.Duration(cfg.SeatInitStaleAfterMin)*time.Minute,
		time.Duration(cfg.SeatInitIntervalMin)*time.Minute,
	)
	initializer.Start(ctx)
	defer initializer.Stop()

	// The external booking service confirms holds over the message broker.
	go queue.StartBookingConsumer(seatRepo)

	lockH := handler.NewSeatLockHandler(tripRepo, userRepo, seatRepo,
		time.Duration(cfg.LockLeaseMin)*time.Minute)
	availH := handler.NewAvailabilityHandler(tripRepo, seatRepo, cfg.SeatsPerRow, cfg.SeatRows)

	e := echo.New() // Create Echo instance
	router.RegisterRoutes(e)
	router.RegisterSeats(e, lockH, availH, cfg.JWTSecret, rdb,
		config.LoadCacheConfig(), config.LoadRateLimitConfig())

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
