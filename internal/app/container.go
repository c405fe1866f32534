package app

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nekogravitycat/turn-booking/internal/api"
	"github.com/nekogravitycat/turn-booking/internal/booking"
	"github.com/nekogravitycat/turn-booking/internal/pkg/lock"
	"github.com/nekogravitycat/turn-booking/internal/schedule"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction    bool
	CORSOrigins     []string
	Logger          *zap.Logger
	Repository      booking.Repository
	Locker          lock.Locker
	ScheduleProfile schedule.Profile
	MaxPerDay       int
	LockWait        time.Duration
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router         *gin.Engine
	BookingService booking.Service
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) (*Container, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	// Schedule
	sched, err := schedule.New(cfg.ScheduleProfile)
	if err != nil {
		return nil, fmt.Errorf("build schedule: %w", err)
	}

	// Booking Module
	repo := cfg.Repository
	if repo == nil {
		repo = booking.NewMemoryRepository()
	}
	locker := cfg.Locker
	if locker == nil {
		locker = lock.NewLocal()
	}
	bookingStore := booking.NewStore(repo, locker, booking.StoreConfig{
		MaxPerDay: cfg.MaxPerDay,
		LockWait:  cfg.LockWait,
	}, logger.Named("store"))
	bookingService := booking.NewService(bookingStore, sched)

	// Router
	router := api.NewRouter(api.Config{
		IsProduction:   cfg.IsProduction,
		CORSOrigins:    cfg.CORSOrigins,
		Logger:         logger.Named("http"),
		BookingService: bookingService,
	})

	return &Container{
		Router:         router,
		BookingService: bookingService,
	}, nil
}
