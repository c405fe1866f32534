package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/nekogravitycat/turn-booking/internal/app"
	"github.com/nekogravitycat/turn-booking/internal/booking"
	"github.com/nekogravitycat/turn-booking/internal/config"
	"github.com/nekogravitycat/turn-booking/internal/db"
	"github.com/nekogravitycat/turn-booking/internal/pkg/lock"
	"github.com/nekogravitycat/turn-booking/internal/pkg/logger"
)

func main() {
	// For receiving Ctrl+C / SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zl, err := logger.New(cfg.IsProduction)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	// Row store
	var repo booking.Repository
	var locker lock.Locker

	switch cfg.StoreBackend {
	case config.StoreBackendPostgres:
		pool, err := db.NewPool(ctx, cfg.DBDSN)
		if err != nil {
			zl.Fatal("failed to connect to db", zap.Error(err))
		}
		defer pool.Close()

		if err := db.EnsureSchema(ctx, pool); err != nil {
			zl.Fatal("failed to ensure schema", zap.Error(err))
		}

		repo = booking.NewPgxRepository(pool)
		if cfg.LockBackend == config.LockBackendPostgres {
			locker = lock.NewPgAdvisory(pool, cfg.LockKey)
		}
	case config.StoreBackendMemory:
		zl.Warn("using in-memory store, bookings are lost on restart")
		repo = booking.NewMemoryRepository()
	}

	// Mutation lock
	switch cfg.LockBackend {
	case config.LockBackendRedis:
		rdb, err := db.NewRedis(ctx, cfg.RedisURL)
		if err != nil {
			zl.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer rdb.Close()
		locker = lock.NewRedis(rdb, cfg.LockKey, cfg.LockTTL)
	case config.LockBackendLocal:
		locker = lock.NewLocal()
	}

	container, err := app.NewContainer(app.Config{
		IsProduction:    cfg.IsProduction,
		CORSOrigins:     cfg.CORSOrigins,
		Logger:          zl,
		Repository:      repo,
		Locker:          locker,
		ScheduleProfile: cfg.ScheduleProfile,
		MaxPerDay:       cfg.MaxPerDay,
		LockWait:        cfg.LockWaitTimeout,
	})
	if err != nil {
		zl.Fatal("failed to build app", zap.Error(err))
	}

	// Use http.Server for graceful shutdown
	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: container.Router,
	}

	// Run server in separate goroutine
	go func() {
		zl.Info("server running",
			zap.String("addr", cfg.HTTPAddr),
			zap.String("store", cfg.StoreBackend),
			zap.String("lock", cfg.LockBackend),
			zap.String("schedule", string(cfg.ScheduleProfile)),
			zap.Int("max_per_day", cfg.MaxPerDay),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("server error", zap.Error(err))
		}
	}()

	// Wait for Ctrl+C
	<-ctx.Done()
	zl.Info("shutdown signal received")

	// Create a shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(shutdownCtx); err != nil {
		zl.Error("server forced to shutdown", zap.Error(err))
	}

	zl.Info("server exited gracefully")
}
