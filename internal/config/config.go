package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/nekogravitycat/turn-booking/internal/schedule"
)

const PROD_STRING = "prod"

const (
	StoreBackendPostgres = "postgres"
	StoreBackendMemory   = "memory"

	LockBackendPostgres = "postgres"
	LockBackendRedis    = "redis"
	LockBackendLocal    = "local"
)

// Config holds all server configuration loaded from environment.
type Config struct {
	IsProduction    bool
	HTTPAddr        string
	CORSOrigins     []string
	ShutdownTimeout time.Duration

	StoreBackend string
	DBDSN        string

	LockBackend     string
	LockKey         string
	LockTTL         time.Duration
	LockWaitTimeout time.Duration
	RedisURL        string

	ScheduleProfile schedule.Profile
	MaxPerDay       int
}

// Load loads configuration from .env (optional) and environment variables.
func Load() (*Config, error) {
	loadDotEnv()

	cfg := &Config{}
	var err error

	// Application environment (default: dev)
	cfg.IsProduction = getEnv("APP_ENV", "dev") == PROD_STRING

	// HTTP listen address (default: :8080)
	cfg.HTTPAddr = getEnv("HTTP_ADDR", ":8080")

	// Allowed origins, comma separated (default: any origin)
	cfg.CORSOrigins = getEnvAsList("CORS_ORIGINS")

	cfg.ShutdownTimeout, err = getEnvAsDuration("SHUTDOWN_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}

	// Row store backend (default: postgres)
	cfg.StoreBackend = strings.ToLower(getEnv("STORE_BACKEND", StoreBackendPostgres))
	switch cfg.StoreBackend {
	case StoreBackendPostgres:
		cfg.DBDSN = os.Getenv("DB_DSN")
		if cfg.DBDSN == "" {
			return nil, fmt.Errorf("DB_DSN is required")
		}
	case StoreBackendMemory:
	default:
		return nil, fmt.Errorf("invalid STORE_BACKEND %q: want postgres or memory", cfg.StoreBackend)
	}

	// Mutation lock backend (default: postgres advisory lock)
	defaultLock := LockBackendPostgres
	if cfg.StoreBackend == StoreBackendMemory {
		defaultLock = LockBackendLocal
	}
	cfg.LockBackend = strings.ToLower(getEnv("LOCK_BACKEND", defaultLock))
	switch cfg.LockBackend {
	case LockBackendPostgres:
		if cfg.StoreBackend != StoreBackendPostgres {
			return nil, fmt.Errorf("LOCK_BACKEND=postgres requires STORE_BACKEND=postgres")
		}
	case LockBackendRedis:
		cfg.RedisURL = os.Getenv("REDIS_URL")
		if cfg.RedisURL == "" {
			return nil, fmt.Errorf("REDIS_URL is required when LOCK_BACKEND=redis")
		}
	case LockBackendLocal:
	default:
		return nil, fmt.Errorf("invalid LOCK_BACKEND %q: want postgres, redis or local", cfg.LockBackend)
	}

	cfg.LockKey = getEnv("LOCK_KEY", "turn-booking")

	cfg.LockTTL, err = getEnvAsDuration("LOCK_TTL", 15*time.Second)
	if err != nil {
		return nil, err
	}

	cfg.LockWaitTimeout, err = getEnvAsDuration("LOCK_WAIT_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}

	if err := loadBookingRules(&cfg.ScheduleProfile, &cfg.MaxPerDay); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadBookingRules reads the settings shared by the server and the client.
func loadBookingRules(profile *schedule.Profile, maxPerDay *int) error {
	p, err := schedule.ParseProfile(getEnv("SCHEDULE_PROFILE", string(schedule.ProfileSplit)))
	if err != nil {
		return fmt.Errorf("invalid SCHEDULE_PROFILE: %w", err)
	}
	*profile = p

	// Bookings allowed per calendar date (default: 12)
	n, err := getEnvAsInt("MAX_PER_DAY", 12)
	if err != nil {
		return fmt.Errorf("invalid MAX_PER_DAY: %w", err)
	}
	if n < 1 {
		return fmt.Errorf("invalid MAX_PER_DAY: must be at least 1, got %d", n)
	}
	*maxPerDay = n

	return nil
}

func loadDotEnv() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("failed to load .env file: %v", err)
	}
}

// getEnv returns the value of the environment variable if set and non-empty,
// otherwise returns the provided default value.
func getEnv(key, defaultValue string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer.
// It returns the default value if the variable is not set.
// It returns an error if the variable is set but is not a valid integer.
func getEnvAsInt(key string, defaultValue int) (int, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}

	val, err := strconv.Atoi(valStr)
	if err != nil {
		return 0, fmt.Errorf("env %s value %q is not a valid integer: %w", key, valStr, err)
	}

	return val, nil
}

// getEnvAsDuration parses a time.Duration such as "15s" or "1m".
func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}

	val, err := time.ParseDuration(valStr)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if val <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}

	return val, nil
}

// getEnvAsList splits a comma separated variable, dropping empty entries.
func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, ""), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
