package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/nekogravitycat/turn-booking/internal/schedule"
)

const (
	PayloadStyleJSON   = "json"
	PayloadStyleLegacy = "legacy"
)

// ClientConfig configures the booking client and the bookctl CLI.
type ClientConfig struct {
	StoreURL     string
	PayloadStyle string
	Timeout      time.Duration

	ScheduleProfile schedule.Profile
	MaxPerDay       int
	WindowDays      int
	Location        *time.Location
}

// LoadClient loads client configuration from .env (optional) and environment variables.
// STORE_URL is validated by the caller so command line flags can supply it.
func LoadClient() (*ClientConfig, error) {
	loadDotEnv()

	cfg := &ClientConfig{}
	var err error

	cfg.StoreURL = strings.TrimRight(os.Getenv("STORE_URL"), "/")

	cfg.PayloadStyle = strings.ToLower(getEnv("PAYLOAD_STYLE", PayloadStyleJSON))
	if cfg.PayloadStyle != PayloadStyleJSON && cfg.PayloadStyle != PayloadStyleLegacy {
		return nil, fmt.Errorf("invalid PAYLOAD_STYLE %q: want json or legacy", cfg.PayloadStyle)
	}

	cfg.Timeout, err = getEnvAsDuration("CLIENT_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	if err := loadBookingRules(&cfg.ScheduleProfile, &cfg.MaxPerDay); err != nil {
		return nil, err
	}

	// Forward booking window in days (default: 30)
	cfg.WindowDays, err = getEnvAsInt("BOOKING_WINDOW_DAYS", 30)
	if err != nil {
		return nil, fmt.Errorf("invalid BOOKING_WINDOW_DAYS: %w", err)
	}
	if cfg.WindowDays < 0 {
		return nil, fmt.Errorf("invalid BOOKING_WINDOW_DAYS: must not be negative")
	}

	// Zone used to decide what "today" is (default: system local)
	cfg.Location, err = time.LoadLocation(getEnv("TIMEZONE", "Local"))
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}

	return cfg, nil
}
