package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/turn-booking/internal/schedule"
)

// clearEnv blanks every variable Load reads so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	for _, k := range []string{
		"APP_ENV", "HTTP_ADDR", "CORS_ORIGINS", "SHUTDOWN_TIMEOUT",
		"STORE_BACKEND", "DB_DSN", "LOCK_BACKEND", "LOCK_KEY", "LOCK_TTL",
		"LOCK_WAIT_TIMEOUT", "REDIS_URL", "SCHEDULE_PROFILE", "MAX_PER_DAY",
		"STORE_URL", "PAYLOAD_STYLE", "CLIENT_TIMEOUT", "BOOKING_WINDOW_DAYS", "TIMEZONE",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaultsPostgres(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE_BACKEND", "postgres")
	t.Setenv("DB_DSN", "postgres://localhost/turns")
	t.Setenv("LOCK_BACKEND", "postgres")
	t.Setenv("SCHEDULE_PROFILE", "split")
	t.Setenv("HTTP_ADDR", ":8080")
	t.Setenv("APP_ENV", "dev")
	t.Setenv("LOCK_KEY", "turn-booking")

	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.IsProduction)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, StoreBackendPostgres, cfg.StoreBackend)
	assert.Equal(t, LockBackendPostgres, cfg.LockBackend)
	assert.Equal(t, 12, cfg.MaxPerDay)
	assert.Equal(t, schedule.ProfileSplit, cfg.ScheduleProfile)
	assert.Equal(t, 30*time.Second, cfg.LockWaitTimeout)
	assert.Equal(t, 15*time.Second, cfg.LockTTL)
	assert.Empty(t, cfg.CORSOrigins)
}

func TestLoadMemoryVariant(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("LOCK_BACKEND", "local")
	t.Setenv("SCHEDULE_PROFILE", "fixed")
	t.Setenv("MAX_PER_DAY", "8")
	t.Setenv("APP_ENV", "prod")
	t.Setenv("CORS_ORIGINS", "https://a.example, ,https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction)
	assert.Equal(t, 8, cfg.MaxPerDay)
	assert.Equal(t, schedule.ProfileFixed, cfg.ScheduleProfile)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"Missing DSN", map[string]string{"STORE_BACKEND": "postgres", "LOCK_BACKEND": "postgres", "SCHEDULE_PROFILE": "split"}},
		{"Unknown store", map[string]string{"STORE_BACKEND": "sheets"}},
		{"Advisory lock without postgres", map[string]string{"STORE_BACKEND": "memory", "LOCK_BACKEND": "postgres"}},
		{"Redis lock without url", map[string]string{"STORE_BACKEND": "memory", "LOCK_BACKEND": "redis"}},
		{"Unknown lock", map[string]string{"STORE_BACKEND": "memory", "LOCK_BACKEND": "zookeeper"}},
		{"Zero quota", map[string]string{"STORE_BACKEND": "memory", "LOCK_BACKEND": "local", "SCHEDULE_PROFILE": "split", "MAX_PER_DAY": "0"}},
		{"Bad quota", map[string]string{"STORE_BACKEND": "memory", "LOCK_BACKEND": "local", "SCHEDULE_PROFILE": "split", "MAX_PER_DAY": "many"}},
		{"Bad profile", map[string]string{"STORE_BACKEND": "memory", "LOCK_BACKEND": "local", "SCHEDULE_PROFILE": "weekly"}},
		{"Bad wait", map[string]string{"STORE_BACKEND": "memory", "LOCK_BACKEND": "local", "LOCK_WAIT_TIMEOUT": "soon"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadClient(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE_URL", "http://localhost:8080/")
	t.Setenv("PAYLOAD_STYLE", "legacy")
	t.Setenv("SCHEDULE_PROFILE", "split")
	t.Setenv("BOOKING_WINDOW_DAYS", "14")
	t.Setenv("TIMEZONE", "UTC")

	cfg, err := LoadClient()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080", cfg.StoreURL)
	assert.Equal(t, PayloadStyleLegacy, cfg.PayloadStyle)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, 14, cfg.WindowDays)
	assert.Equal(t, 12, cfg.MaxPerDay)
	assert.Equal(t, time.UTC, cfg.Location)

	t.Setenv("PAYLOAD_STYLE", "xml")
	_, err = LoadClient()
	assert.Error(t, err)
}
