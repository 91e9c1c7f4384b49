package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnavshah/room-scheduler-api/pkg/models"
	"github.com/arnavshah/room-scheduler-api/pkg/scheduler"
)

var configKeys = []string{
	"APP_ENV", "LOG_LEVEL", "PORT", "GIN_MODE", "DATABASE_URL", "DATA_PATH",
	"JWT_SECRET", "API_MASTER_SECRET", "ADMIN_USERNAME", "ADMIN_PASSWORD",
	"SCHED_DAY_START", "SCHED_INTERVAL_MINUTES", "SCHED_BUFFER_MINUTES",
	"SCHED_EQUIPMENT_POLICY", "SCHED_MAX_DAYS", "DEFAULT_RATE_LIMIT",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configKeys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "scheduler.db", cfg.DataPath)
	assert.Equal(t, "admin", cfg.AdminUsername)
	assert.Equal(t, 7, cfg.MaxDays)
	assert.Equal(t, 10000, cfg.DefaultRateLimit)
	assert.Equal(t, scheduler.EquipmentIntersect, cfg.EquipmentPolicy)
	assert.Equal(t, scheduler.DefaultGrid(), cfg.Grid())
	assert.False(t, cfg.IsProduction())
}

func TestLoadReadsSchedulingKeys(t *testing.T) {
	clearEnv(t)
	t.Setenv("SCHED_DAY_START", "07:30")
	t.Setenv("SCHED_INTERVAL_MINUTES", "10")
	t.Setenv("SCHED_BUFFER_MINUTES", "0")
	t.Setenv("SCHED_EQUIPMENT_POLICY", "exact")
	t.Setenv("DATABASE_URL", "postgres://localhost/rooms")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, scheduler.Grid{DayStart: models.Clock(7, 30), Interval: 10, Buffer: 0}, cfg.Grid())
	assert.Equal(t, scheduler.EquipmentExact, cfg.EquipmentPolicy)
	assert.Equal(t, "postgres://localhost/rooms", cfg.DatabaseURL)
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "non numeric interval", key: "SCHED_INTERVAL_MINUTES", value: "quarter"},
		{name: "zero interval", key: "SCHED_INTERVAL_MINUTES", value: "0"},
		{name: "negative buffer", key: "SCHED_BUFFER_MINUTES", value: "-5"},
		{name: "bad day start", key: "SCHED_DAY_START", value: "25:00"},
		{name: "unknown policy", key: "SCHED_EQUIPMENT_POLICY", value: "superset"},
		{name: "zero days", key: "SCHED_MAX_DAYS", value: "0"},
		{name: "bad rate limit", key: "DEFAULT_RATE_LIMIT", value: "lots"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tc.key, tc.value)

			_, err := Load()
			require.Error(t, err)
			var cerr *configError
			assert.ErrorAs(t, err, &cerr)
		})
	}
}

func TestLoadProductionRequiresSecrets(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")

	_, err := Load()
	require.Error(t, err)

	t.Setenv("JWT_SECRET", "jwt")
	_, err = Load()
	require.Error(t, err)

	t.Setenv("API_MASTER_SECRET", "master")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
}
