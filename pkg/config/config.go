package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/arnavshah/room-scheduler-api/pkg/models"
	"github.com/arnavshah/room-scheduler-api/pkg/scheduler"
)

// Config covers process level configuration read from environment variables.
type Config struct {
	Environment string
	LogLevel    string
	Port        string
	GinMode     string

	DatabaseURL string // Postgres when set
	DataPath    string // SQLite file otherwise

	JWTSecret       string
	APIMasterSecret string
	AdminUsername   string
	AdminPassword   string

	DayStart         models.ClockTime
	IntervalMinutes  int
	BufferMinutes    int
	EquipmentPolicy  scheduler.EquipmentPolicy
	MaxDays          int
	DefaultRateLimit int
}

// DotEnvPaths are tried in order; the first file that exists is loaded.
var DotEnvPaths = []string{".env", "../.env", "../../.env"}

// LoadDotEnv loads the first .env file found in DotEnvPaths. Variables
// already present in the environment win. It returns the loaded path, if any.
func LoadDotEnv() string {
	for _, p := range DotEnvPaths {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			return p
		}
	}
	return ""
}

// Load reads environment variables, applies defaults, and validates the result.
func Load() (*Config, error) {
	cfg := &Config{
		Environment:     getEnv("APP_ENV", "development"),
		LogLevel:        os.Getenv("LOG_LEVEL"),
		Port:            getEnv("PORT", "8000"),
		GinMode:         os.Getenv("GIN_MODE"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		DataPath:        getEnv("DATA_PATH", "scheduler.db"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		APIMasterSecret: os.Getenv("API_MASTER_SECRET"),
		AdminUsername:   getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword:   getEnv("ADMIN_PASSWORD", "admin123"),
	}

	var err error
	if cfg.DayStart, err = getEnvClock("SCHED_DAY_START", scheduler.DefaultDayStart); err != nil {
		return nil, err
	}
	if cfg.IntervalMinutes, err = getEnvInt("SCHED_INTERVAL_MINUTES", scheduler.DefaultInterval); err != nil {
		return nil, err
	}
	if cfg.BufferMinutes, err = getEnvInt("SCHED_BUFFER_MINUTES", scheduler.DefaultBuffer); err != nil {
		return nil, err
	}
	if cfg.MaxDays, err = getEnvInt("SCHED_MAX_DAYS", 7); err != nil {
		return nil, err
	}
	if cfg.DefaultRateLimit, err = getEnvInt("DEFAULT_RATE_LIMIT", 10000); err != nil {
		return nil, err
	}
	if cfg.EquipmentPolicy, err = scheduler.ParseEquipmentPolicy(os.Getenv("SCHED_EQUIPMENT_POLICY")); err != nil {
		return nil, &configError{message: "invalid SCHED_EQUIPMENT_POLICY: " + err.Error()}
	}

	if err := cfg.Grid().Validate(); err != nil {
		return nil, &configError{message: "invalid scheduling grid: " + err.Error()}
	}
	if cfg.MaxDays < 1 {
		return nil, &configError{message: "SCHED_MAX_DAYS must be at least 1"}
	}

	if cfg.IsProduction() {
		if cfg.JWTSecret == "" {
			return nil, &configError{message: "JWT_SECRET must be provided in production"}
		}
		if cfg.APIMasterSecret == "" {
			return nil, &configError{message: "API_MASTER_SECRET must be provided in production"}
		}
	}

	return cfg, nil
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// Grid returns the scheduling grid described by the configuration.
func (c *Config) Grid() scheduler.Grid {
	return scheduler.Grid{
		DayStart: c.DayStart,
		Interval: c.IntervalMinutes,
		Buffer:   c.BufferMinutes,
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getEnvInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, &configError{message: "invalid int for " + key + ": " + err.Error()}
	}
	return parsed, nil
}

func getEnvClock(key string, fallback models.ClockTime) (models.ClockTime, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := models.ParseClock(value)
	if err != nil {
		return 0, &configError{message: "invalid time for " + key + ": " + err.Error()}
	}
	return parsed, nil
}

type configError struct {
	message string
}

func (e *configError) Error() string {
	return e.message
}

var _ error = (*configError)(nil)
