package database

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/arnavshah/room-scheduler-api/pkg/config"
)

// APIKey represents the api_keys table
type APIKey struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Key        string     `gorm:"unique;not null" json:"-"`
	Name       string     `gorm:"not null" json:"name"`
	KeyPreview string     `json:"key_preview"`
	RateLimit  int        `gorm:"default:10000" json:"rate_limit"` // requests per day
	Revoked    bool       `gorm:"default:false" json:"revoked"`
	CreatedAt  time.Time  `json:"created_at"`
	LastUsed   *time.Time `json:"last_used"`
}

// APIUsage represents the api_usage table: one row per key and day
type APIUsage struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	KeyID         uint   `gorm:"uniqueIndex:idx_key_date;not null" json:"key_id"`
	Date          string `gorm:"uniqueIndex:idx_key_date;not null" json:"date"`
	RequestCount  int    `gorm:"default:0" json:"request_count"`
	TotalSessions int    `gorm:"default:0" json:"total_sessions"`
	TotalRooms    int    `gorm:"default:0" json:"total_rooms"`
}

// MasterUser represents the master_users table
type MasterUser struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"unique;not null" json:"username"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Open connects to Postgres when DATABASE_URL is set, otherwise to the
// SQLite file at DATA_PATH, and migrates the schema.
func Open(cfg *config.Config, log zerolog.Logger) (*gorm.DB, error) {
	gormCfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}

	var dialector gorm.Dialector
	if cfg.DatabaseURL != "" {
		dialector = postgres.New(postgres.Config{
			DSN:                  cfg.DatabaseURL,
			PreferSimpleProtocol: true,
		})
		gormCfg.PrepareStmt = false
		log.Info().Str("driver", "postgres").Msg("opening database")
	} else {
		dialector = sqlite.Open(cfg.DataPath)
		log.Info().Str("driver", "sqlite").Str("path", cfg.DataPath).Msg("opening database")
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if cfg.DatabaseURL == "" {
		// one connection: SQLite serializes writers, and ":memory:" is per connection
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates every table used by the service.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&APIKey{}, &APIUsage{}, &MasterUser{}, &ScheduleRun{}, &RunPlacement{}, &RunResidual{}); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}

// IsNotFound reports whether err means the requested row does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
