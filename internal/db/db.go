// Package db opens the site's database and stores theme preferences and the
// contact submission journal in it.
package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"mlsweb/internal/config"
	applog "mlsweb/internal/log"
	"mlsweb/models"
)

const slowQueryThreshold = 250 * time.Millisecond

// GormConfig is the gorm configuration shared by the postgres and sqlite
// databases. Statements are logged through the application logger and a
// missing row is not treated as noteworthy.
func GormConfig() *gorm.Config {
	return &gorm.Config{
		PrepareStmt:            true,
		SkipDefaultTransaction: true,
		Logger: logger.New(queryLogWriter{}, logger.Config{
			SlowThreshold:             slowQueryThreshold,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// queryLogWriter forwards gorm's warnings to the application logger.
type queryLogWriter struct{}

func (queryLogWriter) Printf(format string, args ...any) {
	applog.Warn(context.Background(), "database", "detail", strings.TrimSpace(fmt.Sprintf(format, args...)))
}

// Initialize opens the postgres database described by cfg and applies the
// connection pool limits.
func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, errors.New("database URL must not be empty")
	}

	database, err := gorm.Open(postgres.Open(cfg.URL), GormConfig())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := applyPool(database, cfg); err != nil {
		return nil, err
	}
	return database, nil
}

func applyPool(database *gorm.DB, cfg config.DatabaseConfig) error {
	sqlDB, err := database.DB()
	if err != nil {
		return fmt.Errorf("get sql db: %w", err)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	if cfg.ConnMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}
	return nil
}

// AutoMigrate creates or updates the site's tables.
func AutoMigrate(database *gorm.DB) error {
	if database == nil {
		return errors.New("database handle is nil")
	}
	return database.AutoMigrate(
		&models.ThemePreference{},
		&models.ContactSubmission{},
	)
}

// Configure opens the postgres database and migrates it.
func Configure(cfg config.DatabaseConfig) (*gorm.DB, error) {
	database, err := Initialize(cfg)
	if err != nil {
		return nil, err
	}
	if err := AutoMigrate(database); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	applog.Info(context.Background(), "database ready",
		"maxOpenConns", cfg.MaxOpenConns,
		"maxIdleConns", cfg.MaxIdleConns,
	)
	return database, nil
}
