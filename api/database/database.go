package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"Warbler/api/config"
	"Warbler/api/models"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const sqlitePrefix = "sqlite:"

// Open connects to Postgres, or to SQLite for "sqlite:" URLs.
func Open(cfg config.DatabaseConfig, production bool, logger zerolog.Logger) (*gorm.DB, error) {
	level := gormlogger.Warn
	if cfg.LogQueries {
		level = gormlogger.Info
	}

	gormConfig := &gorm.Config{
		Logger: gormlogger.New(&logger, gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		}),
	}

	if dsn, ok := strings.CutPrefix(cfg.URL, sqlitePrefix); ok {
		return openSQLite(dsn, gormConfig)
	}

	dsn := cfg.URL
	if production && !strings.Contains(dsn, "sslmode=") {
		if strings.Contains(dsn, "?") {
			dsn += "&sslmode=require"
		} else {
			dsn += "?sslmode=require"
		}
	}

	db, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("cannot connect to postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	return db, nil
}

// OpenSQLite opens a SQLite database with foreign keys enforced. ":memory:"
// gives a private in-memory database.
func OpenSQLite(dsn string) (*gorm.DB, error) {
	return openSQLite(dsn, &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
}

func openSQLite(dsn string, gormConfig *gorm.Config) (*gorm.DB, error) {
	if dsn == "" || dsn == ":memory:" {
		dsn = "file::memory:"
	}
	if !strings.Contains(dsn, "_foreign_keys") {
		if strings.Contains(dsn, "?") {
			dsn += "&_foreign_keys=on"
		} else {
			dsn += "?_foreign_keys=on"
		}
	}

	db, err := gorm.Open(sqlite.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("cannot open sqlite: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// one connection keeps an in-memory database alive and serialises writers
	sqlDB.SetMaxOpenConns(1)

	return db, nil
}

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Message{},
		&models.Follow{},
		&models.Like{},
		&models.ResetPassword{},
	)
}

// Reset drops every table and migrates again.
func Reset(db *gorm.DB) error {
	err := db.Migrator().DropTable(
		&models.ResetPassword{},
		&models.Like{},
		&models.Follow{},
		&models.Message{},
		&models.User{},
	)
	if err != nil {
		return err
	}
	return Migrate(db)
}

func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
