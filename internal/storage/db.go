// Package storage provides the persistence implementations behind the
// ProjectStore and FeatureStore ports: gorm-backed stores over sqlite or
// postgres, plus in-memory stores for tests and for running without a
// database.
package storage

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mvpagent/mvpagent/internal/domain"
	"github.com/mvpagent/mvpagent/internal/logger"
)

// Recognized database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// DefaultSQLitePath is the database file used when no DSN is configured.
const DefaultSQLitePath = "mvpagent.db"

// Open connects to the configured database and migrates the schema.
func Open(driver, dsn string, logg *logger.Logger) (*gorm.DB, error) {
	gormLog := gormlogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	cfg := &gorm.Config{Logger: gormLog}

	var db *gorm.DB
	var err error

	switch driver {
	case DriverSQLite, "":
		if dsn == "" {
			dsn = DefaultSQLitePath
		}
		db, err = gorm.Open(sqlite.Open(dsn), cfg)
	case DriverPostgres:
		if dsn == "" {
			return nil, fmt.Errorf("postgres driver requires a DSN")
		}
		db, err = gorm.Open(postgres.Open(dsn), cfg)
	default:
		return nil, fmt.Errorf("unknown database driver %q", driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", driver, err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	if logg != nil {
		logg.Info("database ready", "driver", driver)
	}
	return db, nil
}

// Migrate creates or updates the schema for all persisted entities.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&domain.Project{}, &domain.Feature{}); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
