package db

import (
	"fmt"
	"log"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"roombook-client/config"
	"roombook-client/internal/model"
)

// Init opens the session storage database and runs migrations. Postgres
// DSNs select the postgres driver, anything else is treated as a SQLite path.
func Init(cfg config.StorageConfig) (*gorm.DB, error) {
	db, err := gorm.Open(Dialector(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	if err := db.AutoMigrate(&model.StoredRecord{}); err != nil {
		return nil, fmt.Errorf("automigrate failed: %w", err)
	}

	log.Printf("Storage ready (%s)", driverName(cfg.DSN))
	return db, nil
}

// Dialector picks the GORM driver for dsn.
func Dialector(dsn string) gorm.Dialector {
	if isPostgres(dsn) {
		return postgres.Open(dsn)
	}
	return sqlite.Open(dsn)
}

func isPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") ||
		strings.HasPrefix(dsn, "postgresql://") ||
		strings.HasPrefix(dsn, "host=")
}

func driverName(dsn string) string {
	if isPostgres(dsn) {
		return "postgres"
	}
	return "sqlite"
}
