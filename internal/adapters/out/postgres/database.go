// Package postgres opens the service's own PostgreSQL database. Orders are owned
// by the commerce platform; the database only holds the status-change log.
package postgres

import (
	"fmt"
	"log/slog"
	"time"

	"fulfillment/internal/adapters/out/postgres/statuschangerepo"

	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Config holds the connection settings.
type Config struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN renders the key/value connection string understood by the pgx driver.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// Open connects with GORM. GORM itself only reports warnings and slow queries.
func Open(dsn string, logger *slog.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgresdriver.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	logger.Info("database connected", "component", "postgres")

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)
	return db, nil
}

// Migrate creates or updates every table the service owns.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&statuschangerepo.StatusChangeDTO{}); err != nil {
		return fmt.Errorf("migrating status_changes: %w", err)
	}
	return nil
}
