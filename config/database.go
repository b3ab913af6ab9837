package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kendall-kelly/coach-booking-api/models"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var DB *gorm.DB

// ConnectDatabase opens the store named by cfg.DatabaseURL.
// postgres:// and postgresql:// URLs use PostgreSQL, anything else is a SQLite path.
func ConnectDatabase(cfg *Config) error {
	databaseURL := cfg.DatabaseURL
	if databaseURL == "" {
		databaseURL = "./database/fitnessma.db"
		log.Println("DATABASE_URL not set, using default:", databaseURL)
	}

	gormConfig := &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Warn)}

	var (
		db  *gorm.DB
		err error
	)
	if isPostgresURL(databaseURL) {
		db, err = gorm.Open(postgres.Open(databaseURL), gormConfig)
	} else {
		if databaseURL != ":memory:" {
			if mkErr := os.MkdirAll(filepath.Dir(databaseURL), 0755); mkErr != nil {
				return fmt.Errorf("failed to create database directory: %w", mkErr)
			}
		}
		db, err = gorm.Open(sqlite.Open(sqliteDSN(databaseURL)), gormConfig)
	}
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if db.Dialector.Name() == "sqlite" {
		// SQLite allows one writer; a single connection serializes bookings
		// and keeps :memory: databases alive across queries.
		sqlDB, err := db.DB()
		if err != nil {
			return fmt.Errorf("failed to get database instance: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	DB = db
	log.WithField("driver", db.Dialector.Name()).Info("Database connection established successfully")
	return nil
}

// Migrate creates or updates the users, coaches and appointments tables
func Migrate(db *gorm.DB) error {
	if db.Dialector.Name() == "sqlite" {
		if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	}

	if err := db.AutoMigrate(&models.User{}, &models.Coach{}, &models.Appointment{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}

// SetDB sets the database instance (primarily for testing)
func SetDB(db *gorm.DB) {
	DB = db
}

func isPostgresURL(url string) bool {
	return strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://")
}

func sqliteDSN(path string) string {
	if strings.Contains(path, "?") {
		return path
	}
	return path + "?_foreign_keys=on&_busy_timeout=5000"
}
