package db

import (
	"citizen_registry/internal/domain" // Importing domain models

	"github.com/pkg/errors"      // Error wrapping
	"github.com/sirupsen/logrus" // Logging
	"gorm.io/driver/mysql"       // MySQL driver for GORM
	"gorm.io/gorm"               // GORM ORM library
	"gorm.io/gorm/logger"        // GORM log levels
)

// Open connects to MySQL. Driver errors such as duplicate keys are translated
// into GORM sentinel errors.
func Open(dsn string, verbose bool) (*gorm.DB, error) {
	level := logger.Warn
	if verbose {
		level = logger.Info
	}
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		TranslateError: true,                          // Map driver errors to gorm.ErrDuplicatedKey and friends
		Logger:         logger.Default.LogMode(level), // SQL logging verbosity
	})
	if err != nil {
		return nil, errors.Wrap(err, "connect database")
	}
	return db, nil
}

// Migrate performs automatic migration for the database schema
func Migrate(db *gorm.DB) error {
	// AutoMigrate will create tables, missing foreign keys, constraints, columns and indexes
	if err := db.AutoMigrate(&domain.User{}, &domain.Report{}); err != nil {
		return errors.Wrap(err, "migrate schema")
	}
	logrus.Info("Migration completed.") // Log successful migration
	return nil
}
