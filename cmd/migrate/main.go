package main

import (
	"citizen_registry/internal/config" // Custom import path (Config)
	"citizen_registry/internal/db"     // Custom import path (Database)

	"github.com/sirupsen/logrus" // Logging
)

// Main entry point for migration
func main() {
	cfg := config.LoadConfig() // Load configuration
	if cfg.DBUser == "" || cfg.DBName == "" {
		logrus.Fatal("DB_USER and DB_NAME are required")
	}

	gdb, err := db.Open(cfg.DSN(), true)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		logrus.Fatalf("migration failed: %v", err)
	}
}
