package main

import (
	"context" // Query cancellation
	"flag"    // Command line flags

	"citizen_registry/internal/config" // Configuration
	"citizen_registry/internal/db"     // Database connection
	"citizen_registry/internal/seed"   // Seed data
	"citizen_registry/internal/utils"  // Password hashing

	"github.com/sirupsen/logrus" // Logging
)

// Usage: seed [-seed N] [-residents N] up|down
func main() {
	seedValue := flag.Int64("seed", 1, "random seed for generated residents")
	residents := flag.Int("residents", seed.DefaultResidents, "number of residents to generate")
	flag.Parse()

	action := flag.Arg(0)
	if action != "up" && action != "down" {
		logrus.Fatal("usage: seed [-seed N] [-residents N] up|down")
	}

	cfg := config.LoadConfig() // Load configuration
	if cfg.DBUser == "" || cfg.DBName == "" {
		logrus.Fatal("DB_USER and DB_NAME are required")
	}
	gdb, err := db.Open(cfg.DSN(), false)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err)
	}
	ctx := context.Background()

	if action == "down" {
		if err := seed.Down(ctx, gdb); err != nil {
			logrus.Fatalf("seed down failed: %v", err)
		}
		return
	}

	hasher, err := utils.NewPasswordHasher(cfg.BcryptCost)
	if err != nil {
		logrus.Fatalf("failed to set up password hasher: %v", err)
	}
	users, err := seed.Users(hasher, seed.Options{Seed: *seedValue, Residents: *residents})
	if err != nil {
		logrus.Fatalf("generate seed users: %v", err)
	}
	if err := seed.Up(ctx, gdb, users); err != nil {
		logrus.Fatalf("seed up failed: %v", err)
	}
}
