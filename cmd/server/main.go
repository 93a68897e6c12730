package main

import (
	"context" // context package is needed for Redis operations

	"citizen_registry/internal/api"        // Custom package for API handlers
	"citizen_registry/internal/config"     // Custom package for configuration
	"citizen_registry/internal/db"         // Database connection
	"citizen_registry/internal/middleware" // Request metrics
	"citizen_registry/internal/service"    // Identity service
	"citizen_registry/internal/store"      // Credential store
	"citizen_registry/internal/utils"      // Hasher, token issuer and cache

	"github.com/gin-gonic/gin"                                  // Gin web framework
	"github.com/prometheus/client_golang/prometheus"            // Metrics registry
	"github.com/prometheus/client_golang/prometheus/collectors" // Runtime collectors
	"github.com/prometheus/client_golang/prometheus/promhttp"   // Metrics exposition
	"github.com/redis/go-redis/v9"                              // Redis client
	"github.com/sirupsen/logrus"                                // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	if cfg.IsProd {
		logrus.SetFormatter(&logrus.JSONFormatter{})
		gin.SetMode(gin.ReleaseMode) // Set Mode to Release if in production
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	if err := cfg.Validate(); err != nil {
		logrus.Fatalf("invalid configuration: %v", err)
	}

	// Connect to the database
	gdb, err := db.Open(cfg.DSN(), !cfg.IsProd)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}

	// Setup Redis cache when configured
	var cache utils.Cache = utils.NoopCache{}
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr, // Redis server address
			Password: cfg.RedisPass, // Redis password
			DB:       cfg.RedisDB,   // Redis database number
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logrus.Fatalf("failed to connect to Redis: %v", err)
		}
		cache = utils.NewRedisCache(redisClient)
	} else {
		logrus.Warn("REDIS_ADDR not set, response caching disabled")
	}

	hasher, err := utils.NewPasswordHasher(cfg.BcryptCost)
	if err != nil {
		logrus.Fatalf("failed to set up password hasher: %v", err)
	}
	tokens, err := utils.NewTokenIssuer(cfg.JWTSecret)
	if err != nil {
		logrus.Fatalf("failed to set up token issuer: %v", err)
	}
	users := store.NewGormStore(gdb)
	if len(cfg.AdminNIKs) == 0 {
		logrus.Warn("ADMIN_NIKS not set, no account can list the whole directory")
	}

	// Metrics on a dedicated registry
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := api.NewRouter(api.Deps{
		Service:        service.NewIdentityService(users, hasher, tokens).WithAdminNIKs(cfg.AdminNIKs...),
		Store:          users,
		Tokens:         tokens,
		Cache:          cache,
		CacheTTL:       cfg.CacheTTL,
		Metrics:        middleware.NewMetrics(reg),
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	})

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	logrus.Info("Server running on " + cfg.AppPort) // Log server start
	if err := r.Run(":" + cfg.AppPort); err != nil {
		logrus.Fatalf("server stopped: %v", err)
	}
}
