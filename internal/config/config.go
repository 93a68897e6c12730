package config

import (
	"net"     // Host/port joining
	"os"      // For environment variables
	"strconv" // For string to int conversion
	"strings" // List parsing
	"time"    // Cache TTL

	"github.com/go-sql-driver/mysql" // DSN formatting
	"github.com/joho/godotenv"       // For loading .env files
	"github.com/pkg/errors"          // Error construction
	"golang.org/x/crypto/bcrypt"     // Default work factor
)

// Config holds the application configuration
type Config struct {
	AppPort    string        // Application port
	DBUser     string        // Database user
	DBPassword string        // Database password
	DBHost     string        // Database host
	DBPort     string        // Database port
	DBName     string        // Database name
	JWTSecret  string        // JWT secret key
	BcryptCost int           // Password hashing work factor
	RedisAddr  string        // Redis server address, empty disables caching
	RedisPass  string        // Redis password
	RedisDB    int           // Redis database number
	CacheTTL   time.Duration // Lifetime of cached responses
	AdminNIKs  []string      // Accounts granted the directory-wide view
	IsProd     bool          // Is production environment
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	return &Config{
		AppPort:    getEnv("APP_PORT", "8080"),                                      // Application port
		DBUser:     os.Getenv("DB_USER"),                                            // Database user
		DBPassword: os.Getenv("DB_PASSWORD"),                                        // Database password
		DBHost:     getEnv("DB_HOST", "127.0.0.1"),                                  // Database host
		DBPort:     getEnv("DB_PORT", "3306"),                                       // Database port
		DBName:     os.Getenv("DB_NAME"),                                            // Database name
		JWTSecret:  os.Getenv("JWT_SECRET"),                                         // JWT secret key
		BcryptCost: getEnvInt("BCRYPT_COST", bcrypt.DefaultCost),                    // Password hashing cost
		RedisAddr:  os.Getenv("REDIS_ADDR"),                                         // Redis server address
		RedisPass:  os.Getenv("REDIS_PASS"),                                         // Redis password
		RedisDB:    getEnvInt("REDIS_DB", 0),                                        // Redis database number
		CacheTTL:   time.Duration(getEnvInt("CACHE_TTL_SECONDS", 60)) * time.Second, // Cache lifetime
		AdminNIKs:  getEnvList("ADMIN_NIKS"),                                        // Directory administrators
		IsProd:     os.Getenv("IS_PROD") == "true",                                  // Is production environment
	}
}

// Validate reports missing settings the server cannot start without
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.DBUser == "" || c.DBName == "" {
		return errors.New("DB_USER and DB_NAME are required")
	}
	return nil
}

// DSN builds the MySQL data source name
func (c *Config) DSN() string {
	cfg := mysql.NewConfig()
	cfg.User = c.DBUser                             // Database user
	cfg.Passwd = c.DBPassword                       // Database password
	cfg.Net = "tcp"                                 // Network type
	cfg.Addr = net.JoinHostPort(c.DBHost, c.DBPort) // Host and port
	cfg.DBName = c.DBName                           // Database name
	cfg.ParseTime = true                            // Scan DATETIME into time.Time
	return cfg.FormatDSN()
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

// getEnvList splits a comma separated variable, dropping blank entries
func getEnvList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
