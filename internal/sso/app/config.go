package app

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	StoreBackend string // Store backend (memory, sqlite) (default: sqlite)
	DatabaseFile string // Path to SQLite database file (default: ./sso.db)

	AdminEmail    string // Required: seeded administrator email
	AdminName     string // Seeded administrator display name (default: Administrator)
	AdminPassword string // Required: seeded administrator password

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Expired token sweep interval (default: 1h)
}

// LoadConfig reads configuration from the environment, layering a local
// .env file underneath for development convenience.
func LoadConfig() Config {
	_ = godotenv.Load()

	return Config{
		StoreBackend: getEnvOrDefault("SSO_STORE", "sqlite"),
		DatabaseFile: getEnvOrDefault("SSO_DATABASE_FILE", "sso.db"),

		AdminEmail:    os.Getenv("SSO_ADMIN_EMAIL"),
		AdminName:     getEnvOrDefault("SSO_ADMIN_NAME", "Administrator"),
		AdminPassword: os.Getenv("SSO_ADMIN_PASSWORD"),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Plain integers are treated as minutes.
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
