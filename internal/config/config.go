// Package config loads server configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds everything the placement server needs to run.
type Config struct {
	Port        string // HTTP listen port
	DatabaseURL string // PostgreSQL connection URL
	APIKey      string // Gemini API key

	StorageDir     string // Directory for uploaded resume files
	StorageBaseURL string // Public base URL for stored files

	QuotaPerMinute int // AI calls allowed per minute
	QuotaPerDay    int // AI calls allowed per day

	MaxUploadBytes  int64         // Resume upload size cap
	ShutdownTimeout time.Duration // Graceful shutdown grace period
}

// Load reads configuration from the environment. GEMINI_API_KEY and
// DATABASE_URL are required; everything else has a default.
func Load() (*Config, error) {
	cfg := &Config{
		Port:            getEnvString("PORT", "8080"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		APIKey:          os.Getenv("GEMINI_API_KEY"),
		StorageDir:      getEnvString("STORAGE_DIR", "./data/resumes"),
		StorageBaseURL:  getEnvString("STORAGE_BASE_URL", "http://localhost:8080/files"),
		QuotaPerMinute:  getEnvInt("QUOTA_PER_MINUTE", 10),
		QuotaPerDay:     getEnvInt("QUOTA_PER_DAY", 1500),
		MaxUploadBytes:  getEnvInt64("MAX_UPLOAD_BYTES", 5<<20),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}

	if cfg.APIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}
	if cfg.QuotaPerMinute <= 0 || cfg.QuotaPerDay <= 0 {
		return nil, fmt.Errorf("quota limits must be positive")
	}

	return cfg, nil
}

// getEnvString gets an environment variable as a string with a default value.
func getEnvString(key string, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an environment variable as an integer with a default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvInt64 gets an environment variable as an int64 with a default value.
func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvDuration gets an environment variable as a duration with a default value.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
