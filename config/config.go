package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/satheeshds/autodealer/logger"
)

// Config is the full runtime configuration, read from the environment.
type Config struct {
	Port string

	// Database
	DBDriver    string // sqlite or postgres
	DBPath      string
	DatabaseURL string

	// Admin login
	AdminUser         string
	AdminPasswordHash string
	SessionSecret     string
	SessionTTL        time.Duration

	// Public endpoint throttle, requests per minute per client
	PublicRatePerMin int

	// Shown on invoices
	DealerName    string
	DealerAddress string
	DealerGSTIN   string

	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

// Load reads a .env file when present and builds the config from the
// environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	ttl, err := time.ParseDuration(getEnv("SESSION_TTL", "12h"))
	if err != nil {
		return nil, fmt.Errorf("SESSION_TTL: %w", err)
	}
	rpm, err := strconv.Atoi(getEnv("PUBLIC_RATE_PER_MIN", "30"))
	if err != nil {
		return nil, fmt.Errorf("PUBLIC_RATE_PER_MIN: %w", err)
	}

	c := &Config{
		Port:              getEnv("PORT", "8080"),
		DBDriver:          getEnv("DB_DRIVER", "sqlite"),
		DBPath:            getEnv("DB_PATH", "./data/dealership.db"),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		AdminUser:         getEnv("ADMIN_USER", "admin"),
		AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
		SessionSecret:     getEnv("SESSION_SECRET", ""),
		SessionTTL:        ttl,
		PublicRatePerMin:  rpm,
		DealerName:        getEnv("DEALER_NAME", "Autodealer Motors"),
		DealerAddress:     getEnv("DEALER_ADDRESS", ""),
		DealerGSTIN:       getEnv("DEALER_GSTIN", ""),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogFormat:         getEnv("LOG_FORMAT", "console"),
		LogTimeFormat:     getEnv("LOG_TIME_FORMAT", time.RFC3339),
		LogOutput:         getEnv("LOG_OUTPUT", "stdout"),
	}

	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return c, nil
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case "sqlite":
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when DB_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("DB_DRIVER must be sqlite or postgres, got %q", c.DBDriver)
	}
	if c.SessionSecret != "" && len(c.SessionSecret) < 16 {
		return fmt.Errorf("SESSION_SECRET must be at least 16 bytes")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	if c.PublicRatePerMin <= 0 {
		return fmt.Errorf("PUBLIC_RATE_PER_MIN must be positive")
	}
	return nil
}

// LoggerConfig returns the logging part of the config.
func (c *Config) LoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

// DSN returns the connection string for the configured driver.
func (c *Config) DSN() string {
	if c.DBDriver == "postgres" {
		return c.DatabaseURL
	}
	return c.DBPath
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
