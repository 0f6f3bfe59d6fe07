package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// devSessionSecret signs tokens outside production when SESSION_SECRET is unset.
const devSessionSecret = "fallback-secret-key-for-dev-only"

// Config holds application configuration
type Config struct {
	// Server
	Env     string
	Port    string
	BaseURL string

	// Database
	DBDriver   string
	DBPath     string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Sessions and password reset
	SessionSecret       string
	SessionDuration     time.Duration
	ResetTokenDuration  time.Duration
	CookieSecure        bool
	ShowResetLinkInPage bool

	// Password reset notifications (optional)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

// IsProduction reports whether the app runs with ENV=production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		Env:     getEnv("ENV", "development"),
		Port:    getEnv("PORT", "8080"),
		BaseURL: strings.TrimRight(getEnv("BASE_URL", "http://localhost:8080"), "/"),

		DBDriver:   getEnv("DB_DRIVER", "sqlite"),
		DBPath:     getEnv("DB_PATH", "expenses.db"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "expenses"),
		DBPassword: getEnv("DB_PASSWORD", "expenses"),
		DBName:     getEnv("DB_NAME", "expenses"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		SessionSecret: getEnv("SESSION_SECRET", devSessionSecret),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "expenses"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "password_resets"),
	}

	config.SessionDuration = getDuration("SESSION_EXPIRES_IN", 24*time.Hour)
	config.ResetTokenDuration = getDuration("RESET_TOKEN_EXPIRES_IN", time.Hour)
	config.CookieSecure = getBool("COOKIE_SECURE", config.IsProduction())
	config.ShowResetLinkInPage = !config.IsProduction()

	if config.IsProduction() && config.SessionSecret == devSessionSecret {
		return nil, errors.New("SESSION_SECRET must be set when ENV=production")
	}

	return config, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Printf("Warning: invalid %s value '%s', falling back to %s\n", key, raw, defaultValue)
		return defaultValue
	}
	return d
}

func getBool(key string, defaultValue bool) bool {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		log.Printf("Warning: invalid %s value '%s', falling back to %v\n", key, raw, defaultValue)
		return defaultValue
	}
	return b
}
