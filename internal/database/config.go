package database

import (
	"fmt"
	"net/url"

	"expensetracker/internal/config"
)

// Supported drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds database configuration
type Config struct {
	Driver   string
	Path     string
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// NewConfig creates a new database configuration from the application config
func NewConfig(cfg *config.Config) (*Config, error) {
	c := &Config{
		Driver:   cfg.DBDriver,
		Path:     cfg.DBPath,
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	}
	switch c.Driver {
	case DriverSQLite, DriverPostgres:
		return c, nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q (use %s or %s)", c.Driver, DriverSQLite, DriverPostgres)
	}
}

// DSN returns the connection string for GORM
func (c *Config) DSN() string {
	if c.Driver == DriverSQLite {
		return c.Path + "?_busy_timeout=5000&_foreign_keys=on"
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// MigrationURL returns the database URL understood by golang-migrate
func (c *Config) MigrationURL() string {
	if c.Driver == DriverSQLite {
		return "sqlite3://" + c.Path
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     c.Host + ":" + c.Port,
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(c.SSLMode),
	}
	return u.String()
}

// migrationsDir is the embedded directory holding this driver's SQL files
func (c *Config) migrationsDir() string {
	if c.Driver == DriverSQLite {
		return "migrations/sqlite3"
	}
	return "migrations/postgres"
}
