// Package config loads application configuration from environment
// variables.  A .env file, when present, is loaded by cmd/server before
// any of these functions run.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds the core runtime configuration.  Each field corresponds to
// an environment variable.
type Config struct {
	Env             string        // APP_ENV: "dev", "test" or "prod"
	Port            string        // APP_PORT: HTTP port to listen on
	LogLevel        string        // LOG_LEVEL: debug, info, warn, error
	DBUser          string        // DB_USER
	DBPass          string        // DB_PASS (optional)
	DBHost          string        // DB_HOST
	DBPort          string        // DB_PORT
	DBName          string        // DB_NAME
	AutoMigrate     bool          // DB_AUTO_MIGRATE: apply the embedded schema on start
	DBMaxOpenConns  int           // DB_MAX_OPEN_CONNS
	DBMaxIdleConns  int           // DB_MAX_IDLE_CONNS
	DBConnLifetime  time.Duration // DB_CONN_MAX_LIFETIME
	RequestTimeout  time.Duration // REQUEST_TIMEOUT: upper bound for a handler's DB work
	ShutdownTimeout time.Duration // SHUTDOWN_TIMEOUT: grace period for in-flight requests
}

// Load reads configuration values from environment variables.  Missing
// required variables are reported together in one error.
func Load() (Config, error) {
	cfg := Config{
		Env:             envStr("APP_ENV", "dev"),
		Port:            envStr("APP_PORT", "8080"),
		LogLevel:        envStr("LOG_LEVEL", "info"),
		DBPass:          os.Getenv("DB_PASS"),
		AutoMigrate:     envBool("DB_AUTO_MIGRATE", true),
		DBMaxOpenConns:  envInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns:  envInt("DB_MAX_IDLE_CONNS", 25),
		DBConnLifetime:  envDur("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		RequestTimeout:  envDur("REQUEST_TIMEOUT", 5*time.Second),
		ShutdownTimeout: envDur("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
	var missing []string
	must := func(key string) string {
		v, ok := os.LookupEnv(key)
		if !ok || strings.TrimSpace(v) == "" {
			missing = append(missing, key)
		}
		return v
	}
	cfg.DBUser = must("DB_USER")
	cfg.DBHost = must("DB_HOST")
	cfg.DBPort = must("DB_PORT")
	cfg.DBName = must("DB_NAME")
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("missing required env vars: %s", strings.Join(missing, ", "))
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 5 * time.Second
	}
	return cfg, nil
}

// IsDev reports whether the application runs in the development
// environment.
func (c Config) IsDev() bool { return strings.EqualFold(c.Env, "dev") }

// DSN builds the MySQL data source name.  parseTime=true maps DATE
// columns to time.Time and loc=UTC keeps them consistent.
func (c Config) DSN() string {
	auth := c.DBUser
	if c.DBPass != "" {
		auth = fmt.Sprintf("%s:%s", c.DBUser, c.DBPass)
	}
	return fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, c.DBHost, c.DBPort, c.DBName)
}
