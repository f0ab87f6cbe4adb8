// Package config handles application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
// Fields are populated from environment variables.
type Config struct {
	// Server settings
	Port int    // HTTP port to listen on
	Env  string // development, staging, production

	// Database
	DatabasePath string // Path to SQLite file caching simulation runs

	// Authentication
	APIKey string // API key for cache maintenance endpoints

	// Simulation
	MaxQueryYear int // Largest year the HTTP service will simulate to, 0 for no limit

	// Metrics
	MetricsEnabled bool // Serve Prometheus metrics on /metrics

	// Logging
	LogLevel  string // debug, info, warn, error
	LogFormat string // json, text
}

// Environment constants
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// DefaultMaxQueryYear bounds how far a single HTTP request may simulate.
const DefaultMaxQueryYear = 100000

// Load reads configuration from environment variables.
// It first loads a .env file if one is present.
func Load() (*Config, error) {
	// Missing .env is fine; real environment variables take precedence.
	_ = godotenv.Load()

	env := &envReader{}
	cfg := &Config{
		Port:         env.getInt("PORT", 8080),
		Env:          env.getString("ENV", EnvDevelopment),
		DatabasePath: env.getString("DATABASE_PATH", "./data/perpetual.db"),
		APIKey:       env.getString("API_KEY", ""),
		MaxQueryYear:   env.getInt("MAX_QUERY_YEAR", DefaultMaxQueryYear),
		MetricsEnabled: env.getBool("METRICS_ENABLED", true),
		LogLevel:       strings.ToLower(env.getString("LOG_LEVEL", "info")),
		LogFormat:      strings.ToLower(env.getString("LOG_FORMAT", "text")),
	}

	if err := errors.Join(env.err(), cfg.Validate()); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// LoadLogging reads only LOG_LEVEL and LOG_FORMAT. The command line uses it
// so settings that only the HTTP service reads cannot fail a table run.
func LoadLogging() (*Config, error) {
	_ = godotenv.Load()

	env := &envReader{}
	cfg := &Config{
		LogLevel:  strings.ToLower(env.getString("LOG_LEVEL", "info")),
		LogFormat: strings.ToLower(env.getString("LOG_FORMAT", "text")),
	}

	if err := cfg.validateLogging(); err != nil {
		return nil, fmt.Errorf("invalid logging configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration is present and valid.
func (c *Config) Validate() error {
	var errs []error

	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port))
	}

	switch c.Env {
	case EnvDevelopment, EnvStaging, EnvProduction:
	default:
		errs = append(errs, fmt.Errorf("ENV must be one of: development, staging, production; got %q", c.Env))
	}

	if c.DatabasePath == "" {
		errs = append(errs, errors.New("DATABASE_PATH is required"))
	}

	if c.Env == EnvProduction && c.APIKey == "" {
		errs = append(errs, errors.New("API_KEY is required in production"))
	}

	if c.MaxQueryYear < 0 {
		errs = append(errs, fmt.Errorf("MAX_QUERY_YEAR must not be negative, got %d", c.MaxQueryYear))
	}

	errs = append(errs, c.validateLogging())

	return errors.Join(errs...)
}

func (c *Config) validateLogging() error {
	var errs []error

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be one of: debug, info, warn, error; got %q", c.LogLevel))
	}

	switch c.LogFormat {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be one of: json, text; got %q", c.LogFormat))
	}

	return errors.Join(errs...)
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// Addr is the listen address for the HTTP service.
func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

// LogValue implements slog.LogValuer. The API key is never logged.
func (c *Config) LogValue() slog.Value {
	apiKey := "unset"
	if c.APIKey != "" {
		apiKey = "set"
	}
	return slog.GroupValue(
		slog.String("env", c.Env),
		slog.Int("port", c.Port),
		slog.String("database_path", c.DatabasePath),
		slog.String("api_key", apiKey),
		slog.Int("max_query_year", c.MaxQueryYear),
		slog.Bool("metrics_enabled", c.MetricsEnabled),
		slog.String("log_level", c.LogLevel),
		slog.String("log_format", c.LogFormat),
	)
}

// envReader reads environment variables, remembering values that fail to
// parse so Load can report all of them at once.
type envReader struct {
	errs []error
}

func (r *envReader) getString(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func (r *envReader) getInt(key string, defaultValue int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s must be an integer, got %q", key, value))
		return defaultValue
	}
	return n
}

func (r *envReader) getBool(key string, defaultValue bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s must be a boolean, got %q", key, value))
		return defaultValue
	}
	return b
}

func (r *envReader) err() error {
	return errors.Join(r.errs...)
}
