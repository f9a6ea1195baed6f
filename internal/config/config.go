// Package config provides configuration loading and validation for the checkout
// library. It uses koanf to merge environment variables with optional file overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment modes.
const (
	ModeSandbox    = "sandbox"
	ModeProduction = "production"
)

// Config holds all configuration values supplied by the host application.
type Config struct {
	// Mode selects the wallet/backend environment: sandbox or production.
	Mode string `koanf:"mode"`

	// Payment backend RPC endpoint (approve/complete/cancel).
	BackendURL string `koanf:"backend_url"`

	// Realtime payment-status feed endpoint (websocket).
	RealtimeURL string `koanf:"realtime_url"`

	// API credentials used to sign backend RPC requests.
	APIKeyID  string `koanf:"api_key_id"`
	APISecret string `koanf:"api_secret"`

	// Redis connection URL for the account-scoped remote cart document.
	RedisURL string `koanf:"redis_url"`

	// Optional Postgres URL for the payment journal. Empty disables it.
	DatabaseURL string `koanf:"database_url"`

	// Payment expiry window in seconds.
	TimeoutSeconds int `koanf:"timeout_seconds"`

	// Recovery sweep tuning.
	StalenessMinutes     int `koanf:"staleness_minutes"`
	SweepIntervalSeconds int `koanf:"sweep_interval_seconds"`

	// Prefix for generated order IDs.
	OrderPrefix string `koanf:"order_prefix"`
}

// Configuration validation errors.
var (
	ErrMissingBackendURL  = errors.New("BACKEND_URL is required")
	ErrMissingRealtimeURL = errors.New("REALTIME_URL is required")
	ErrMissingAPIKeyID    = errors.New("API_KEY_ID is required")
	ErrMissingAPISecret   = errors.New("API_SECRET is required")
	ErrMissingRedisURL    = errors.New("REDIS_URL is required")
	ErrInvalidMode        = errors.New("MODE must be sandbox or production")
	ErrInvalidTimeout     = errors.New("TIMEOUT_SECONDS must be a positive integer")
)

// Default values for non-secret configuration.
const (
	DefaultMode                 = ModeSandbox
	DefaultTimeoutSeconds       = 600
	DefaultStalenessMinutes     = 5
	DefaultSweepIntervalSeconds = 60
	DefaultOrderPrefix          = "SAPI"
)

// Load reads configuration from environment variables and an optional config file.
// Environment variables take precedence over file values.
// Returns the loaded config and a slice of validation errors (empty if valid).
// If a config file path is provided and the file cannot be loaded, an error is returned.
func Load(configFilePath string) (*Config, []error) {
	k := koanf.New(".")
	var loadErrs []error

	// Load from YAML file first if provided (lower precedence)
	if configFilePath != "" {
		if err := k.Load(file.Provider(configFilePath), yaml.Parser()); err != nil {
			return nil, []error{fmt.Errorf("failed to load config file %s: %w", configFilePath, err)}
		}
	}

	timeout, timeoutErr := getEnvIntOrDefault("TIMEOUT_SECONDS", k.Int("timeout_seconds"), DefaultTimeoutSeconds)
	if timeoutErr != nil {
		loadErrs = append(loadErrs, timeoutErr)
	}

	staleness, stalenessErr := getEnvIntOrDefault("STALENESS_MINUTES", k.Int("staleness_minutes"), DefaultStalenessMinutes)
	if stalenessErr != nil {
		loadErrs = append(loadErrs, stalenessErr)
	}

	sweepInterval, sweepErr := getEnvIntOrDefault("SWEEP_INTERVAL_SECONDS", k.Int("sweep_interval_seconds"), DefaultSweepIntervalSeconds)
	if sweepErr != nil {
		loadErrs = append(loadErrs, sweepErr)
	}

	// Build config struct, with env vars taking precedence over file values
	cfg := &Config{
		Mode:                 getEnvOrDefault("MODE", k.String("mode"), DefaultMode),
		BackendURL:           getEnvOrKoanf("BACKEND_URL", k, "backend_url"),
		RealtimeURL:          getEnvOrKoanf("REALTIME_URL", k, "realtime_url"),
		APIKeyID:             getEnvOrKoanf("API_KEY_ID", k, "api_key_id"),
		APISecret:            getEnvOrKoanf("API_SECRET", k, "api_secret"),
		RedisURL:             getEnvOrKoanf("REDIS_URL", k, "redis_url"),
		DatabaseURL:          getEnvOrKoanf("DATABASE_URL", k, "database_url"),
		TimeoutSeconds:       timeout,
		StalenessMinutes:     staleness,
		SweepIntervalSeconds: sweepInterval,
		OrderPrefix:          getEnvOrDefault("ORDER_PREFIX", k.String("order_prefix"), DefaultOrderPrefix),
	}

	// Validate and collect errors
	errs := cfg.Validate()
	errs = append(loadErrs, errs...)

	return cfg, errs
}

// getEnvOrKoanf returns the environment variable value if set, otherwise the koanf value.
func getEnvOrKoanf(envKey string, k *koanf.Koanf, koanfKey string) string {
	if val := os.Getenv(envKey); val != "" {
		return val
	}
	return k.String(koanfKey)
}

// getEnvOrDefault returns the environment variable value if set, otherwise the koanf value, or default.
func getEnvOrDefault(envKey string, koanfVal string, defaultVal string) string {
	if val := os.Getenv(envKey); val != "" {
		return val
	}
	if koanfVal != "" {
		return koanfVal
	}
	return defaultVal
}

// getEnvIntOrDefault returns the environment variable as int if set, otherwise the koanf value, or default.
// Returns an error if the environment variable is set but cannot be parsed as an integer.
func getEnvIntOrDefault(envKey string, koanfVal int, defaultVal int) (int, error) {
	if val := os.Getenv(envKey); val != "" {
		i, err := strconv.Atoi(val)
		if err != nil {
			return 0, fmt.Errorf("%s must be a valid integer: %w", envKey, err)
		}
		return i, nil
	}
	if koanfVal != 0 {
		return koanfVal, nil
	}
	return defaultVal, nil
}

// Validate checks that all required configuration values are present and coherent.
// Returns a slice of validation errors (empty if valid).
func (c *Config) Validate() []error {
	var errs []error

	if c.Mode != ModeSandbox && c.Mode != ModeProduction {
		errs = append(errs, ErrInvalidMode)
	}
	if c.BackendURL == "" {
		errs = append(errs, ErrMissingBackendURL)
	}
	if c.RealtimeURL == "" {
		errs = append(errs, ErrMissingRealtimeURL)
	}
	if c.APIKeyID == "" {
		errs = append(errs, ErrMissingAPIKeyID)
	}
	if c.APISecret == "" {
		errs = append(errs, ErrMissingAPISecret)
	}
	if c.RedisURL == "" {
		errs = append(errs, ErrMissingRedisURL)
	}
	if c.TimeoutSeconds <= 0 {
		errs = append(errs, ErrInvalidTimeout)
	}

	return errs
}

// LogSummary returns a summary of the configuration suitable for logging.
// All secrets are masked to prevent accidental exposure.
func (c *Config) LogSummary() map[string]string {
	return map[string]string{
		"mode":                   c.Mode,
		"backend_url":            c.BackendURL,
		"realtime_url":           c.RealtimeURL,
		"api_key_id":             c.APIKeyID,
		"api_secret":             maskSecret(c.APISecret),
		"redis_url":              maskURL(c.RedisURL),
		"database_url":           maskURL(c.DatabaseURL),
		"timeout_seconds":        fmt.Sprintf("%d", c.TimeoutSeconds),
		"staleness_minutes":      fmt.Sprintf("%d", c.StalenessMinutes),
		"sweep_interval_seconds": fmt.Sprintf("%d", c.SweepIntervalSeconds),
		"order_prefix":           c.OrderPrefix,
	}
}

// maskSecret masks a secret value, showing only the first 4 characters followed by ****
// If the secret is shorter than 8 characters, it's fully masked.
func maskSecret(s string) string {
	if s == "" {
		return "<not set>"
	}
	if len(s) < 8 {
		return "****"
	}
	return s[:4] + "****"
}

// maskURL masks the password in a connection URL, if one is present.
func maskURL(s string) string {
	if s == "" {
		return "<not set>"
	}

	schemeEnd := strings.Index(s, "://")
	if schemeEnd == -1 {
		return maskSecret(s)
	}

	rest := s[schemeEnd+3:]
	atIndex := strings.Index(rest, "@")
	if atIndex == -1 {
		return s // No credentials in URL
	}

	colonIndex := strings.Index(rest[:atIndex], ":")
	if colonIndex == -1 {
		return s // No password (only username)
	}

	scheme := s[:schemeEnd+3]
	user := rest[:colonIndex]
	hostAndPath := rest[atIndex:]

	return scheme + user + ":****" + hostAndPath
}
