// Package config loads runtime settings from the environment.
// File: config/config.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything main needs to wire the service.
type Config struct {
	Port              string
	AppEnv            string
	ApplicationURL    string
	SessionSecret     string
	OperatorCredsPath string
	EndpointsPath     string
	RequestTimeout    time.Duration
	DraftIdleTimeout  time.Duration
	MetricsEnabled    bool
	TracingEnabled    bool
	LogLevel          string
	LogFormat         string
}

// Load reads an optional .env file followed by the process environment.
// Missing .env files are ignored; malformed values are reported.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("loading %s: %w", f, err)
		}
	}

	cfg := Config{
		Port:              getEnv("PORT", "8080"),
		AppEnv:            getEnv("APP_ENV", "development"),
		ApplicationURL:    getEnv("APPLICATION_URL", "http://localhost:8080"),
		SessionSecret:     getEnv("SESSION_SECRET", "secret"),
		OperatorCredsPath: getEnv("OPERATOR_CREDS_PATH", "./config/operator_creds.json"),
		EndpointsPath:     os.Getenv("ENDPOINTS_PATH"),
		LogLevel:          getEnv("LOG_LEVEL", "INFO"),
		LogFormat:         getEnv("LOG_FORMAT", "console"),
	}

	var err error
	if cfg.RequestTimeout, err = getDuration("REQUEST_TIMEOUT", 30*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.DraftIdleTimeout, err = getDuration("DRAFT_IDLE_TIMEOUT", 30*time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.MetricsEnabled, err = getBool("METRICS_ENABLED", false); err != nil {
		return Config{}, err
	}
	if cfg.TracingEnabled, err = getBool("TRACING_ENABLED", false); err != nil {
		return Config{}, err
	}

	if cfg.AppEnv == "production" && cfg.SessionSecret == "secret" {
		return Config{}, errors.New("SESSION_SECRET must be set in production")
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d, nil
}

func getBool(key string, defaultValue bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return b, nil
}
