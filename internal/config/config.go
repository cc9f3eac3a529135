// Package config reads service settings from the environment and an optional
// .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds every setting the binaries read at startup.
type Config struct {
	Port string

	// DBDriver is "sqlite" or "pgx".
	DBDriver    string
	DBPath      string
	DatabaseURL string
	SeedPath    string

	// RedisAddr selects the Redis statistics cache; empty means in-process.
	RedisAddr     string
	StatsCacheTTL time.Duration

	LogLevel  string
	LogFormat string
}

var defaults = map[string]any{
	"PORT":            "8080",
	"DB_DRIVER":       "sqlite",
	"DB_PATH":         "data/app.db",
	"DATABASE_URL":    "",
	"SEED_PATH":       "data/seeds/ledger.json",
	"REDIS_ADDR":      "",
	"STATS_CACHE_TTL": "5m",
	"LOG_LEVEL":       "info",
	"LOG_FORMAT":      "json",
}

// LoadDotEnv loads .env (or the given files) into the process environment.
// Variables already set are not overridden.
func LoadDotEnv(files ...string) error {
	return godotenv.Load(files...)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for k, d := range defaults {
		v.SetDefault(k, d)
	}
	return v
}

// Load builds a Config from environment variables, applying defaults for
// unset keys, and validates it.
func Load() (Config, error) {
	v := newViper()

	cfg := Config{
		Port:          strings.TrimSpace(v.GetString("PORT")),
		DBDriver:      strings.ToLower(strings.TrimSpace(v.GetString("DB_DRIVER"))),
		DBPath:        strings.TrimSpace(v.GetString("DB_PATH")),
		DatabaseURL:   strings.TrimSpace(v.GetString("DATABASE_URL")),
		SeedPath:      strings.TrimSpace(v.GetString("SEED_PATH")),
		RedisAddr:     strings.TrimSpace(v.GetString("REDIS_ADDR")),
		StatsCacheTTL: v.GetDuration("STATS_CACHE_TTL"),
		LogLevel:      v.GetString("LOG_LEVEL"),
		LogFormat:     v.GetString("LOG_FORMAT"),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	switch c.DBDriver {
	case "sqlite":
		if c.DBPath == "" {
			errs = append(errs, errors.New("DB_PATH is required for the sqlite driver"))
		}
	case "pgx":
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the pgx driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER must be sqlite or pgx, got %q", c.DBDriver))
	}
	if c.Port == "" {
		errs = append(errs, errors.New("PORT must not be empty"))
	}
	if c.StatsCacheTTL < 0 {
		errs = append(errs, fmt.Errorf("STATS_CACHE_TTL must not be negative, got %s", c.StatsCacheTTL))
	}
	return errors.Join(errs...)
}

// DSN returns the data source name for the configured driver.
func (c Config) DSN() string {
	if c.DBDriver == "pgx" {
		return c.DatabaseURL
	}
	return c.DBPath
}

// Get returns the environment value for key, or fallback when unset or empty.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
