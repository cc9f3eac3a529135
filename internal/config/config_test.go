package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for k := range defaults {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "data/app.db", cfg.DSN())
	assert.Equal(t, "data/seeds/ledger.json", cfg.SeedPath)
	assert.Equal(t, 5*time.Minute, cfg.StatsCacheTTL)
	assert.Empty(t, cfg.RedisAddr)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_DRIVER", "PGX")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/ledger")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("STATS_CACHE_TTL", "30s")
	t.Setenv("PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "pgx", cfg.DBDriver)
	assert.Equal(t, "postgres://u:p@localhost:5432/ledger", cfg.DSN())
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 30*time.Second, cfg.StatsCacheTTL)
	assert.Equal(t, "9090", cfg.Port)
}

func TestLoadRejectsInvalid(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_DRIVER", "pgx")

	_, err := Load()
	assert.ErrorContains(t, err, "DATABASE_URL is required")

	t.Setenv("DB_DRIVER", "mysql")
	_, err = Load()
	assert.ErrorContains(t, err, "DB_DRIVER must be sqlite or pgx")
}

func TestLoadDotEnvDoesNotOverride(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("PORT=7070\nLOG_LEVEL=debug\n"), 0o600))
	t.Setenv("LOG_LEVEL", "warn")

	require.NoError(t, LoadDotEnv(path))
	t.Cleanup(func() { _ = os.Unsetenv("PORT") })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.Port)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestGet(t *testing.T) {
	t.Setenv("SEED_PATH", "")
	assert.Equal(t, "fallback", Get("SEED_PATH", "fallback"))

	t.Setenv("SEED_PATH", "x.json")
	assert.Equal(t, "x.json", Get("SEED_PATH", "fallback"))
}
