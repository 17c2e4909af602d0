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
	for _, k := range []string{"APP_ENV", "PORT", "STORAGE_TYPE", "FIXTURE_PATH", "DATABASE_URL", "CORS_ORIGINS", "UPSTREAM_BASE_URL", "UPSTREAM_TIMEOUT"} {
		if v, ok := os.LookupEnv(k); ok {
			require.NoError(t, os.Unsetenv(k))
			t.Cleanup(func() { os.Setenv(k, v) })
		}
	}
}

func writeConfig(t *testing.T, body string) string {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("defaults when file is missing", func(t *testing.T) {
		clearEnv(t)

		cfg, err := Load("absent.yaml")
		require.NoError(t, err)
		assert.Equal(t, "8080", cfg.Server.Port)
		assert.Equal(t, StorageMemory, cfg.Storage)
		assert.Equal(t, "data/questions.json", cfg.Fixture)
		assert.Equal(t, 5*time.Second, cfg.Upstream.Timeout)
		assert.True(t, cfg.IsDevelopment())
	})

	t.Run("yaml file", func(t *testing.T) {
		clearEnv(t)
		path := writeConfig(t, `
env: production
storage: postgres
server:
  port: "9090"
postgres:
  dsn: postgres://u:p@db:5432/qotd
cors:
  origins: ["https://qotd.example"]
upstream:
  base_url: http://api:9090
  timeout: 2s
`)

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.True(t, cfg.IsProduction())
		assert.Equal(t, "9090", cfg.Server.Port)
		assert.Equal(t, StoragePostgres, cfg.Storage)
		assert.Equal(t, "postgres://u:p@db:5432/qotd", cfg.Postgres.DSN)
		assert.Equal(t, []string{"https://qotd.example"}, cfg.CORS.Origins)
		assert.Equal(t, "http://api:9090", cfg.Upstream.BaseURL)
		assert.Equal(t, 2*time.Second, cfg.Upstream.Timeout)
	})

	t.Run("env overrides file", func(t *testing.T) {
		clearEnv(t)
		path := writeConfig(t, "server:\n  port: \"9090\"\n")
		t.Setenv("PORT", "7070")
		t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
		t.Setenv("UPSTREAM_TIMEOUT", "750ms")

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "7070", cfg.Server.Port)
		assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.Origins)
		assert.Equal(t, 750*time.Millisecond, cfg.Upstream.Timeout)
	})

	t.Run("postgres without dsn", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("STORAGE_TYPE", "postgres")

		_, err := Load("")
		assert.ErrorContains(t, err, "DATABASE_URL")
	})

	t.Run("unknown storage", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("STORAGE_TYPE", "redis")

		_, err := Load("")
		assert.ErrorContains(t, err, "unknown storage type")
	})

	t.Run("malformed yaml", func(t *testing.T) {
		clearEnv(t)
		path := writeConfig(t, "server: [unclosed")

		_, err := Load(path)
		assert.ErrorContains(t, err, "failed to parse config")
	})
}
