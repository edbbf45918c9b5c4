package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "openrouter", cfg.LLM.Provider)
	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.Equal(t, "memory", cfg.Store.JobsDriver)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
llm:
  provider: openai
  model: gpt-4o-mini
scraper:
  base_url: http://scraper.internal:8000
store:
  driver: postgres
  jobs_driver: redis
  postgres:
    conn_string: postgres://localhost/articles
  redis:
    addr: localhost:6379
    ttl: 24h
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.Equal(t, "http://scraper.internal:8000", cfg.Scraper.BaseURL)
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "redis", cfg.Store.JobsDriver)
	assert.Equal(t, "postgres://localhost/articles", cfg.Store.Postgres.ConnString)
	assert.Equal(t, 24*time.Hour, time.Duration(cfg.Store.Redis.TTL))
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "sk-env")
	t.Setenv("SCRAPER_API_URL", "http://env-scraper:8000")
	t.Setenv("DATABASE_URL", "postgres://env/db")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "sk-env", cfg.LLM.APIKey)
	assert.Equal(t, "http://env-scraper:8000", cfg.Scraper.BaseURL)
	assert.Equal(t, "postgres://env/db", cfg.Store.Postgres.ConnString)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig("/nonexistent/config.yaml")
	require.Error(t, err)
}
