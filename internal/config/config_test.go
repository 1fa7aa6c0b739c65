package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRequiresGoogleAPIKey(t *testing.T) {
	cfg := &Config{Worker: WorkerConfig{RetryMaxAttempts: 1}}

	err := cfg.Validate()
	require.Error(t, err)

	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "GOOGLE_API_KEY", cfgErr.Field)
}

func TestValidateAcceptsMinimalConfig(t *testing.T) {
	cfg := &Config{
		Gemini: GeminiConfig{APIKey: "key"},
		Worker: WorkerConfig{RetryMaxAttempts: 1},
	}

	assert.NoError(t, cfg.Validate())
}

func TestValidateRejectsZeroWorkersWhenDatabaseEnabled(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{Enabled: true},
		Gemini:   GeminiConfig{APIKey: "key"},
		Worker:   WorkerConfig{RetryMaxAttempts: 1},
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WORKER_CONCURRENCY")
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "  secret  ")
	t.Setenv("UPLOAD_PATH", "/tmp/resumes")
	t.Setenv("DB_ENABLED", "true")
	t.Setenv("AGENT_TIMEOUT", "45s")
	t.Setenv("WORKER_CONCURRENCY", "not-a-number")

	cfg := Load()

	assert.Equal(t, "secret", cfg.Gemini.APIKey)
	assert.Equal(t, "/tmp/resumes", cfg.Storage.UploadPath)
	assert.True(t, cfg.Database.Enabled)
	assert.Equal(t, 45*time.Second, cfg.Gemini.AgentTimeout)
	assert.Equal(t, 3, cfg.Worker.Concurrency)
	assert.Equal(t, int64(52428800), cfg.Storage.MaxBodySize)
}

func TestGetDatabaseDSN(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{
		Host: "db", Port: "5433", User: "u", Password: "p", DBName: "ranker",
	}}

	assert.Equal(t, "host=db port=5433 user=u password=p dbname=ranker sslmode=disable", cfg.GetDatabaseDSN())
}
