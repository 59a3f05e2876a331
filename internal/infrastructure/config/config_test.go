package config

import (
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{
		"SERVER_ADDRESS", "SHUTDOWN_TIMEOUT", "LOG_LEVEL", "ROLES_PATH", "LLM_PROVIDER", "LLM_URL",
		"LLM_MODEL", "LLM_API_KEY", "LLM_REQUEST_TIMEOUT", "LLM_MAX_ATTEMPTS", "LLM_RETRY_BASE_DELAY",
		"FEEDBACK_DEADLINE", "STORE_BACKEND", "SQLITE_PATH", "MYSQL_HOST", "MYSQL_PORT", "MYSQL_USER",
		"MYSQL_PASSWORD", "MYSQL_DATABASE", "WRITE_BEHIND_WORKERS", "WRITE_BEHIND_BUFFER",
		"HEALTH_CHECK_SCHEDULE",
	} {
		t.Setenv(k, "")
	}

	cfg := Load()
	assert.Equal(t, ":8080", cfg.ServerAddress)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, "config/roles.yaml", cfg.RolesPath)
	assert.Equal(t, "ollama", cfg.LLMProvider)
	assert.Equal(t, "http://localhost:11434", cfg.LLMURL)
	assert.Equal(t, "llama3.1:8b", cfg.LLMModel)
	assert.Equal(t, 60*time.Second, cfg.LLMRequestTimeout)
	assert.Equal(t, 3, cfg.LLMMaxAttempts)
	assert.Equal(t, time.Second, cfg.LLMRetryBaseDelay)
	assert.Equal(t, 10*time.Second, cfg.FeedbackDeadline)
	assert.Equal(t, "sqlite", cfg.StoreBackend)
	assert.Equal(t, "interview_practice.db", cfg.SQLitePath)
	assert.Equal(t, 2, cfg.WriteBehindWorkers)
	assert.Equal(t, 64, cfg.WriteBehindBuffer)
	assert.Equal(t, "@every 30s", cfg.HealthCheckSchedule)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "OpenAI")
	t.Setenv("LLM_MAX_ATTEMPTS", "5")
	t.Setenv("FEEDBACK_DEADLINE", "15s")
	t.Setenv("STORE_BACKEND", "mysql")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("MYSQL_HOST", "db")
	t.Setenv("MYSQL_PORT", "3307")
	t.Setenv("MYSQL_USER", "coach")
	t.Setenv("MYSQL_PASSWORD", "s3cret")
	t.Setenv("MYSQL_DATABASE", "practice")

	cfg := Load()
	assert.Equal(t, "openai", cfg.LLMProvider)
	assert.Equal(t, 5, cfg.LLMMaxAttempts)
	assert.Equal(t, 15*time.Second, cfg.FeedbackDeadline)
	assert.Equal(t, "mysql", cfg.StoreBackend)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.True(t, strings.HasPrefix(cfg.MySQLDSN, "coach:s3cret@tcp(db:3307)/practice?"), cfg.MySQLDSN)
	assert.Contains(t, cfg.MySQLDSN, "parseTime=true")
}
