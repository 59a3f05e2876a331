package setup

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/interviewpartner/backend/internal/infrastructure/config"
	"github.com/interviewpartner/backend/internal/llm"
	"github.com/interviewpartner/backend/internal/store"
)

func TestStoreSelection(t *testing.T) {
	st, err := Store(&config.Config{StoreBackend: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &store.MemoryStore{}, st)

	st, err = Store(&config.Config{StoreBackend: "sqlite", SQLitePath: filepath.Join(t.TempDir(), "s.db")})
	require.NoError(t, err)
	defer st.Close()
	assert.IsType(t, &store.SQLiteStore{}, st)

	_, err = Store(&config.Config{StoreBackend: "postgres"})
	assert.Error(t, err)
}

func TestGatewayProvider(t *testing.T) {
	cfg := &config.Config{
		LLMProvider:       "openai",
		LLMURL:            "http://localhost:1234/v1",
		LLMModel:          "qwen3-8b",
		LLMRequestTimeout: time.Second,
		LLMMaxAttempts:    3,
		LLMRetryBaseDelay: time.Second,
	}
	logger := Logger(cfg)

	assert.Equal(t, "openai", Gateway(cfg, logger).Backend().Name())

	cfg.LLMProvider = "ollama"
	assert.Equal(t, "ollama", Gateway(cfg, logger).Backend().Name())
	var _ llm.Gateway = Gateway(cfg, logger)
}
