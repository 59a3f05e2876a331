// Package setup builds the shared dependencies every binary needs from a
// loaded config.
package setup

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/interviewpartner/backend/internal/infrastructure/config"
	"github.com/interviewpartner/backend/internal/llm"
	"github.com/interviewpartner/backend/internal/store"
)

func Logger(cfg *config.Config) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
}

// Gateway returns the retrying gateway for the configured provider.
func Gateway(cfg *config.Config, logger *slog.Logger) *llm.RetryingGateway {
	var backend llm.Backend
	switch cfg.LLMProvider {
	case "openai":
		backend = llm.NewOpenAIBackend(cfg.LLMURL, cfg.LLMAPIKey, cfg.LLMModel, cfg.LLMRequestTimeout)
	default:
		backend = llm.NewOllamaBackend(cfg.LLMURL, cfg.LLMModel, cfg.LLMRequestTimeout)
	}

	policy := llm.DefaultRetryPolicy()
	policy.MaxAttempts = cfg.LLMMaxAttempts
	policy.BaseDelay = cfg.LLMRetryBaseDelay
	return llm.NewGateway(backend, policy, logger)
}

// Store opens the configured persistence backend.
func Store(cfg *config.Config) (store.Store, error) {
	switch cfg.StoreBackend {
	case "memory":
		return store.NewMemory(), nil
	case "mysql":
		return store.NewMySQL(cfg.MySQLDSN)
	case "sqlite":
		return store.NewSQLite(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
