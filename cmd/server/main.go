package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/interviewpartner/backend/internal/api"
	"github.com/interviewpartner/backend/internal/catalog"
	"github.com/interviewpartner/backend/internal/infrastructure/config"
	"github.com/interviewpartner/backend/internal/infrastructure/setup"
	"github.com/interviewpartner/backend/internal/monitor"
	"github.com/interviewpartner/backend/internal/service"

	_ "github.com/interviewpartner/backend/docs" // generated swagger docs
)

// @title           Interview Partner API
// @version         1.0
// @description     Mock interview practice: role-based questions, adaptive follow-ups and scored feedback.

// @host      localhost:8080
// @BasePath  /

func main() {
	cfg := config.Load()
	logger := setup.Logger(cfg)

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}

// run serves until SIGINT or SIGTERM. Every dependency is closed before it
// returns, including on startup failures, so queued session writes reach
// the store.
func run(cfg *config.Config, logger *slog.Logger) error {
	// ── Dependencies ────────────────────────────────────────────────
	roles, err := catalog.Load(cfg.RolesPath)
	if err != nil {
		return fmt.Errorf("load roles from %s: %w", cfg.RolesPath, err)
	}

	db, err := setup.Store(cfg)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.StoreBackend, err)
	}
	defer db.Close()

	gateway := setup.Gateway(cfg, logger)

	health, err := monitor.NewHealthMonitor(gateway, cfg.HealthCheckSchedule, logger)
	if err != nil {
		return fmt.Errorf("schedule health checks: %w", err)
	}
	health.Start()
	defer health.Stop()

	interviews := service.NewInterviewService(roles, gateway, db, service.Config{
		FeedbackDeadline:   cfg.FeedbackDeadline,
		WriteBehindWorkers: cfg.WriteBehindWorkers,
		WriteBehindBuffer:  cfg.WriteBehindBuffer,
	}, logger)
	defer interviews.Close()

	handler := api.NewHandler(interviews, health, logger)

	// ── Routes ──────────────────────────────────────────────────────
	mux := http.NewServeMux()
	api.RegisterRoutes(mux, handler)

	// Swagger UI served at /swagger/
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	// ── Middleware chain: Logging → CORS → mux ──────────────────────
	logged := api.Logging(logger)(api.CORS(mux))

	// ── Server ──────────────────────────────────────────────────────
	// Answer and feedback requests wait on the model, so the write timeout
	// covers a full retry cycle.
	server := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           logged,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      3*cfg.LLMRequestTimeout + 30*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-sigCtx.Done()

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		logger.Info("shutting down server")
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("server forced to shutdown", "error", err)
		}
	}()

	logger.Info("starting server",
		"address", cfg.ServerAddress,
		"llm_provider", cfg.LLMProvider,
		"llm_model", cfg.LLMModel,
		"store", cfg.StoreBackend,
		"roles", roles.ListNames(),
	)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen on %s: %w", cfg.ServerAddress, err)
	}
	<-done
	logger.Info("server stopped", slog.Int("active_sessions", interviews.ActiveSessions()))
	return nil
}
