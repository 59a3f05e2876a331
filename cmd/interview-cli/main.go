// Command interview-cli runs a practice interview in the terminal.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/interviewpartner/backend/internal/catalog"
	"github.com/interviewpartner/backend/internal/infrastructure/config"
	"github.com/interviewpartner/backend/internal/infrastructure/setup"
	"github.com/interviewpartner/backend/internal/service"
	"github.com/interviewpartner/backend/internal/tui"
)

func main() {
	cfg := config.Load()

	// The TUI owns stdout; logs go to a file when LOG_FILE is set.
	var logOut io.Writer = io.Discard
	if path := os.Getenv("LOG_FILE"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}
	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{Level: cfg.LogLevel}))

	roles, err := catalog.Load(cfg.RolesPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading roles: %v\n", err)
		os.Exit(1)
	}
	db, err := setup.Store(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	interviews := service.NewInterviewService(roles, setup.Gateway(cfg, logger), db, service.Config{
		FeedbackDeadline:   cfg.FeedbackDeadline,
		WriteBehindWorkers: cfg.WriteBehindWorkers,
		WriteBehindBuffer:  cfg.WriteBehindBuffer,
	}, logger)
	defer interviews.Close()

	p := tea.NewProgram(tui.NewApp(interviews), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
