package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/JaimeStill/steward/internal/api"
	"github.com/JaimeStill/steward/internal/config"
	"github.com/JaimeStill/steward/internal/console"
	"github.com/JaimeStill/steward/internal/infrastructure"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "steward console: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}

	// The terminal belongs to the UI, so logs go to a file.
	logFile, err := os.OpenFile(cfg.Console.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()

	infra, err := infrastructure.New(cfg, logFile)
	if err != nil {
		return err
	}

	runtime := api.NewRuntime(cfg, infra)
	domain, err := api.NewDomain(runtime)
	if err != nil {
		return err
	}

	if err := infra.Start(); err != nil {
		return err
	}
	if err := domain.Start(runtime); err != nil {
		return err
	}
	infra.Lifecycle.WaitForStartup()

	app := console.New(infra.Lifecycle.Context(), console.Deps{
		Requests:       domain.Requests,
		Profiles:       domain.Profiles,
		Investigations: domain.Investigations,
		Validations:    domain.Validations,
		Reviews:        domain.Reviews,
		Logger:         infra.Logger,
	}, cfg.Console.Reviewer)

	_, runErr := tea.NewProgram(app, tea.WithAltScreen()).Run()

	if err := infra.Lifecycle.Shutdown(shutdownTimeout(cfg)); err != nil {
		infra.Logger.Error("shutdown failed", "error", err)
	}
	return runErr
}

func shutdownTimeout(cfg *config.Config) time.Duration {
	if d := cfg.ShutdownTimeoutDuration(); d > 0 {
		return d
	}
	return 5 * time.Second
}
