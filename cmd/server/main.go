package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/solofarma/alerts/internal/config"
	"github.com/solofarma/alerts/internal/mailer"
	"github.com/solofarma/alerts/internal/repository/postgres"
	"github.com/solofarma/alerts/internal/server"
	"github.com/solofarma/alerts/internal/services/evaluator"
)

// Constants for different environment types.
const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"
)

const shutdownTimeout = 10 * time.Second

// main is the entry point of the application.
func main() {
	// Create a context that will be canceled when an interrupt signal is received.
	// This allows for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad()

	// Set up the logger based on the environment.
	logger := setupLogger(cfg.Env)

	// The repository owns the store connection lifecycle: construction,
	// credential validation (ping) and teardown all happen here, not in the
	// evaluation logic.
	repo, err := postgres.NewRepository(ctx, logger, cfg.Postgres.DSN, cfg.Postgres.QueryTimeout)
	if err != nil {
		log.Fatalf("Failed to init repository: %v", err)
	}
	defer repo.Close()

	alertMailer, err := mailer.New(logger,
		cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password,
		cfg.SMTP.From, cfg.SMTP.SendTimeout)
	if err != nil {
		log.Fatalf("Failed to init mailer: %v", err)
	}

	alertEvaluator := evaluator.New(logger, repo, alertMailer)

	srv := server.New(logger, cfg.HTTPAddr, alertEvaluator, repo)

	logger.InfoContext(ctx, "Application started. Press Ctrl+C to stop.")

	// Start the HTTP server in a goroutine to allow main to listen for signals.
	go func() {
		if err := srv.Start(); err != nil {
			logger.Error("HTTP server stopped unexpectedly", "error", err)
			stop()
		}
	}()

	// Wait for the context to be canceled (e.g., by Ctrl+C).
	<-ctx.Done()

	logger.Info("Shutdown signal received. Stopping application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("Failed to stop HTTP server gracefully", "error", err)
	}

	logger.Info("Application stopped gracefully.")
}

// setupLogger initializes and returns a logger based on the environment provided.
func setupLogger(env string) *slog.Logger {
	var logger *slog.Logger

	switch env {
	case envLocal:
		logger = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelDebug,
				AddSource: true,
			}),
		)
	case envDev:
		logger = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	case envProd:
		logger = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelWarn,
			}),
		)
	default:
		logger = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelError,
			}),
		)

		logger.Error(
			"The env parameter was not specified or was invalid. Logging will be minimal, by default.",
			slog.String("available_envs", "local, development, production"))
	}

	return logger
}
