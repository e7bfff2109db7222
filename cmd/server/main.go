package main

import (
	"log/slog"
	"os"

	"go-social-api/internal/app"
	"go-social-api/internal/logger"
)

func main() {
	// Replaced by the configured logger once config is loaded.
	slog.SetDefault(slog.New(logger.NewPrettyHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	application, err := app.New()
	if err != nil {
		slog.Error("failed to initialize application", "error", err)
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		slog.Error("application run failed", "error", err)
		os.Exit(1)
	}
}
