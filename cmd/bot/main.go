package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/kapu/guild-jobs-bot/internal/app"
	"github.com/kapu/guild-jobs-bot/internal/health"
	"github.com/kapu/guild-jobs-bot/internal/platform/bootstrap"
)

// Version is injected at build time via -ldflags="-X main.Version=...".
var Version = "dev"

func main() {
	health.Init(Version)

	logger := bootstrap.NewLogger()
	slog.SetDefault(logger)

	finalLogger, err := app.Run(context.Background(), logger)
	if err != nil {
		finalLogger.Error("fatal", "err", err)
		os.Exit(1)
	}
}
