package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/slotwise/adapter/cli"
	"github.com/felixgeelhaar/slotwise/internal/app"
	"github.com/felixgeelhaar/slotwise/internal/mcp"
	"github.com/felixgeelhaar/slotwise/pkg/config"
	"github.com/felixgeelhaar/slotwise/pkg/observability"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	logger := observability.LoggerFromEnv()
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		stop()
		os.Exit(1)
	}

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		stop()
		os.Exit(1)
	}
	defer container.Close()

	mcpApp := cli.NewApp(container.Engine, container.ProfileRepo, container.CalendarProvider, container.Metrics, logger)
	mcpApp.SetCurrentUserID(container.DefaultUserID)
	mcpApp.SetHealth(container.Health)
	if cfg.WidenDays > 0 {
		mcpApp.WidenDays = cfg.WidenDays
	}

	if err := mcp.Serve(ctx, cfg, mcpApp, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("mcp server failed", "error", err)
		container.Close()
		stop()
		os.Exit(1)
	}
}
