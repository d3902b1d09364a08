package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/slotwise/adapter/cli"
	"github.com/felixgeelhaar/slotwise/adapter/cli/profile"
	"github.com/felixgeelhaar/slotwise/adapter/cli/suggest"
	"github.com/felixgeelhaar/slotwise/internal/app"
	"github.com/felixgeelhaar/slotwise/pkg/config"
	"github.com/felixgeelhaar/slotwise/pkg/observability"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// .env is read by config.Load, so the logger comes after it
	cfg, err := config.Load()
	logger := observability.LoggerFromEnv()
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		stop()
		os.Exit(1)
	}
	cli.SetLogger(logger)

	var cliApp *cli.App
	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		if !cfg.IsDevelopment() {
			logger.Error("startup failed", "error", err)
			stop()
			os.Exit(1)
		}
		// version, health and help still work without storage
		logger.Warn("profile store unavailable, only offline commands will work", "error", err)
	} else {
		defer container.Close()

		cliApp = cli.NewApp(
			container.Engine,
			container.ProfileRepo,
			container.CalendarProvider,
			container.Metrics,
			logger,
		)
		cliApp.SetCurrentUserID(container.DefaultUserID)
		cliApp.SetHealth(container.Health)
		if cfg.WidenDays > 0 {
			cliApp.WidenDays = cfg.WidenDays
		}
	}

	cli.SetApp(cliApp)

	cli.AddCommand(suggest.Cmd)
	cli.AddCommand(profile.Cmd)

	cli.ExecuteContext(ctx)
}
