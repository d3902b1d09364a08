package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/felixgeelhaar/slotwise/adapter/api"
	"github.com/felixgeelhaar/slotwise/internal/app"
	"github.com/felixgeelhaar/slotwise/pkg/config"
	"github.com/felixgeelhaar/slotwise/pkg/observability"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// .env is read by config.Load, so the logger comes after it
	cfg, err := config.Load()
	logger := observability.LoggerFromEnv()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger.Info("starting slotwise api", "addr", cfg.APIAddr)

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize container", "error", err)
		os.Exit(1)
	}
	defer container.Close()

	var metricsHandler http.Handler
	if container.Prometheus != nil {
		metricsHandler = container.Prometheus.Handler()
	}

	serverCfg := api.DefaultServerConfig()
	serverCfg.Addr = cfg.APIAddr
	if cfg.RequestTimeout > 0 {
		serverCfg.RequestTimeout = cfg.RequestTimeout
	}

	server := api.NewServer(serverCfg, api.ServerDeps{
		Slots:   api.NewSlotsHandler(container.ComputeSlotsHandler, container.DefaultUserID, cfg.WidenDays, logger),
		Profile: api.NewProfileHandler(container.GetProfileHandler, container.UpdateProfileHandler, container.DefaultUserID, logger),
		Health:  container.Health,
		Metrics: metricsHandler,
	}, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", "signal", sig)
	case err := <-errCh:
		if err != nil {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
		return
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	logger.Info("slotwise api stopped")
}
