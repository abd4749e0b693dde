package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joseph-ayodele/geophoto-tracker/internal/app"
	"github.com/joseph-ayodele/geophoto-tracker/internal/common"
	"github.com/joseph-ayodele/geophoto-tracker/internal/gateway"
	"github.com/joseph-ayodele/geophoto-tracker/internal/scheduler"
	"github.com/joseph-ayodele/geophoto-tracker/internal/server"
)

func main() {
	cfg := common.LoadConfig()
	logger := common.NewLogger(cfg.Log)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	// Context with signal
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.Build(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := a.Close(); cerr != nil {
			logger.Error("close store", "error", cerr)
		}
	}()

	rebuild := scheduler.NewDebouncer(cfg.Map.Debounce, a.Processor.RenderMap,
		scheduler.WithLogger(logger), scheduler.WithName("map-rebuild"))
	defer rebuild.Stop()
	a.Processor.SetScheduler(rebuild)

	fetcher := gateway.NewMediaFetcher(gateway.MediaConfig{
		AccountSID: cfg.Messaging.AccountSID,
		AuthToken:  cfg.Messaging.AuthToken,
		Timeout:    cfg.Messaging.DownloadTimeout,
		MaxBytes:   cfg.Messaging.MaxMediaBytes,
		Dir:        cfg.OCR.WorkDir,
	}, nil, logger)

	webhook := server.NewWebhookHandler(a.Processor, fetcher, logger)
	srv := server.NewHTTPServer(cfg.Server, server.NewRouter(webhook, logger))

	var health *server.HealthServer
	if cfg.Server.GRPCHealthAddr != "" {
		health, err = server.StartHealthServer(cfg.Server.GRPCHealthAddr, logger)
		if err != nil {
			logger.Error("grpc health", "error", err)
			os.Exit(1)
		}
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http serving", "addr", srv.Addr, "map_file", a.Renderer.Path())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			logger.Error("http serve", "error", err)
		}
	}

	logger.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "error", err)
	}
	if health != nil {
		health.Stop()
	}
	logger.Info("stopped")
}
