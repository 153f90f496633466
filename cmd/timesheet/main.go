package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"timesheet/internal/cli"
	apphttp "timesheet/internal/http"
)

func main() {
	cli.LoadEnvFile()

	cfg, err := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(os.Stdout, os.Getenv("LOG_LEVEL"))
	if err != nil {
		cli.Fatal(logger, "Configuration validation failed", err)
	}

	app, err := cli.NewApp(context.Background(), cfg, logger)
	if err != nil {
		cli.Fatal(logger, "Failed to initialize application", err)
	}

	srv, err := apphttp.NewServer(apphttp.Config{
		Addr:               ":" + cfg.Port,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
	}, apphttp.Services{
		Timesheet: app.Timesheet,
		Accounts:  app.Accounts,
		Career:    app.Career,
		Stats:     app.Stats,
		Broker:    app.Broker,
		Pinger:    app.Pinger(),
	}, logger)
	if err != nil {
		_ = app.Close()
		cli.Fatal(logger, "Failed to create server", err)
	}

	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) error {
		return errors.Join(srv.Shutdown(ctx), app.Close())
	})

	logger.Info("Starting timesheet server",
		"port", cfg.Port,
		"backend", cfg.DataBackend,
		"utilization_policy", cfg.UtilizationPolicy)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		_ = app.Close()
		cli.Fatal(logger, "Server error", err)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
