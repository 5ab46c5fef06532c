package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"spese/internal/amqp"
	"spese/internal/app"
	"spese/internal/config"
	"spese/internal/export"
	"spese/internal/log"
	"spese/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	cfg := config.Load()
	logger := log.New(log.Config{
		Level:     log.ParseLevel(cfg.LogLevel),
		Format:    cfg.LogFormat,
		Component: log.ComponentApp,
		Output:    os.Stdout,
	})
	log.SetDefault(logger)
	logger.Info("Starting spese-worker")

	if !cfg.EventsEnabled() {
		logger.Error("AMQP_URL is required for the report worker")
		os.Exit(1)
	}
	if cfg.DataBackend != "sqlite" {
		logger.Warn("Worker is not using the sqlite backend, reports will only see this process's records",
			"backend", cfg.DataBackend)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize application", log.FieldError, err)
		os.Exit(1)
	}
	defer a.Close()

	writer, err := export.ByName(cfg.ReportsFormat)
	if err != nil {
		logger.Error("Invalid reports format", log.FieldError, err, "format", cfg.ReportsFormat)
		os.Exit(1)
	}
	reports := worker.NewReportWorker(a.Records, writer, cfg.ReportsDir, cfg.DisplayCurrency, logger)

	consumer, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger.WithComponent(log.ComponentAMQP))
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}
	defer consumer.Close()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return consumer.ConsumeRecordsChanged(gctx, reports.HandleRecordsChanged)
	})
	g.Go(func() error {
		return a.RunBackground(gctx)
	})

	logger.Info("Worker running",
		"reports_dir", cfg.ReportsDir,
		"format", cfg.ReportsFormat,
		"queue", cfg.AMQPQueue)

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Message consumption failed", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Worker shutdown complete")
}
