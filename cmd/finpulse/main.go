package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"finpulse/internal/amqp"
	"finpulse/internal/config"
	apphttp "finpulse/internal/http"
	"finpulse/internal/insights"
	applog "finpulse/internal/log"
	"finpulse/internal/persist"
	"finpulse/internal/services"
	"finpulse/internal/store"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	fileStore, err := persist.NewFileStore(cfg.SnapshotPath)
	if err != nil {
		logger.Error("Failed to initialize snapshot store", "error", err, "path", cfg.SnapshotPath)
		os.Exit(1)
	}

	snap, ok, err := fileStore.Load()
	if err != nil {
		logger.Error("Failed to load snapshot", "error", err, "path", cfg.SnapshotPath)
		os.Exit(1)
	}
	if !ok {
		snap = store.Seed()
		logger.Info("No usable snapshot found, starting from seed data", "path", cfg.SnapshotPath)
	}

	st := store.New(snap)

	// AMQP is optional: without a broker the archive worker simply never
	// hears about mutations.
	var publisher services.EventPublisher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer amqpClient.Close()
		publisher = amqpClient
		logger.Info("AMQP publisher initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("AMQP disabled - no AMQP_URL provided")
	}

	svc := services.NewFinanceService(st, fileStore, publisher)

	insightSvc := insights.NewService(insights.NewGeminiGenerator(cfg.GeminiModel, cfg.GeminiAPIKey))

	srv := apphttp.NewServer(":"+cfg.Port, svc, insightSvc, cfg.InsightTxnLimit)

	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second // insight calls go to a remote model
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting finpulse server", "port", cfg.Port, "snapshot", fileStore.Path())
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
