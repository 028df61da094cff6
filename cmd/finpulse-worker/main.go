package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"finpulse/internal/amqp"
	"finpulse/internal/config"
	applog "finpulse/internal/log"
	"finpulse/internal/persist"
)

// The worker archives snapshot history: every mutation event (and a
// periodic tick, so a dead broker cannot silence archiving entirely)
// copies the current snapshot file into the SQLite archive.
func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig()).WithComponent("finpulse-worker")
	applog.SetDefault(logger)

	logger.Info("Starting finpulse-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}

	fileStore, err := persist.NewFileStore(cfg.SnapshotPath)
	if err != nil {
		logger.Error("Failed to open snapshot store", "error", err, "path", cfg.SnapshotPath)
		os.Exit(1)
	}

	archive, err := persist.NewArchiveStore(cfg.ArchiveDBPath)
	if err != nil {
		logger.Error("Failed to initialize archive store", "error", err, "path", cfg.ArchiveDBPath)
		os.Exit(1)
	}
	defer archive.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	amqpClient, err := amqp.DialWithRetry(ctx, cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to connect to AMQP broker", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	archiveSnapshot := func(ctx context.Context, triggerOp string) error {
		snap, ok, err := fileStore.Load()
		if err != nil {
			return err
		}
		if !ok {
			logger.Warn("No snapshot to archive", "path", fileStore.Path())
			return nil
		}
		id, err := archive.Append(ctx, triggerOp, snap)
		if err != nil {
			return err
		}
		logger.Info("Snapshot archived", "archive_id", id, "trigger", triggerOp)
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := amqpClient.ConsumeMutations(ctx, func(event *amqp.MutationEvent) error {
			return archiveSnapshot(ctx, event.Op)
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		ticker := time.NewTicker(cfg.ArchiveInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				if err := archiveSnapshot(ctx, "periodic"); err != nil {
					logger.Error("Periodic archive failed", "error", err)
				}
			}
		}
	})

	g.Go(func() error {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				removed, err := archive.Prune(ctx, cfg.ArchiveRetention)
				if err != nil {
					logger.Error("Archive prune failed", "error", err)
					continue
				}
				if removed > 0 {
					logger.Info("Archive pruned", "rows_removed", removed)
				}
			}
		}
	})

	if err := g.Wait(); err != nil {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker shutdown complete")
}
