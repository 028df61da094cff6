package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"finpulse/internal/config"
	"finpulse/internal/insights"
	applog "finpulse/internal/log"
	"finpulse/internal/persist"
)

// Prints financial observations for the current snapshot, for use from
// cron or the command line without going through the HTTP server.
func main() {
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig()).WithComponent("insights")
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.GeminiAPIKey == "" {
		logger.Error("GEMINI_API_KEY is required")
		os.Exit(1)
	}

	fileStore, err := persist.NewFileStore(cfg.SnapshotPath)
	if err != nil {
		logger.Error("Failed to open snapshot store", "error", err, "path", cfg.SnapshotPath)
		os.Exit(1)
	}

	snap, ok, err := fileStore.Load()
	if err != nil {
		logger.Error("Failed to load snapshot", "error", err, "path", cfg.SnapshotPath)
		os.Exit(1)
	}
	if !ok {
		logger.Error("No snapshot found", "path", fileStore.Path())
		os.Exit(1)
	}

	txns := snap.Transactions
	if cfg.InsightTxnLimit > 0 && len(txns) > cfg.InsightTxnLimit {
		txns = txns[:cfg.InsightTxnLimit]
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	svc := insights.NewService(insights.NewGeminiGenerator(cfg.GeminiModel, cfg.GeminiAPIKey))
	for i, observation := range svc.Observations(ctx, txns, snap.Goals) {
		fmt.Printf("%d. %s\n", i+1, observation)
	}
}
