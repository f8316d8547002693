package main

import (
	"context"
	"errors"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"purse/internal/cache"
	"purse/internal/cli"
	plog "purse/internal/log"
	"purse/internal/sheets"
	gsheet "purse/internal/sheets/google"
	sheetsmem "purse/internal/sheets/memory"
	"purse/internal/worker"
)

const cacheCleanupInterval = 10 * time.Minute

func main() {
	bootLogger := cli.SetupLogger(nil, plog.ComponentWorker)
	if err := cli.LoadEnvFile(); err != nil {
		bootLogger.Error("Failed to load env file", "error", err)
		os.Exit(1)
	}

	cfg := cli.LoadAndValidateConfig(bootLogger.Logger)
	logger := cli.SetupLogger(cfg, plog.ComponentWorker)
	logger.Info("Starting sheets-worker",
		"backend", cfg.DataBackend,
		"batch_size", cfg.SyncBatchSize,
		"sync_interval", cfg.SyncInterval)

	ctx, cancel := cli.SignalContext(logger.Logger)
	defer cancel()

	res, err := cli.OpenLedger(ctx, logger.Logger, cfg)
	if err != nil {
		logger.Error("Failed to open ledger", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := res.Cleanup(); err != nil {
			logger.Warn("Failed to close ledger", "error", err)
		}
	}()

	var writer sheets.ExpenseWriter
	if cfg.SheetsEnabled() {
		client, err := gsheet.NewFromConfig(ctx, cfg)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		writer = client
		logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		// Rows are kept in process so the ledger's export state still advances.
		writer = sheetsmem.New()
		logger.Warn("GOOGLE_SPREADSHEET_ID not set - exporting to an in-memory sheet")
	}

	amqpClient, err := cli.ConnectAMQP(logger.Logger, cfg, false)
	if err != nil {
		logger.Error("Failed to connect to AMQP", "error", err)
		os.Exit(1)
	}
	if amqpClient != nil {
		defer amqpClient.Close()
	}

	syncWorker := worker.NewSyncWorker(res.Ledger, writer, cfg.SyncBatchSize)

	caches := cache.NewManager()
	if c := syncWorker.SeenCache(); c != nil {
		caches.Register(c)
	}
	caches.StartCleanup(ctx, cacheCleanupInterval)
	defer caches.Stop()

	logger.Info("Performing startup sync check...")
	if err := syncWorker.StartupSyncCheck(ctx); err != nil {
		logger.Error("Failed startup sync check", "error", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	if amqpClient != nil {
		g.Go(func() error {
			return amqpClient.ConsumeExpenseGenerated(gctx, syncWorker.HandleGenerated)
		})
	} else {
		logger.Info("AMQP disabled - relying on periodic sync only")
	}

	// Periodic sweep for expenses whose messages were lost or never sent.
	g.Go(func() error {
		ticker := time.NewTicker(cfg.SyncInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case <-ticker.C:
				n, err := syncWorker.ProcessPendingExpenses(gctx)
				if err != nil {
					logger.Error("Periodic sync failed", "error", err)
					continue
				}
				if n > 0 {
					logger.Info("Periodic sync complete", plog.FieldCount, n)
				}
			}
		}
	})

	err = g.Wait()
	logger.Info("Shutting down sheets-worker...")
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Sheets-worker stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Sheets-worker shutdown complete")
}
