package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"mutuo/internal/amqp"
	"mutuo/internal/config"
	"mutuo/internal/log"
	"mutuo/internal/sheets"
	gsheet "mutuo/internal/sheets/google"
	"mutuo/internal/sheets/memory"
	"mutuo/internal/storage"
	"mutuo/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)
	workerLog := logger.WithComponent(log.ComponentWorker)

	workerLog.Info("Starting mutuo-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		workerLog.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		workerLog.Error("Failed to initialize quote storage", log.FieldError, err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	// Without a spreadsheet ID, exports land in an in-memory ledger. That
	// keeps the worker runnable locally with the full pipeline.
	var ledger sheets.LedgerWriter
	if cfg.GoogleSpreadsheetID != "" {
		client, err := gsheet.NewFromEnv(context.Background())
		if err != nil {
			workerLog.Error("Failed to initialize Google Sheets client", log.FieldError, err)
			os.Exit(1)
		}
		ledger = client
		workerLog.Info("Google Sheets ledger initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		ledger = memory.New()
		workerLog.Info("No GOOGLE_SPREADSHEET_ID set, using in-memory ledger")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		workerLog.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	syncWorker := worker.NewSyncWorker(repo, ledger, cfg.SyncBatchSize)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Pick up anything recorded while the worker was down.
	if err := syncWorker.StartupSyncCheck(ctx); err != nil {
		workerLog.Error("Startup sync check failed", log.FieldError, err)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return amqpClient.ConsumeQuoteRecorded(gctx, syncWorker.HandleQuoteRecorded)
	})

	g.Go(func() error {
		ticker := time.NewTicker(cfg.SyncInterval)
		defer ticker.Stop()

		for {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case <-ticker.C:
				if err := syncWorker.ProcessPendingQuotes(gctx); err != nil {
					workerLog.Error("Periodic sync failed", log.FieldError, err)
				}
			}
		}
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		workerLog.Error("Worker stopped with error", log.FieldError, err)
		os.Exit(1)
	}
	workerLog.Info("Worker shutdown complete")
}
