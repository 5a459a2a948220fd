package main

import (
	"context"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"cebim/internal/amqp"
	"cebim/internal/cli"
	"cebim/internal/export"
	exportgoogle "cebim/internal/export/google"
	exportmem "cebim/internal/export/memory"
	"cebim/internal/ledger"
	"cebim/internal/log"
	"cebim/internal/notify"
	"cebim/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentWorker)
	logger.Info("Starting cebim-worker", log.FieldOperation, log.OpStartup)

	cfg := cli.LoadAndValidateConfig(logger)
	store, cleanup := cli.OpenStore(logger, cfg)
	svc := ledger.New(store, notify.Multi{}, logger)

	var writer export.SnapshotWriter
	if cfg.ExportEnabled() {
		clientJSON, err := cfg.GoogleClientCredentials()
		if err != nil {
			logger.Error("Failed to load OAuth client credentials", log.FieldError, err)
			os.Exit(1)
		}
		tokenJSON, err := cfg.GoogleToken()
		if err != nil {
			logger.Error("Failed to load OAuth token", log.FieldError, err)
			os.Exit(1)
		}
		writer, err = exportgoogle.NewClient(context.Background(), exportgoogle.Config{
			SpreadsheetID:   cfg.GoogleSpreadsheetID,
			SheetName:       cfg.GoogleSheetName,
			OAuthClientJSON: clientJSON,
			OAuthTokenJSON:  tokenJSON,
		}, logger)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", log.FieldError, err)
			os.Exit(1)
		}
		logger.Info("Google Sheets export enabled", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		writer = exportmem.New()
		logger.Info("Google Sheets disabled - no GOOGLE_SPREADSHEET_ID provided, exporting to memory")
	}

	exportWorker := worker.NewExportWorker(svc, writer, cfg.ExportDebounce, cfg.ExportInterval, logger)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		if cleanup != nil {
			_ = cleanup()
		}
	})

	g, gctx := errgroup.WithContext(ctx)

	// Export once on startup so a restart never leaves the sheet stale.
	g.Go(func() error {
		if err := exportWorker.Export(gctx); err != nil {
			logger.Error("Startup export failed", log.FieldError, err)
		}
		return nil
	})

	g.Go(func() error {
		return exportWorker.Run(gctx)
	})

	if cfg.AMQPEnabled() {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", log.FieldError, err)
			os.Exit(1)
		}
		defer amqpClient.Close()

		g.Go(func() error {
			return amqpClient.ConsumeLedgerChanged(gctx, func(msg *amqp.LedgerChangedMessage) error {
				exportWorker.Signal()
				return nil
			})
		})
	} else {
		logger.Info("AMQP disabled - relying on periodic export only")
	}

	if err := g.Wait(); err != nil && err != context.Canceled {
		logger.Error("Worker stopped with error", log.FieldError, err)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker stopped gracefully")
}
