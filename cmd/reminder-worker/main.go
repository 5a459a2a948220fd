package main

import (
	"context"
	"os"
	"time"

	"github.com/robfig/cron/v3"

	"cebim/internal/cli"
	"cebim/internal/ledger"
	"cebim/internal/log"
	"cebim/internal/notify"
	"cebim/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentReminder)
	logger.Info("Starting reminder-worker", log.FieldOperation, log.OpStartup)

	cfg := cli.LoadAndValidateConfig(logger)
	store, cleanup := cli.OpenStore(logger, cfg)
	svc := ledger.New(store, notify.Multi{}, logger)

	reminderWorker := worker.NewReminderWorker(svc, logger)

	// Catch up immediately so a stopped worker does not delay roll-forward
	// until the next scheduled run.
	if err := reminderWorker.ProcessDue(context.Background()); err != nil {
		logger.Error("Startup reminder pass failed", log.FieldError, err)
	}

	c := cron.New()
	_, err := c.AddFunc(cfg.ReminderSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := reminderWorker.ProcessDue(ctx); err != nil {
			logger.Error("Reminder pass failed", log.FieldError, err)
		}
	})
	if err != nil {
		logger.Error("Failed to schedule reminder job", log.FieldError, err, "schedule", cfg.ReminderSchedule)
		os.Exit(1)
	}
	c.Start()
	logger.Info("Reminder schedule active", "schedule", cfg.ReminderSchedule)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		stopCtx := c.Stop()
		<-stopCtx.Done()
		if cleanup != nil {
			_ = cleanup()
		}
	})

	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker stopped gracefully")
}
