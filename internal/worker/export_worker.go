// Package worker holds the background jobs driven by change messages and
// schedules.
package worker

import (
	"context"
	"fmt"
	"time"

	"cebim/internal/core"
	"cebim/internal/export"
	"cebim/internal/log"
)

// SnapshotSource provides the full persisted state for export.
type SnapshotSource interface {
	Snapshot(ctx context.Context) (core.Snapshot, error)
}

// ExportWorker mirrors the ledger to a SnapshotWriter. Change signals are
// debounced so a burst of edits produces one export; a periodic export backs
// up any missed signal.
type ExportWorker struct {
	source   SnapshotSource
	writer   export.SnapshotWriter
	debounce time.Duration
	interval time.Duration
	logger   *log.Logger

	kick chan struct{}
}

func NewExportWorker(source SnapshotSource, writer export.SnapshotWriter, debounce, interval time.Duration, logger *log.Logger) *ExportWorker {
	return &ExportWorker{
		source:   source,
		writer:   writer,
		debounce: debounce,
		interval: interval,
		logger:   logger.WithComponent(log.ComponentExport),
		kick:     make(chan struct{}, 1),
	}
}

// Signal requests an export. Safe to call from any goroutine; signals
// arriving while one is pending are coalesced.
func (w *ExportWorker) Signal() {
	select {
	case w.kick <- struct{}{}:
	default:
	}
}

// Export reads the current snapshot and writes it out.
func (w *ExportWorker) Export(ctx context.Context) error {
	snap, err := w.source.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}
	if err := w.writer.WriteSnapshot(ctx, snap); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	w.logger.InfoContext(ctx, "ledger exported",
		log.FieldOperation, log.OpExport,
		"transactions", len(snap.Transactions),
		"categories", len(snap.Categories),
		"reminders", len(snap.Reminders))
	return nil
}

// Run exports on debounced change signals and on the periodic interval until
// ctx is cancelled.
func (w *ExportWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.kick:
			if err := w.waitDebounce(ctx); err != nil {
				return err
			}
			if err := w.Export(ctx); err != nil {
				w.logger.ErrorContext(ctx, "export after change failed", log.FieldError, err)
			}
		case <-ticker.C:
			if err := w.Export(ctx); err != nil {
				w.logger.ErrorContext(ctx, "periodic export failed", log.FieldError, err)
			}
		}
	}
}

// waitDebounce absorbs further signals for the debounce window.
func (w *ExportWorker) waitDebounce(ctx context.Context) error {
	if w.debounce <= 0 {
		return nil
	}
	timer := time.NewTimer(w.debounce)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.kick:
		case <-timer.C:
			return nil
		}
	}
}
