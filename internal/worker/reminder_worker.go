package worker

import (
	"context"
	"time"

	"cebim/internal/core"
	"cebim/internal/log"
)

// ReminderStore is the slice of the ledger the reminder job needs.
type ReminderStore interface {
	Reminders(ctx context.Context) []core.Reminder
	UpdateReminder(ctx context.Context, id string, upd core.Reminder) (core.Reminder, error)
}

// ReminderWorker rolls recurring payment reminders forward once their due
// date has passed. One-off reminders are left alone so they stay visible as
// overdue until the user removes them.
type ReminderWorker struct {
	store  ReminderStore
	logger *log.Logger
	now    func() time.Time
}

func NewReminderWorker(store ReminderStore, logger *log.Logger) *ReminderWorker {
	return &ReminderWorker{
		store:  store,
		logger: logger.WithComponent(log.ComponentReminder),
		now:    time.Now,
	}
}

// ProcessDue advances every recurring reminder whose due date is in the
// past. A reminder overdue by several periods is advanced to the first due
// date in the future.
func (w *ReminderWorker) ProcessDue(ctx context.Context) error {
	now := w.now()
	rolled := 0

	for _, rem := range w.store.Reminders(ctx) {
		if !rem.IsRecurring || !rem.DueDate.Before(now) {
			continue
		}

		next := rem.DueDate
		for next.Before(now) {
			next = advance(next, rem.Frequency)
		}

		upd := rem
		upd.DueDate = next
		if _, err := w.store.UpdateReminder(ctx, rem.ID, upd); err != nil {
			if err == core.ErrNotFound {
				continue
			}
			return err
		}
		rolled++
		w.logger.InfoContext(ctx, "reminder rolled forward",
			log.FieldOperation, log.OpRollover,
			log.FieldReminderID, rem.ID,
			"due_date", next.Format("2006-01-02"),
			"frequency", string(rem.Frequency))
	}

	if rolled > 0 {
		w.logger.InfoContext(ctx, "reminder pass completed", "rolled", rolled)
	}
	return nil
}

func advance(t time.Time, freq core.Frequency) time.Time {
	if freq == core.Yearly {
		return t.AddDate(1, 0, 0)
	}
	return t.AddDate(0, 1, 0)
}
