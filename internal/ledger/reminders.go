package ledger

import (
	"context"
	"sort"

	"cebim/internal/core"
	"cebim/internal/log"
)

func (s *Service) rawReminders(ctx context.Context) []core.Reminder {
	var rs []core.Reminder
	s.readJSON(ctx, remindersKey, &rs)
	return rs
}

// Reminders returns all payment reminders sorted ascending by due date;
// equal due dates keep insertion order.
func (s *Service) Reminders(ctx context.Context) []core.Reminder {
	rs := s.rawReminders(ctx)
	sort.SliceStable(rs, func(i, j int) bool {
		return rs[i].DueDate.Before(rs[j].DueDate)
	})
	return rs
}

// AddReminder stores a new reminder with a fresh identifier.
func (s *Service) AddReminder(ctx context.Context, r core.Reminder) (core.Reminder, error) {
	if err := r.Validate(); err != nil {
		return core.Reminder{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r.ID = s.ids.Next()
	rs := append(s.rawReminders(ctx), r)
	if err := s.saveJSON(ctx, remindersKey, rs); err != nil {
		return core.Reminder{}, err
	}
	s.changed()
	s.logger.InfoContext(ctx, "Reminder added",
		log.FieldOperation, log.OpCreate,
		log.FieldReminderID, r.ID,
		log.FieldAmountCents, r.Amount.Cents)
	return r, nil
}

// UpdateReminder replaces a reminder in place, keeping its identifier.
// Updating an id that no longer exists returns core.ErrNotFound.
func (s *Service) UpdateReminder(ctx context.Context, id string, upd core.Reminder) (core.Reminder, error) {
	if err := upd.Validate(); err != nil {
		return core.Reminder{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rs := s.rawReminders(ctx)
	for i := range rs {
		if rs[i].ID != id {
			continue
		}
		upd.ID = id
		rs[i] = upd
		if err := s.saveJSON(ctx, remindersKey, rs); err != nil {
			return core.Reminder{}, err
		}
		s.changed()
		s.logger.InfoContext(ctx, "Reminder updated",
			log.FieldOperation, log.OpUpdate,
			log.FieldReminderID, id)
		return upd, nil
	}
	return core.Reminder{}, core.ErrNotFound
}

// RemoveReminder deletes a reminder; a missing id is a silent no-op.
func (s *Service) RemoveReminder(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rs := s.rawReminders(ctx)
	for i := range rs {
		if rs[i].ID != id {
			continue
		}
		rs = append(rs[:i], rs[i+1:]...)
		if err := s.saveJSON(ctx, remindersKey, rs); err != nil {
			return err
		}
		s.changed()
		s.logger.InfoContext(ctx, "Reminder removed",
			log.FieldOperation, log.OpDelete,
			log.FieldReminderID, id)
		return nil
	}
	s.logger.Debug("Remove of unknown reminder ignored", log.FieldReminderID, id)
	return nil
}
