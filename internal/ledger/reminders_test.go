package ledger

import (
	"context"
	"testing"

	"cebim/internal/core"
)

func TestRemindersSortedByDueDate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	svc.AddReminder(ctx, core.Reminder{Title: "later", Amount: core.Money{Cents: 100}, DueDate: mustDate("2025-10-01")})
	svc.AddReminder(ctx, core.Reminder{Title: "soon", Amount: core.Money{Cents: 100}, DueDate: mustDate("2025-09-01")})
	svc.AddReminder(ctx, core.Reminder{Title: "also soon", Amount: core.Money{Cents: 100}, DueDate: mustDate("2025-09-01")})

	rs := svc.Reminders(ctx)
	want := []string{"soon", "also soon", "later"}
	for i, title := range want {
		if rs[i].Title != title {
			t.Fatalf("position %d = %q, want %q", i, rs[i].Title, title)
		}
	}
}

func TestAddReminderValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	bads := []core.Reminder{
		{Title: " ", Amount: core.Money{Cents: 100}, DueDate: mustDate("2025-09-01")},
		{Title: "rent", Amount: core.Money{Cents: 0}, DueDate: mustDate("2025-09-01")},
		{Title: "rent", Amount: core.Money{Cents: 100}},
		{Title: "rent", Amount: core.Money{Cents: 100}, DueDate: mustDate("2025-09-01"), IsRecurring: true},
	}
	for i, r := range bads {
		if _, err := svc.AddReminder(ctx, r); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
	if len(svc.Reminders(ctx)) != 0 {
		t.Fatalf("rejected reminders were stored")
	}
}

func TestUpdateReminder(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	r, _ := svc.AddReminder(ctx, core.Reminder{Title: "rent", Amount: core.Money{Cents: 90000}, DueDate: mustDate("2025-09-01")})

	upd := r
	upd.Title = "rent + utilities"
	upd.Amount = core.Money{Cents: 95000}
	upd.IsRecurring = true
	upd.Frequency = core.Monthly

	got, err := svc.UpdateReminder(ctx, r.ID, upd)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.ID != r.ID {
		t.Fatalf("update changed id: %q -> %q", r.ID, got.ID)
	}

	rs := svc.Reminders(ctx)
	if len(rs) != 1 || rs[0].Title != "rent + utilities" || rs[0].Frequency != core.Monthly {
		t.Fatalf("persisted = %+v", rs)
	}
}

func TestUpdateReminderMissing(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	_, err := svc.UpdateReminder(ctx, "ghost", core.Reminder{
		Title: "x", Amount: core.Money{Cents: 1}, DueDate: mustDate("2025-09-01"),
	})
	if err != core.ErrNotFound {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestRemoveReminder(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	r, _ := svc.AddReminder(ctx, core.Reminder{Title: "rent", Amount: core.Money{Cents: 100}, DueDate: mustDate("2025-09-01")})

	if err := svc.RemoveReminder(ctx, r.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(svc.Reminders(ctx)) != 0 {
		t.Fatalf("reminder still present")
	}
	if err := svc.RemoveReminder(ctx, r.ID); err != nil {
		t.Fatalf("remove stale: %v", err)
	}
}
