package ledger

import (
	"context"
	"testing"

	"cebim/internal/core"
)

func TestAddTransaction(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	cat, _ := svc.AddCategory(ctx, "Salary")

	tx, err := svc.AddTransaction(ctx, cat.ID, core.Money{Cents: 250000}, "august pay", core.Income)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if tx.ID == "" || tx.Date.IsZero() {
		t.Fatalf("transaction missing id or date: %+v", tx)
	}
	if tx.CategoryID != cat.ID || tx.CategoryName != "Salary" {
		t.Fatalf("category reference = %q/%q", tx.CategoryID, tx.CategoryName)
	}

	got := svc.CategoryTransactions(ctx, cat.ID)
	if len(got) != 1 || got[0].ID != tx.ID {
		t.Fatalf("persisted transactions = %+v", got)
	}
}

func TestAddTransactionRejectsInvalidInput(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)
	cat, _ := svc.AddCategory(ctx, "Bills")
	writesBefore := store.Len()

	cases := []struct {
		name    string
		cents   int64
		desc    string
		typ     core.TransactionType
		wantErr error
	}{
		{"negative amount", -500, "power", core.Outcome, core.ErrInvalidAmount},
		{"zero amount", 0, "power", core.Outcome, core.ErrInvalidAmount},
		{"empty description", 100, "   ", core.Income, core.ErrEmptyDescription},
		{"bad type", 100, "power", "transfer", core.ErrInvalidType},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.AddTransaction(ctx, cat.ID, core.Money{Cents: tc.cents}, tc.desc, tc.typ)
			if err != tc.wantErr {
				t.Fatalf("error = %v, want %v", err, tc.wantErr)
			}
		})
	}

	// Ledger unchanged, no persistence write issued.
	if len(svc.CategoryTransactions(ctx, cat.ID)) != 0 {
		t.Fatalf("rejected input created records")
	}
	if store.Len() != writesBefore {
		t.Fatalf("rejected input issued writes")
	}
}

func TestAddTransactionUnknownCategory(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	if _, err := svc.AddTransaction(ctx, "ghost", core.Money{Cents: 100}, "x", core.Income); err != core.ErrNotFound {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestRemoveTransaction(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	cat, _ := svc.AddCategory(ctx, "Misc")
	a, _ := svc.AddTransaction(ctx, cat.ID, core.Money{Cents: 100}, "a", core.Income)
	b, _ := svc.AddTransaction(ctx, cat.ID, core.Money{Cents: 200}, "b", core.Outcome)

	if err := svc.RemoveTransaction(ctx, a.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	got := svc.CategoryTransactions(ctx, cat.ID)
	if len(got) != 1 || got[0].ID != b.ID {
		t.Fatalf("remaining = %+v", got)
	}

	// Stale id: silent no-op.
	if err := svc.RemoveTransaction(ctx, a.ID); err != nil {
		t.Fatalf("remove stale: %v", err)
	}
	if len(svc.CategoryTransactions(ctx, cat.ID)) != 1 {
		t.Fatalf("no-op remove changed the ledger")
	}
}

// Incremental adds and removes never drift from a from-scratch signed sum.
func TestTotalBalanceNoDrift(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	catA, _ := svc.AddCategory(ctx, "A")
	catB, _ := svc.AddCategory(ctx, "B")

	var ids []string
	ops := []struct {
		cat   string
		cents int64
		typ   core.TransactionType
	}{
		{catA.ID, 1000, core.Income},
		{catA.ID, 300, core.Outcome},
		{catB.ID, 700, core.Income},
		{catB.ID, 50, core.Outcome},
		{catA.ID, 25, core.Income},
	}
	for _, op := range ops {
		tx, err := svc.AddTransaction(ctx, op.cat, core.Money{Cents: op.cents}, "op", op.typ)
		if err != nil {
			t.Fatalf("add: %v", err)
		}
		ids = append(ids, tx.ID)
	}
	svc.RemoveTransaction(ctx, ids[1])
	svc.RemoveTransaction(ctx, ids[3])

	var want int64
	for _, tx := range svc.Transactions(ctx) {
		want += tx.Signed()
	}
	if got := core.TotalBalance(svc.Transactions(ctx)); got.Cents != want || want != 1725 {
		t.Fatalf("total = %d, recomputed = %d, want 1725", got.Cents, want)
	}
}
