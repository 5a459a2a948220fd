package ledger

import (
	"context"
	"testing"

	"cebim/internal/core"
)

func TestAddCategoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	names := []string{"Salary", "Rent", "Groceries"}
	for _, n := range names {
		if _, err := svc.AddCategory(ctx, n); err != nil {
			t.Fatalf("add %q: %v", n, err)
		}
	}

	// Reading back yields an identical ordered list.
	cats := svc.Categories(ctx)
	if len(cats) != len(names) {
		t.Fatalf("got %d categories, want %d", len(cats), len(names))
	}
	for i, n := range names {
		if cats[i].Name != n {
			t.Fatalf("position %d = %q, want %q", i, cats[i].Name, n)
		}
		if cats[i].ID == "" {
			t.Fatalf("category %q has empty id", n)
		}
	}
}

func TestAddCategoryRejectsEmptyName(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)

	for _, name := range []string{"", "   ", "\t"} {
		if _, err := svc.AddCategory(ctx, name); err != core.ErrEmptyName {
			t.Fatalf("add %q error = %v, want ErrEmptyName", name, err)
		}
	}
	if store.Len() != 0 {
		t.Fatalf("rejected adds issued %d writes, want none", store.Len())
	}
}

func TestRenameCategoryPropagatesToTransactions(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	cat, _ := svc.AddCategory(ctx, "Freelance")
	for i := 0; i < 3; i++ {
		if _, err := svc.AddTransaction(ctx, cat.ID, core.Money{Cents: 1000}, "invoice", core.Income); err != nil {
			t.Fatalf("add transaction %d: %v", i, err)
		}
	}

	renamed, err := svc.RenameCategory(ctx, cat.ID, "Consulting")
	if err != nil {
		t.Fatalf("rename: %v", err)
	}
	if renamed.Name != "Consulting" {
		t.Fatalf("renamed.Name = %q", renamed.Name)
	}

	// Verifiable immediately after the rename.
	for i, tx := range svc.CategoryTransactions(ctx, cat.ID) {
		if tx.CategoryName != "Consulting" {
			t.Fatalf("transaction %d categoryName = %q, want Consulting", i, tx.CategoryName)
		}
	}
}

func TestRenameCategoryNoOps(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	cat, _ := svc.AddCategory(ctx, "Rent")

	if _, err := svc.RenameCategory(ctx, "nope", "Other"); err != core.ErrNotFound {
		t.Fatalf("rename missing error = %v, want ErrNotFound", err)
	}
	if _, err := svc.RenameCategory(ctx, cat.ID, "  "); err != core.ErrEmptyName {
		t.Fatalf("rename empty error = %v, want ErrEmptyName", err)
	}
	if got := svc.Categories(ctx)[0].Name; got != "Rent" {
		t.Fatalf("category name changed to %q by rejected rename", got)
	}
}

func TestRemoveCategoryCascades(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	keep, _ := svc.AddCategory(ctx, "Keep")
	drop, _ := svc.AddCategory(ctx, "Drop")
	svc.AddTransaction(ctx, keep.ID, core.Money{Cents: 100}, "kept", core.Income)
	svc.AddTransaction(ctx, drop.ID, core.Money{Cents: 200}, "gone", core.Income)
	svc.AddTransaction(ctx, drop.ID, core.Money{Cents: 300}, "gone too", core.Outcome)

	if err := svc.RemoveCategory(ctx, drop.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}

	// Exactly the dropped category's transactions disappear; everything
	// else, including derived balances, is untouched.
	all := svc.Transactions(ctx)
	if len(all) != 1 || all[0].Description != "kept" {
		t.Fatalf("surviving transactions = %+v", all)
	}
	if got := core.TotalBalance(all); got.Cents != 100 {
		t.Fatalf("total after cascade = %d, want 100", got.Cents)
	}
	if len(svc.CategoryTransactions(ctx, drop.ID)) != 0 {
		t.Fatalf("orphaned transactions remain under removed category")
	}
}

func TestRemoveCategoryMissingIsNoOp(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	svc.AddCategory(ctx, "Only")

	if err := svc.RemoveCategory(ctx, "stale"); err != nil {
		t.Fatalf("remove missing: %v", err)
	}
	if len(svc.Categories(ctx)) != 1 {
		t.Fatalf("no-op remove changed the list")
	}
}
