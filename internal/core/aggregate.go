package core

import (
	"sort"
	"time"
)

// Balances are never stored; every total below is recomputed from the full
// snapshot on each call. Summation is left-to-right over the given slice so
// repeated runs over an unchanged snapshot are bit-identical.

// TotalBalance is the signed sum over all transactions.
func TotalBalance(txs []Transaction) Money {
	var cents int64
	for _, t := range txs {
		cents += t.Signed()
	}
	return Money{Cents: cents}
}

// CategoryBalance is the signed sum restricted to one category.
func CategoryBalance(categoryID string, txs []Transaction) Money {
	var cents int64
	for _, t := range txs {
		if t.CategoryID == categoryID {
			cents += t.Signed()
		}
	}
	return Money{Cents: cents}
}

// MonthBounds returns the half-open interval [first day of ref's month,
// first day of the next month) in ref's location.
func MonthBounds(ref time.Time) (start, end time.Time) {
	start = time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
	return start, start.AddDate(0, 1, 0)
}

// MonthlyBalance is the signed sum restricted to transactions dated within
// ref's calendar month, local time, first and last day inclusive.
func MonthlyBalance(txs []Transaction, ref time.Time) Money {
	start, end := MonthBounds(ref)
	var cents int64
	for _, t := range txs {
		d := t.Date.In(ref.Location())
		if !d.Before(start) && d.Before(end) {
			cents += t.Signed()
		}
	}
	return Money{Cents: cents}
}

// SortByDateDesc returns a new slice ordered by date descending. The sort is
// stable: transactions sharing a date keep their insertion order.
func SortByDateDesc(txs []Transaction) []Transaction {
	out := make([]Transaction, len(txs))
	copy(out, txs)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}

// Progress describes how the current month measures against the goal.
type Progress struct {
	Remaining Money   `json:"remaining"`
	Percent   float64 `json:"percent"`
}

// GoalProgress compares the goal with the current month balance. Percent is
// clamped to [0, 100]; a zero goal yields zero percent rather than a
// division by zero.
func GoalProgress(goal, balance Money) Progress {
	p := Progress{Remaining: Money{Cents: goal.Cents - balance.Cents}}
	if goal.Cents == 0 {
		return p
	}
	percent := float64(balance.Cents) / float64(goal.Cents) * 100
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	p.Percent = percent
	return p
}

// CategorySummary is a per-category aggregate for dashboard views.
type CategorySummary struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Balance Money  `json:"balance"`
	Count   int    `json:"count"`
}

// SummarizeByCategory computes one summary row per category, in category
// list order.
func SummarizeByCategory(cats []Category, txs []Transaction) []CategorySummary {
	out := make([]CategorySummary, 0, len(cats))
	for _, c := range cats {
		row := CategorySummary{ID: c.ID, Name: c.Name}
		for _, t := range txs {
			if t.CategoryID == c.ID {
				row.Balance.Cents += t.Signed()
				row.Count++
			}
		}
		out = append(out, row)
	}
	return out
}
