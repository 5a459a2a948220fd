package http

import (
	"net/http"
	"time"

	"cebim/internal/core"
	"cebim/internal/ledger"
)

type summaryResponse struct {
	Total      core.Money             `json:"total"`
	Monthly    core.Money             `json:"monthly"`
	ByCategory []core.CategorySummary `json:"byCategory"`
	Goal       *ledger.GoalStatus     `json:"goal,omitempty"`
}

// handleSummary returns the derived balances recomputed from the full
// transaction set, plus goal progress when a goal is set.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	now := time.Now()
	txs := s.svc.Transactions(ctx)
	cats := s.svc.Categories(ctx)

	resp := summaryResponse{
		Total:      core.TotalBalance(txs),
		Monthly:    core.MonthlyBalance(txs, now),
		ByCategory: core.SummarizeByCategory(cats, txs),
	}
	if resp.ByCategory == nil {
		resp.ByCategory = []core.CategorySummary{}
	}
	if status, ok := s.svc.GoalStatusAt(ctx, now); ok {
		resp.Goal = &status
	}
	writeJSON(w, http.StatusOK, resp)
}
