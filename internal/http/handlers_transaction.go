package http

import (
	"net/http"

	"cebim/internal/core"
)

type createTransactionRequest struct {
	Amount      string `json:"amount"`
	Description string `json:"description"`
	Type        string `json:"type"`
	CategoryID  string `json:"categoryId"`
}

// handleListTransactions returns all transactions, newest first. An optional
// categoryId query parameter narrows the result to a single category.
func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	var txs []core.Transaction
	if categoryID := r.URL.Query().Get("categoryId"); categoryID != "" {
		txs = s.svc.CategoryTransactions(r.Context(), categoryID)
	} else {
		txs = s.svc.Transactions(r.Context())
	}
	writeJSON(w, http.StatusOK, core.SortByDateDesc(txs))
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, core.ErrInvalidAmount.Error())
		return
	}

	tx, err := s.svc.AddTransaction(r.Context(), req.CategoryID,
		core.Money{Cents: cents}, req.Description, core.TransactionType(req.Type))
	if err == core.ErrNotFound {
		writeError(w, http.StatusNotFound, "category not found")
		return
	}
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, tx)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.RemoveTransaction(r.Context(), r.PathValue("id")); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
