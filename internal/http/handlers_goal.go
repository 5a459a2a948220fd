package http

import (
	"net/http"
	"time"

	"cebim/internal/core"
)

type setGoalRequest struct {
	Amount string `json:"amount"`
}

type goalResponse struct {
	Set    bool        `json:"set"`
	Amount *core.Money `json:"amount,omitempty"`
}

func (s *Server) handleGetGoal(w http.ResponseWriter, r *http.Request) {
	amount, ok := s.svc.Goal(r.Context())
	resp := goalResponse{Set: ok}
	if ok {
		resp.Amount = &amount
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSetGoal(w http.ResponseWriter, r *http.Request) {
	var req setGoalRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, core.ErrInvalidAmount.Error())
		return
	}

	if err := s.svc.SetGoal(r.Context(), core.Money{Cents: cents}); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, goalResponse{Set: true, Amount: &core.Money{Cents: cents}})
}

// handleGoalStatus reports progress against the goal for the current month.
func (s *Server) handleGoalStatus(w http.ResponseWriter, r *http.Request) {
	status, ok := s.svc.GoalStatusAt(r.Context(), time.Now())
	if !ok {
		writeJSON(w, http.StatusOK, goalResponse{Set: false})
		return
	}
	writeJSON(w, http.StatusOK, status)
}
