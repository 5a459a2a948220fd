package http

import (
	"net/http"
	"time"

	"cebim/internal/core"
)

type reminderRequest struct {
	Title       string `json:"title"`
	Amount      string `json:"amount"`
	DueDate     string `json:"dueDate"`
	Description string `json:"description"`
	IsRecurring bool   `json:"isRecurring"`
	Frequency   string `json:"frequency,omitempty"`
}

func (req reminderRequest) toReminder() (core.Reminder, error) {
	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		return core.Reminder{}, core.ErrInvalidAmount
	}
	due, err := parseDate(req.DueDate)
	if err != nil {
		return core.Reminder{}, core.ErrInvalidDueDate
	}
	return core.Reminder{
		Title:       req.Title,
		Amount:      core.Money{Cents: cents},
		DueDate:     due,
		Description: req.Description,
		IsRecurring: req.IsRecurring,
		Frequency:   core.Frequency(req.Frequency),
	}, nil
}

// parseDate accepts a plain calendar date or a full RFC 3339 timestamp.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

func (s *Server) handleListReminders(w http.ResponseWriter, r *http.Request) {
	rs := s.svc.Reminders(r.Context())
	if rs == nil {
		rs = []core.Reminder{}
	}
	writeJSON(w, http.StatusOK, rs)
}

func (s *Server) handleCreateReminder(w http.ResponseWriter, r *http.Request) {
	var req reminderRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rem, err := req.toReminder()
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	created, err := s.svc.AddReminder(r.Context(), rem)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateReminder(w http.ResponseWriter, r *http.Request) {
	var req reminderRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rem, err := req.toReminder()
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	updated, err := s.svc.UpdateReminder(r.Context(), r.PathValue("id"), rem)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteReminder(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.RemoveReminder(r.Context(), r.PathValue("id")); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
