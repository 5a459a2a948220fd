package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"cebim/internal/core"
	"cebim/internal/kv"
	"cebim/internal/log"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeDomainError maps service errors onto the API contract. Mutations that
// target a record that no longer exists are treated as a completed no-op.
func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, kv.ErrUnavailable):
		writeError(w, http.StatusServiceUnavailable, "storage unavailable")
	case isValidationError(err):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		s.logger.ErrorContext(r.Context(), "request failed",
			log.FieldError, err,
			"method", r.Method,
			"url", r.URL.Path)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func isValidationError(err error) bool {
	for _, sentinel := range []error{
		core.ErrEmptyName,
		core.ErrEmptyDescription,
		core.ErrEmptyTitle,
		core.ErrInvalidAmount,
		core.ErrInvalidType,
		core.ErrInvalidDueDate,
		core.ErrInvalidFrequency,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

func decodeBody(r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
