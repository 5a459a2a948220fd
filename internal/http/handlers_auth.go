package http

import (
	"net/http"

	"cebim/internal/auth"
	"cebim/internal/log"
)

type authStatusResponse struct {
	Status string `json:"status"`
	Email  string `json:"email,omitempty"`
}

const (
	authStatusAuthenticated   = "authenticated"
	authStatusUnauthenticated = "unauthenticated"
	authStatusPending         = "pending"
	authStatusDisabled        = "disabled"
)

// handleLogin starts the Google authorization-code flow.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	state, err := auth.NewState()
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     auth.StateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   300,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, s.google.AuthURL(state), http.StatusFound)
}

func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	if errStr := r.URL.Query().Get("error"); errStr != "" {
		writeError(w, http.StatusBadRequest, "authorization failed: "+errStr)
		return
	}

	stateCookie, err := r.Cookie(auth.StateCookie)
	if err != nil || stateCookie.Value == "" || r.URL.Query().Get("state") != stateCookie.Value {
		writeError(w, http.StatusBadRequest, "state mismatch")
		return
	}

	email, err := s.google.Email(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		s.logger.ErrorContext(r.Context(), "OAuth exchange failed", log.FieldError, err)
		writeError(w, http.StatusBadGateway, "authorization failed")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.StateCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	if err := s.sessions.SetCookie(w, email); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	s.logger.InfoContext(r.Context(), "user signed in", log.FieldUser, email)

	redirect := s.postLoginRedirect
	if redirect == "" {
		redirect = "/"
	}
	http.Redirect(w, r, redirect, http.StatusFound)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	auth.ClearCookie(w)
	writeJSON(w, http.StatusOK, authStatusResponse{Status: authStatusUnauthenticated})
}

// handleMe reports the current session state without requiring one.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	if s.sessions == nil {
		writeJSON(w, http.StatusOK, authStatusResponse{Status: authStatusDisabled})
		return
	}

	if cookie, err := r.Cookie(auth.SessionCookie); err == nil {
		if email, err := s.sessions.Verify(cookie.Value); err == nil {
			writeJSON(w, http.StatusOK, authStatusResponse{Status: authStatusAuthenticated, Email: email})
			return
		}
	}
	// A sign-in that was redirected to the provider but has not completed
	// the callback yet still carries the state cookie.
	if _, err := r.Cookie(auth.StateCookie); err == nil {
		writeJSON(w, http.StatusOK, authStatusResponse{Status: authStatusPending})
		return
	}
	writeJSON(w, http.StatusOK, authStatusResponse{Status: authStatusUnauthenticated})
}
