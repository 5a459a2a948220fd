package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSessionRoundTrip(t *testing.T) {
	m := NewSessionManager("test-secret", time.Hour)

	token, err := m.Issue("user@example.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	email, err := m.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if email != "user@example.com" {
		t.Fatalf("email = %q, want user@example.com", email)
	}
}

func TestSessionWrongSecret(t *testing.T) {
	token, err := NewSessionManager("secret-a", time.Hour).Issue("user@example.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := NewSessionManager("secret-b", time.Hour).Verify(token); err != ErrInvalidSession {
		t.Fatalf("error = %v, want ErrInvalidSession", err)
	}
}

func TestSessionExpired(t *testing.T) {
	m := NewSessionManager("test-secret", -time.Minute)
	token, err := m.Issue("user@example.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := m.Verify(token); err != ErrInvalidSession {
		t.Fatalf("error = %v, want ErrInvalidSession", err)
	}
}

func TestRequireMiddleware(t *testing.T) {
	m := NewSessionManager("test-secret", time.Hour)
	var gotEmail string
	handler := m.Require(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotEmail, _ = EmailFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("no cookie", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/transactions", nil))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("bad token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/transactions", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "garbage"})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("valid session", func(t *testing.T) {
		token, _ := m.Issue("user@example.com")
		req := httptest.NewRequest(http.MethodGet, "/api/transactions", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if gotEmail != "user@example.com" {
			t.Fatalf("context email = %q", gotEmail)
		}
	})

	t.Run("nil manager disables auth", func(t *testing.T) {
		var disabled *SessionManager
		h := disabled.Require(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/transactions", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
	})
}

func TestNewState(t *testing.T) {
	a, err := NewState()
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	b, err := NewState()
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	if a == "" || a == b {
		t.Fatalf("states should be non-empty and distinct, got %q and %q", a, b)
	}
}
