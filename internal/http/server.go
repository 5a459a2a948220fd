// Package http exposes the JSON API over the ledger service.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"sync"
	"time"

	"cebim/internal/auth"
	"cebim/internal/ledger"
	"cebim/internal/log"
	"cebim/internal/notify"
)

// Server wires the ledger service, change broker, and optional Google
// sign-in into an http.Server.
type Server struct {
	http.Server

	svc      *ledger.Service
	broker   *notify.Broker
	sessions *auth.SessionManager
	google   *auth.Google
	logger   *log.Logger

	postLoginRedirect string

	rateLimiter  *rateLimiter
	shutdownOnce sync.Once
}

// Options carries optional server collaborators. Sessions and Google must be
// set together, leaving both nil disables authentication.
type Options struct {
	Sessions          *auth.SessionManager
	Google            *auth.Google
	PostLoginRedirect string
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, svc *ledger.Service, broker *notify.Broker, logger *log.Logger, opts Options) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
		svc:               svc,
		broker:            broker,
		sessions:          opts.Sessions,
		google:            opts.Google,
		logger:            logger.WithComponent(log.ComponentHTTP),
		postLoginRedirect: opts.PostLoginRedirect,
		rateLimiter:       newRateLimiter(),
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /api/hello", s.withMiddleware(s.handleHello))

	if s.google != nil {
		mux.HandleFunc("GET /api/auth/login", s.withMiddleware(s.handleLogin))
		mux.HandleFunc("GET /api/auth/callback", s.withMiddleware(s.handleCallback))
		mux.HandleFunc("POST /api/auth/logout", s.withMiddleware(s.handleLogout))
	}
	mux.HandleFunc("GET /api/auth/me", s.withMiddleware(s.handleMe))

	protected := func(h http.HandlerFunc) http.HandlerFunc {
		return s.withMiddleware(s.sessions.Require(h).ServeHTTP)
	}

	mux.HandleFunc("GET /api/categories", protected(s.handleListCategories))
	mux.HandleFunc("POST /api/categories", protected(s.handleCreateCategory))
	mux.HandleFunc("PUT /api/categories/{id}", protected(s.handleRenameCategory))
	mux.HandleFunc("DELETE /api/categories/{id}", protected(s.handleDeleteCategory))

	mux.HandleFunc("GET /api/transactions", protected(s.handleListTransactions))
	mux.HandleFunc("POST /api/transactions", protected(s.handleCreateTransaction))
	mux.HandleFunc("DELETE /api/transactions/{id}", protected(s.handleDeleteTransaction))

	mux.HandleFunc("GET /api/goal", protected(s.handleGetGoal))
	mux.HandleFunc("PUT /api/goal", protected(s.handleSetGoal))
	mux.HandleFunc("GET /api/goal/status", protected(s.handleGoalStatus))

	mux.HandleFunc("GET /api/reminders", protected(s.handleListReminders))
	mux.HandleFunc("POST /api/reminders", protected(s.handleCreateReminder))
	mux.HandleFunc("PUT /api/reminders/{id}", protected(s.handleUpdateReminder))
	mux.HandleFunc("DELETE /api/reminders/{id}", protected(s.handleDeleteReminder))

	mux.HandleFunc("GET /api/summary", protected(s.handleSummary))
	mux.HandleFunc("GET /api/events", protected(s.handleEvents))

	return s
}

// Shutdown stops the rate limiter cleanup goroutine and the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// withMiddleware adds security headers, rate limiting on writes, and request
// logging with a per-request ID.
func (s *Server) withMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		if isMutation(r.Method) && !s.rateLimiter.allow(clientIP) {
			s.logger.WarnContext(ctx, "rate limit exceeded",
				log.FieldClientIP, clientIP,
				log.FieldMethod, r.Method,
				log.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Cache-Control", "no-store")
		if s.svc.Degraded() {
			w.Header().Set("X-Storage-Degraded", "true")
		}

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		s.logger.InfoContext(ctx, "request completed",
			log.FieldRequestID, requestID,
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldStatusCode, rw.statusCode,
			log.FieldDuration, time.Since(start).Milliseconds(),
			log.FieldClientIP, clientIP)
	}
}

func isMutation(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

type requestIDKey struct{}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleReady reports not-ready while the storage backend is unreachable.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.svc.Degraded() {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("storage unavailable"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// handleHello is kept for compatibility with the original frontend probe.
func (s *Server) handleHello(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Hello from Express API!"})
}
