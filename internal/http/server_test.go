package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cebim/internal/auth"
	"cebim/internal/core"
	"cebim/internal/kv"
	"cebim/internal/ledger"
	"cebim/internal/log"
	"cebim/internal/notify"
)

func newTestServer(t *testing.T, store kv.Store, opts Options) *Server {
	t.Helper()
	logger := log.New(log.DefaultConfig())
	broker := notify.NewBroker()
	svc := ledger.New(store, broker, logger)
	srv := NewServer("127.0.0.1:0", svc, broker, logger, opts)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})
	return srv
}

func doJSON(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)
	return rec
}

func decodeInto(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

func TestHello(t *testing.T) {
	srv := newTestServer(t, kv.NewMemory(), Options{})
	rec := doJSON(t, srv, http.MethodGet, "/api/hello", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp map[string]string
	decodeInto(t, rec, &resp)
	if resp["message"] != "Hello from Express API!" {
		t.Fatalf("message = %q", resp["message"])
	}
}

func TestSecurityHeaders(t *testing.T) {
	srv := newTestServer(t, kv.NewMemory(), Options{})
	rec := doJSON(t, srv, http.MethodGet, "/api/categories", nil)
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q", got)
	}
}

func TestCategoryLifecycle(t *testing.T) {
	srv := newTestServer(t, kv.NewMemory(), Options{})

	rec := doJSON(t, srv, http.MethodPost, "/api/categories", map[string]string{"name": "Salary"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d body=%s", rec.Code, rec.Body.String())
	}
	var created core.Category
	decodeInto(t, rec, &created)
	if created.ID == "" || created.Name != "Salary" {
		t.Fatalf("created = %+v", created)
	}

	rec = doJSON(t, srv, http.MethodPut, "/api/categories/"+created.ID, map[string]string{"name": "Wages"})
	if rec.Code != http.StatusOK {
		t.Fatalf("rename status = %d", rec.Code)
	}

	rec = doJSON(t, srv, http.MethodGet, "/api/categories", nil)
	var cats []core.Category
	decodeInto(t, rec, &cats)
	if len(cats) != 1 || cats[0].Name != "Wages" {
		t.Fatalf("list = %+v", cats)
	}

	rec = doJSON(t, srv, http.MethodDelete, "/api/categories/"+created.ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}

	rec = doJSON(t, srv, http.MethodGet, "/api/categories", nil)
	if rec.Body.String() != "[]\n" {
		t.Fatalf("list after delete = %q", rec.Body.String())
	}
}

func TestCategoryValidation(t *testing.T) {
	srv := newTestServer(t, kv.NewMemory(), Options{})

	rec := doJSON(t, srv, http.MethodPost, "/api/categories", map[string]string{"name": "  "})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}

	rec = doJSON(t, srv, http.MethodPut, "/api/categories/ghost", map[string]string{"name": "x"})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("rename missing status = %d, want 204", rec.Code)
	}
}

func TestTransactionEndpoints(t *testing.T) {
	srv := newTestServer(t, kv.NewMemory(), Options{})

	rec := doJSON(t, srv, http.MethodPost, "/api/categories", map[string]string{"name": "Freelance"})
	var cat core.Category
	decodeInto(t, rec, &cat)

	rec = doJSON(t, srv, http.MethodPost, "/api/transactions", map[string]string{
		"amount":      "150.50",
		"description": "Logo design",
		"type":        "income",
		"categoryId":  cat.ID,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d body=%s", rec.Code, rec.Body.String())
	}
	var tx core.Transaction
	decodeInto(t, rec, &tx)
	if tx.Amount.Cents != 15050 || tx.CategoryName != "Freelance" {
		t.Fatalf("transaction = %+v", tx)
	}

	t.Run("invalid amount", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPost, "/api/transactions", map[string]string{
			"amount": "-5", "description": "x", "type": "income", "categoryId": cat.ID,
		})
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("status = %d, want 422", rec.Code)
		}
	})

	t.Run("unknown category", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPost, "/api/transactions", map[string]string{
			"amount": "10.00", "description": "x", "type": "income", "categoryId": "ghost",
		})
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("list and filter", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet, "/api/transactions?categoryId="+cat.ID, nil)
		var txs []core.Transaction
		decodeInto(t, rec, &txs)
		if len(txs) != 1 || txs[0].ID != tx.ID {
			t.Fatalf("filtered list = %+v", txs)
		}
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodDelete, "/api/transactions/"+tx.ID, nil)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("delete status = %d", rec.Code)
		}
		rec = doJSON(t, srv, http.MethodDelete, "/api/transactions/"+tx.ID, nil)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("stale delete status = %d", rec.Code)
		}
	})
}

func TestGoalEndpoints(t *testing.T) {
	srv := newTestServer(t, kv.NewMemory(), Options{})

	rec := doJSON(t, srv, http.MethodGet, "/api/goal", nil)
	var goal goalResponse
	decodeInto(t, rec, &goal)
	if goal.Set {
		t.Fatal("goal should be unset")
	}

	rec = doJSON(t, srv, http.MethodGet, "/api/goal/status", nil)
	decodeInto(t, rec, &goal)
	if goal.Set {
		t.Fatal("status should report unset goal")
	}

	rec = doJSON(t, srv, http.MethodPut, "/api/goal", map[string]string{"amount": "1000.00"})
	if rec.Code != http.StatusOK {
		t.Fatalf("set status = %d body=%s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, srv, http.MethodGet, "/api/goal", nil)
	decodeInto(t, rec, &goal)
	if !goal.Set || goal.Amount == nil || goal.Amount.Cents != 100000 {
		t.Fatalf("goal = %+v", goal)
	}

	rec = doJSON(t, srv, http.MethodPut, "/api/goal", map[string]string{"amount": "abc"})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("invalid set status = %d, want 422", rec.Code)
	}
}

func TestReminderEndpoints(t *testing.T) {
	srv := newTestServer(t, kv.NewMemory(), Options{})

	rec := doJSON(t, srv, http.MethodPost, "/api/reminders", reminderRequest{
		Title: "Rent", Amount: "900.00", DueDate: "2026-09-01",
		IsRecurring: true, Frequency: "monthly",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d body=%s", rec.Code, rec.Body.String())
	}
	var created core.Reminder
	decodeInto(t, rec, &created)

	t.Run("bad due date", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPost, "/api/reminders", reminderRequest{
			Title: "Rent", Amount: "900.00", DueDate: "not-a-date",
		})
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("status = %d, want 422", rec.Code)
		}
	})

	t.Run("update", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPut, "/api/reminders/"+created.ID, reminderRequest{
			Title: "Rent September", Amount: "950.00", DueDate: "2026-09-01",
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("update status = %d body=%s", rec.Code, rec.Body.String())
		}
		var updated core.Reminder
		decodeInto(t, rec, &updated)
		if updated.ID != created.ID || updated.Amount.Cents != 95000 {
			t.Fatalf("updated = %+v", updated)
		}
	})

	t.Run("update missing", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPut, "/api/reminders/ghost", reminderRequest{
			Title: "x", Amount: "1.00", DueDate: "2026-09-01",
		})
		if rec.Code != http.StatusNoContent {
			t.Fatalf("status = %d, want 204", rec.Code)
		}
	})
}

func TestSummary(t *testing.T) {
	srv := newTestServer(t, kv.NewMemory(), Options{})

	rec := doJSON(t, srv, http.MethodPost, "/api/categories", map[string]string{"name": "Job"})
	var cat core.Category
	decodeInto(t, rec, &cat)

	doJSON(t, srv, http.MethodPost, "/api/transactions", map[string]string{
		"amount": "20.00", "description": "pay", "type": "income", "categoryId": cat.ID,
	})
	doJSON(t, srv, http.MethodPost, "/api/transactions", map[string]string{
		"amount": "5.00", "description": "fee", "type": "outcome", "categoryId": cat.ID,
	})

	rec = doJSON(t, srv, http.MethodGet, "/api/summary", nil)
	var resp summaryResponse
	decodeInto(t, rec, &resp)
	if resp.Total.Cents != 1500 {
		t.Fatalf("total = %d, want 1500", resp.Total.Cents)
	}
	if len(resp.ByCategory) != 1 || resp.ByCategory[0].Balance.Cents != 1500 {
		t.Fatalf("byCategory = %+v", resp.ByCategory)
	}
	if resp.Goal != nil {
		t.Fatalf("goal = %+v, want absent before one is set", resp.Goal)
	}

	doJSON(t, srv, http.MethodPut, "/api/goal", map[string]string{"amount": "10.00"})
	rec = doJSON(t, srv, http.MethodGet, "/api/summary", nil)
	decodeInto(t, rec, &resp)
	if resp.Goal == nil {
		t.Fatal("goal progress missing from summary")
	}
	if resp.Goal.Progress.Remaining.Cents != -500 || resp.Goal.Progress.Percent != 100 {
		t.Fatalf("goal progress = %+v", resp.Goal.Progress)
	}
}

type unavailableStore struct{}

func (unavailableStore) Get(ctx context.Context, key string) (string, bool, error) {
	return "", false, kv.ErrUnavailable
}
func (unavailableStore) Set(ctx context.Context, key, value string) error { return kv.ErrUnavailable }
func (unavailableStore) Delete(ctx context.Context, key string) error     { return kv.ErrUnavailable }

func TestDegradedStorage(t *testing.T) {
	srv := newTestServer(t, unavailableStore{}, Options{})

	rec := doJSON(t, srv, http.MethodGet, "/api/categories", nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "[]\n" {
		t.Fatalf("degraded read: status=%d body=%q", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, srv, http.MethodPost, "/api/categories", map[string]string{"name": "x"})
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("degraded write status = %d, want 503", rec.Code)
	}

	// The first failed read flips the flag, after which responses carry the marker.
	rec = doJSON(t, srv, http.MethodGet, "/api/categories", nil)
	if rec.Header().Get("X-Storage-Degraded") != "true" {
		t.Fatal("expected X-Storage-Degraded header once storage has failed")
	}

	rec = doJSON(t, srv, http.MethodGet, "/readyz", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("readyz status = %d, want 503", rec.Code)
	}
}

func TestRateLimit(t *testing.T) {
	srv := newTestServer(t, kv.NewMemory(), Options{})

	var last int
	for i := 0; i < requestsPerMinute+1; i++ {
		rec := doJSON(t, srv, http.MethodPost, "/api/categories",
			map[string]string{"name": fmt.Sprintf("cat-%d", i)})
		last = rec.Code
	}
	if last != http.StatusTooManyRequests {
		t.Fatalf("final status = %d, want 429", last)
	}
}

func TestAuthRequired(t *testing.T) {
	sessions := auth.NewSessionManager("test-secret", time.Hour)
	srv := newTestServer(t, kv.NewMemory(), Options{Sessions: sessions})

	rec := doJSON(t, srv, http.MethodGet, "/api/categories", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}

	rec = doJSON(t, srv, http.MethodGet, "/api/auth/me", nil)
	var status authStatusResponse
	decodeInto(t, rec, &status)
	if status.Status != authStatusUnauthenticated {
		t.Fatalf("me status = %+v", status)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: auth.StateCookie, Value: "abc"})
	recorder := httptest.NewRecorder()
	srv.Handler.ServeHTTP(recorder, req)
	decodeInto(t, recorder, &status)
	if status.Status != authStatusPending {
		t.Fatalf("me status with state cookie = %+v, want pending", status)
	}

	token, err := sessions.Issue("user@example.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	req = httptest.NewRequest(http.MethodGet, "/api/categories", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookie, Value: token})
	recorder = httptest.NewRecorder()
	srv.Handler.ServeHTTP(recorder, req)
	if recorder.Code != http.StatusOK {
		t.Fatalf("authed status = %d, want 200", recorder.Code)
	}
}
