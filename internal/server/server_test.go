package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/spendwise/internal/model"
	"github.com/Veraticus/spendwise/internal/service"
)

type fakeAPI struct {
	addErr    error
	listErr   error
	deleteErr error
	readyErr  error
	added     []service.NewExpense
	deleted   []int64
	expenses  []model.Expense
	reply     string
	mu        sync.Mutex
}

func (f *fakeAPI) AddExpense(_ context.Context, in service.NewExpense) (model.Expense, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.addErr != nil {
		return model.Expense{}, f.addErr
	}
	f.added = append(f.added, in)
	return model.Expense{
		ID:          int64(len(f.added)),
		Description: in.Description,
		Amount:      in.Amount,
		Date:        in.Date,
		Category:    model.CategoryFood,
	}, nil
}

func (f *fakeAPI) ListExpenses(context.Context) ([]model.Expense, error) {
	return f.expenses, f.listErr
}

func (f *fakeAPI) DeleteExpense(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeAPI) Summary(context.Context) ([]model.CategoryTotal, error) {
	return []model.CategoryTotal{{Category: model.CategoryFood, Total: decimal.NewFromInt(12), Count: 2}}, nil
}

func (f *fakeAPI) Chat(context.Context, string) string { return f.reply }

func (f *fakeAPI) Ready(context.Context) error { return f.readyErr }

func newTestServer(t *testing.T, api ExpenseAPI, cfg Config) *Server {
	t.Helper()
	s := New(cfg, api, slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(func() { _ = s.Shutdown(context.Background()) })
	return s
}

func do(s *Server, method, path, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestAddExpense(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		addErr     error
		wantStatus int
		wantKey    string
	}{
		{"number amount", `{"amount": 12.5, "description": "Lunch", "date": "2024-03-01"}`, nil, http.StatusCreated, "message"},
		{"string amount", `{"amount": "12.50", "description": "Lunch"}`, nil, http.StatusCreated, "message"},
		{"rfc3339 date", `{"amount": 3, "description": "Bus", "date": "2024-03-01T10:00:00Z"}`, nil, http.StatusCreated, "message"},
		{"missing amount", `{"description": "Lunch"}`, nil, http.StatusBadRequest, "error"},
		{"non numeric amount", `{"amount": "abc", "description": "Lunch"}`, nil, http.StatusBadRequest, "error"},
		{"missing description", `{"amount": 5}`, nil, http.StatusBadRequest, "error"},
		{"bad date", `{"amount": 5, "description": "Lunch", "date": "March 1"}`, nil, http.StatusBadRequest, "error"},
		{"malformed json", `{"amount":`, nil, http.StatusBadRequest, "error"},
		{"non positive amount", `{"amount": 0, "description": "Lunch"}`, model.ErrNonPositiveAmount, http.StatusBadRequest, "error"},
		{"sub-cent amount", `{"amount": 0.004, "description": "Lunch"}`, model.ErrAmountPrecision, http.StatusBadRequest, "error"},
		{"store failure", `{"amount": 5, "description": "Lunch"}`, errors.New("disk full"), http.StatusInternalServerError, "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{addErr: tt.addErr}
			s := newTestServer(t, api, Config{})

			rec := do(s, http.MethodPost, "/add-expense", tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, decodeBody(t, rec), tt.wantKey)
		})
	}
}

func TestAddExpenseResponse(t *testing.T) {
	api := &fakeAPI{}
	s := newTestServer(t, api, Config{})

	rec := do(s, http.MethodPost, "/add-expense", `{"amount": "12.50", "description": "Lunch", "date": "2024-03-01"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "Expense Added!", body["message"])
	assert.Equal(t, "Food", body["category"])

	require.Len(t, api.added, 1)
	assert.True(t, decimal.RequireFromString("12.50").Equal(api.added[0].Amount))
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), api.added[0].Date)
}

func TestListExpenses(t *testing.T) {
	api := &fakeAPI{expenses: []model.Expense{{
		ID:          1,
		Description: "Lunch",
		Amount:      decimal.RequireFromString("12.5"),
		Category:    model.CategoryFood,
		Date:        time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}}}
	s := newTestServer(t, api, Config{})

	rec := do(s, http.MethodGet, "/expenses", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Lunch", got[0]["description"])
	assert.Equal(t, "Food", got[0]["category"])
	assert.InDelta(t, 12.5, got[0]["amount"], 0.0001)

	api.listErr = errors.New("boom")
	rec = do(s, http.MethodGet, "/expenses", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestDeleteExpense(t *testing.T) {
	api := &fakeAPI{}
	s := newTestServer(t, api, Config{})

	rec := do(s, http.MethodDelete, "/delete/7", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Deleted successfully", decodeBody(t, rec)["message"])
	assert.Equal(t, []int64{7}, api.deleted)

	rec = do(s, http.MethodDelete, "/delete/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	api.deleteErr = errors.New("expense not found")
	rec = do(s, http.MethodDelete, "/delete/99", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to delete", decodeBody(t, rec)["error"])
}

func TestChat(t *testing.T) {
	api := &fakeAPI{reply: "You spent 12.50 on Food."}
	s := newTestServer(t, api, Config{})

	rec := do(s, http.MethodPost, "/chat", `{"message": "How much on food?"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "You spent 12.50 on Food.", decodeBody(t, rec)["reply"])

	rec = do(s, http.MethodPost, "/chat", `{"message": "  "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	s := newTestServer(t, &fakeAPI{}, Config{})

	rec := do(s, http.MethodGet, "/add-expense", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = do(s, http.MethodPost, "/delete/1", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestSummaryAndHealth(t *testing.T) {
	api := &fakeAPI{}
	s := newTestServer(t, api, Config{})

	rec := do(s, http.MethodGet, "/summary", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var totals []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &totals))
	require.Len(t, totals, 1)
	assert.Equal(t, "Food", totals[0]["category"])

	rec = do(s, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decodeBody(t, rec)["status"])

	rec = do(s, http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	api.readyErr = errors.New("database closed")
	rec = do(s, http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMiddleware(t *testing.T) {
	t.Run("request id is generated and echoed", func(t *testing.T) {
		s := newTestServer(t, &fakeAPI{}, Config{})

		rec := do(s, http.MethodGet, "/healthz", "")
		assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
		assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))

		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.Header.Set("X-Request-ID", "abc-123")
		rec = httptest.NewRecorder()
		s.Handler.ServeHTTP(rec, req)
		assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
	})

	t.Run("cors preflight for allowed origin", func(t *testing.T) {
		s := newTestServer(t, &fakeAPI{}, Config{AllowedOrigins: []string{"http://localhost:3000"}})

		req := httptest.NewRequest(http.MethodOptions, "/add-expense", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		rec := httptest.NewRecorder()
		s.Handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "DELETE")
	})

	t.Run("cors ignores unknown origin", func(t *testing.T) {
		s := newTestServer(t, &fakeAPI{}, Config{AllowedOrigins: []string{"http://localhost:3000"}})

		req := httptest.NewRequest(http.MethodGet, "/expenses", nil)
		req.Header.Set("Origin", "http://evil.example")
		rec := httptest.NewRecorder()
		s.Handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("post rate limit", func(t *testing.T) {
		s := newTestServer(t, &fakeAPI{reply: "hi"}, Config{PostsPerMinute: 2})

		for i := 0; i < 2; i++ {
			rec := do(s, http.MethodPost, "/chat", `{"message": "hi"}`)
			require.Equal(t, http.StatusOK, rec.Code)
		}
		rec := do(s, http.MethodPost, "/chat", `{"message": "hi"}`)
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.Equal(t, "60", rec.Header().Get("Retry-After"))

		rec = do(s, http.MethodGet, "/expenses", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("body size limit", func(t *testing.T) {
		s := newTestServer(t, &fakeAPI{}, Config{MaxBodyBytes: 16})

		rec := do(s, http.MethodPost, "/chat", `{"message": "`+strings.Repeat("x", 64)+`"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

type panicAPI struct{ fakeAPI }

func (p *panicAPI) ListExpenses(context.Context) ([]model.Expense, error) {
	panic("boom")
}

func TestRecoverFromPanic(t *testing.T) {
	s := newTestServer(t, &panicAPI{}, Config{})

	rec := do(s, http.MethodGet, "/expenses", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error", decodeBody(t, rec)["error"])
}

func TestClientAddr(t *testing.T) {
	tests := []struct {
		headers map[string]string
		name    string
		remote  string
		want    string
		proxies []string
	}{
		{name: "direct peer", remote: "10.0.0.1:5555", want: "10.0.0.1"},
		{
			name:    "forwarded header from untrusted peer is ignored",
			remote:  "198.51.100.7:4000",
			headers: map[string]string{"X-Forwarded-For": "203.0.113.9"},
			want:    "198.51.100.7",
		},
		{
			name:    "forwarded header from trusted proxy",
			remote:  "10.0.0.1:5555",
			proxies: []string{"10.0.0.0/8"},
			headers: map[string]string{"X-Forwarded-For": "203.0.113.9, 10.0.0.1"},
			want:    "203.0.113.9",
		},
		{
			name:    "real ip from trusted single address",
			remote:  "127.0.0.1:8080",
			proxies: []string{"127.0.0.1"},
			headers: map[string]string{"X-Real-IP": "203.0.113.20"},
			want:    "203.0.113.20",
		},
		{
			name:    "ipv6 peer",
			remote:  "[2001:db8::1]:443",
			headers: map[string]string{"X-Real-IP": "203.0.113.20"},
			want:    "2001:db8::1",
		},
		{
			name:    "invalid proxy entries are skipped",
			remote:  "10.0.0.1:5555",
			proxies: []string{"not-an-ip"},
			headers: map[string]string{"X-Forwarded-For": "203.0.113.9"},
			want:    "10.0.0.1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, &fakeAPI{}, Config{TrustedProxies: tt.proxies})
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, s.clientAddr(req))
		})
	}
}

func TestRateLimitIgnoresSpoofedForwardedFor(t *testing.T) {
	s := newTestServer(t, &fakeAPI{reply: "hi"}, Config{PostsPerMinute: 2})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"message": "hi"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i+1))
		rec := httptest.NewRecorder()
		s.Handler.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}
