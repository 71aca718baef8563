package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/spendwise/internal/llm"
	"github.com/Veraticus/spendwise/internal/service"
	"github.com/Veraticus/spendwise/internal/testutil"
)

// hangingGenerator never answers; every call ends at its context deadline.
type hangingGenerator struct{}

func (hangingGenerator) Generate(ctx context.Context, _, _ string, _ llm.GenerateOptions) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

// startSlowModelServer serves the real service over a TCP listener with
// models that hang until the per-call timeout fires.
func startSlowModelServer(t *testing.T, models llm.Config) string {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	db := testutil.SetupTestDB(t)

	classifier := llm.NewClassifier(hangingGenerator{}, models, logger)
	t.Cleanup(classifier.Close)
	responder := llm.NewChatResponder(hangingGenerator{}, models, logger)
	svc := service.NewExpenseService(db.Storage, classifier, responder, nil, logger)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := New(Config{WriteTimeout: WriteTimeoutFor(models)}, svc, logger)
	go func() {
		if err := s.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			t.Errorf("serve: %v", err)
		}
	}()
	t.Cleanup(func() { _ = s.Shutdown(context.Background()) })

	return "http://" + ln.Addr().String()
}

func postJSON(t *testing.T, url, body string) (int, map[string]any) {
	t.Helper()
	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp.StatusCode, decoded
}

func TestSlowModelsStillAnswer(t *testing.T) {
	models := llm.DefaultConfig()
	models.RequestTimeout = 100 * time.Millisecond
	base := startSlowModelServer(t, models)

	t.Run("chat walks every model then apologizes", func(t *testing.T) {
		start := time.Now()
		status, body := postJSON(t, base+"/chat", `{"message": "How am I doing?"}`)

		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, llm.ApologyMessage, body["reply"])
		assert.GreaterOrEqual(t, time.Since(start), time.Duration(len(models.ChatModels))*models.RequestTimeout)
	})

	t.Run("add expense falls back to keywords", func(t *testing.T) {
		status, body := postJSON(t, base+"/add-expense", `{"amount": 18.40, "description": "Lunch at the cafe"}`)

		assert.Equal(t, http.StatusCreated, status)
		assert.Equal(t, "Expense Added!", body["message"])
		assert.Equal(t, "Food", body["category"])
	})
}

func TestWriteTimeoutFor(t *testing.T) {
	tests := []struct {
		name   string
		models llm.Config
	}{
		{name: "defaults", models: llm.DefaultConfig()},
		{name: "zero value uses defaults", models: llm.Config{}},
		{name: "long chain", models: llm.Config{ChatModels: []string{"a", "b", "c", "d"}, RequestTimeout: time.Minute}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Greater(t, WriteTimeoutFor(tt.models), tt.models.WorstCaseLatency())
		})
	}
}

func TestNewDefaultWriteTimeoutCoversDefaultModels(t *testing.T) {
	s := newTestServer(t, &fakeAPI{}, Config{})
	assert.Greater(t, s.WriteTimeout, llm.DefaultConfig().WorstCaseLatency())
}
