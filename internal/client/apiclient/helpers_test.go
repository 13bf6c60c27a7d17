package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/municollect/internal/client/tokens"
	"github.com/stretchr/testify/require"
)

// fakeRecorder captures metric calls.
type fakeRecorder struct {
	mu        sync.Mutex
	Requests  []int
	Retries   int
	Refreshes []string
}

func (f *fakeRecorder) Request(_, _ string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Requests = append(f.Requests, status)
}

func (f *fakeRecorder) Retry(_, _ string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Retries++
}

func (f *fakeRecorder) Refresh(outcome string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Refreshes = append(f.Refreshes, outcome)
}

func writeData(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success":   true,
		"data":      data,
		"timestamp": time.Now().UnixMilli(),
	})
}

func writeFailure(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"error": map[string]any{
			"error":     message,
			"code":      status,
			"timestamp": time.Now().UnixMilli(),
		},
		"timestamp": time.Now().UnixMilli(),
	})
}

type testEnv struct {
	srv     *httptest.Server
	client  *Client
	store   *tokens.MemoryStore
	tokens  *tokens.Manager
	metrics *fakeRecorder
}

func newTestEnv(t *testing.T, h http.Handler, opts ...Option) *testEnv {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	store := tokens.NewMemoryStore()
	tm := tokens.NewManager(store)
	rec := &fakeRecorder{}
	base := []Option{WithRetryDelay(time.Millisecond), WithMetrics(rec)}
	c := New(srv.URL+"/", tm, append(base, opts...)...)

	return &testEnv{srv: srv, client: c, store: store, tokens: tm, metrics: rec}
}

func (e *testEnv) login(t *testing.T, access, refresh string, expiresAt time.Time) {
	t.Helper()
	require.NoError(t, e.tokens.SetTokens(context.Background(), access, refresh, expiresAt))
}
