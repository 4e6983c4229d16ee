package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rocjay1/jars-ledger/internal/ledger"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, time.May, 14, 10, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *ledger.Store {
	t.Helper()
	seq := 0
	store, err := ledger.NewStore(ledger.Options{
		Members: ledger.DefaultMembers(),
		Now:     func() time.Time { return testNow },
		NewID: func() string {
			seq++
			return fmt.Sprintf("id-%d", seq)
		},
	})
	require.NoError(t, err)
	return store
}

func newTestDeps(t *testing.T) (*Dependencies, http.Handler) {
	t.Helper()
	deps := &Dependencies{
		Store: newTestStore(t),
		Now:   func() time.Time { return testNow },
	}
	mux := http.NewServeMux()
	deps.RegisterRoutes(mux)
	return deps, mux
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}
