// Package api_test provides behavior tests for the API package.
package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/delvedns/delvedns/internal/api"
	"github.com/delvedns/delvedns/internal/api/handlers"
	"github.com/delvedns/delvedns/internal/api/models"
	"github.com/delvedns/delvedns/internal/config"
	"github.com/delvedns/delvedns/internal/journal"
)

func createTestConfig() *config.Config {
	cfg := config.Default()
	cfg.API.Enabled = true
	cfg.API.Host = "127.0.0.1"
	cfg.API.Port = 8080
	return &cfg
}

func createTestServer(t *testing.T, cfg *config.Config) (*api.Server, *handlers.Handler) {
	t.Helper()
	h := handlers.New(cfg, nil)
	return api.New(cfg, nil, h), h
}

func performRequest(r http.Handler, method, path, apiKey string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestNewPanicsOnNilConfig(t *testing.T) {
	assert.Panics(t, func() {
		api.New(nil, nil, nil)
	})
}

func TestServerAddr(t *testing.T) {
	cfg := createTestConfig()
	cfg.API.Port = 9090

	srv, _ := createTestServer(t, cfg)
	assert.Equal(t, "127.0.0.1:9090", srv.Addr())
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := createTestServer(t, createTestConfig())

	w := performRequest(srv.Engine(), http.MethodGet, "/api/v1/health", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.StatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestStatsEndpoint(t *testing.T) {
	srv, h := createTestServer(t, createTestConfig())
	h.SetDNSStatsFunc(func() handlers.DNSStatsSnapshot {
		return handlers.DNSStatsSnapshot{
			QueriesTotal: 42,
			ResponsesNX:  3,
			ResponsesErr: 1,
			AvgLatencyMs: 2.5,
		}
	})

	w := performRequest(srv.Engine(), http.MethodGet, "/api/v1/stats", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.ServerStatsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, uint64(42), resp.DNSStats.QueriesTotal)
	assert.Equal(t, uint64(3), resp.DNSStats.ResponsesNX)
	assert.Equal(t, uint64(1), resp.DNSStats.ResponsesErr)
	assert.InDelta(t, 2.5, resp.DNSStats.AvgLatencyMs, 0.001)
	assert.Greater(t, resp.GoRoutines, 0)
	assert.NotZero(t, resp.NumCPU)
}

func TestQueriesEndpointWithoutJournal(t *testing.T) {
	srv, _ := createTestServer(t, createTestConfig())

	w := performRequest(srv.Engine(), http.MethodGet, "/api/v1/queries", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestQueriesEndpoint(t *testing.T) {
	srv, h := createTestServer(t, createTestConfig())

	j, err := journal.Open(filepath.Join(t.TempDir(), "journal.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })
	h.SetJournal(j)

	j.Record(journal.Entry{Time: time.Now().UTC(), QName: "example.com", QType: 1, Source: "resolved"})
	require.Eventually(t, func() bool {
		w := performRequest(srv.Engine(), http.MethodGet, "/api/v1/queries", "")
		if w.Code != http.StatusOK {
			return false
		}
		var resp models.QueriesResponse
		return json.Unmarshal(w.Body.Bytes(), &resp) == nil && resp.Count == 1
	}, 3*time.Second, 20*time.Millisecond)

	w := performRequest(srv.Engine(), http.MethodGet, "/api/v1/queries?limit=1", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.QueriesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Queries, 1)
	assert.Equal(t, "example.com", resp.Queries[0].QName)
}

func TestQueriesEndpointRejectsBadLimit(t *testing.T) {
	srv, h := createTestServer(t, createTestConfig())

	j, err := journal.Open(filepath.Join(t.TempDir(), "journal.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })
	h.SetJournal(j)

	for _, limit := range []string{"0", "-5", "abc"} {
		w := performRequest(srv.Engine(), http.MethodGet, "/api/v1/queries?limit="+limit, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, "limit %q", limit)
	}
}

func TestAPIKeyProtection(t *testing.T) {
	cfg := createTestConfig()
	cfg.API.APIKey = "sekret"
	srv, _ := createTestServer(t, cfg)

	// Health stays open for probes.
	w := performRequest(srv.Engine(), http.MethodGet, "/api/v1/health", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = performRequest(srv.Engine(), http.MethodGet, "/api/v1/stats", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = performRequest(srv.Engine(), http.MethodGet, "/api/v1/stats", "wrong")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = performRequest(srv.Engine(), http.MethodGet, "/api/v1/stats", "sekret")
	assert.Equal(t, http.StatusOK, w.Code)
}
