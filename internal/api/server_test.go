package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/SergioAle210/MCP-Local-DunkMaster/internal/assert"
	"github.com/SergioAle210/MCP-Local-DunkMaster/internal/cache"
	"github.com/SergioAle210/MCP-Local-DunkMaster/internal/config"
	"github.com/SergioAle210/MCP-Local-DunkMaster/internal/dataset"
	"github.com/SergioAle210/MCP-Local-DunkMaster/internal/engine"
)

type emptySource struct{}

func (emptySource) Players(ctx context.Context, name string) ([]dataset.PlayerRow, error) {
	return []dataset.PlayerRow{}, nil
}

func (emptySource) Teams(ctx context.Context, name string) ([]dataset.TeamRow, error) {
	return []dataset.TeamRow{}, nil
}

func newTestRouter() http.Handler {
	cfg := &config.Config{
		MinConfidence:    65,
		CORSAllowOrigins: []string{"http://localhost:3000"},
		CacheEnabled:     true,
	}
	e := engine.New(dataset.NewCache(emptySource{}), cfg)
	return NewRouter(e, cache.New(true), cfg)
}

func get(t *testing.T, router http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRootEndpoint(t *testing.T) {
	rec := get(t, newTestRouter(), "/")
	assert.Equal(t, rec.Code, http.StatusOK)

	var body map[string]any
	assert.NilError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, body["status"], "running")
	assert.Equal(t, body["rpc"], "/jsonrpc")
}

func TestHealthEndpoints(t *testing.T) {
	router := newTestRouter()

	for _, path := range []string{"/health/", "/health/datasets", "/health/cache"} {
		t.Run(path, func(t *testing.T) {
			rec := get(t, router, path)
			assert.Equal(t, rec.Code, http.StatusOK)

			var body map[string]any
			assert.NilError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, body["status"], "healthy")
		})
	}
}

func TestTimingHeader(t *testing.T) {
	rec := get(t, newTestRouter(), "/health/")
	if rec.Header().Get("X-Process-Time") == "" {
		t.Fatal("missing X-Process-Time header")
	}
}

func TestOpenAPIDocument(t *testing.T) {
	rec := get(t, newTestRouter(), "/docs/doc.json")
	assert.Equal(t, rec.Code, http.StatusOK)

	var doc map[string]any
	assert.NilError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, doc["openapi"], "3.0.3")
	if _, ok := doc["paths"].(map[string]any)["/jsonrpc"]; !ok {
		t.Fatal("document does not describe /jsonrpc")
	}
}

func newRateLimitedRouter(window time.Duration) http.Handler {
	cfg := &config.Config{
		MinConfidence:     65,
		CORSAllowOrigins:  []string{"http://localhost:3000"},
		RateLimitEnabled:  true,
		RateLimitRequests: 4,
		RateLimitWindow:   window,
	}
	e := engine.New(dataset.NewCache(emptySource{}), cfg)
	return NewRouter(e, cache.New(false), cfg)
}

func TestRateLimit(t *testing.T) {
	router := newRateLimitedRouter(60 * time.Second)

	// Burst is half the window allowance; the burst runs out before the
	// bucket refills.
	var limited *httptest.ResponseRecorder
	for range 10 {
		rec := get(t, router, "/health/")
		if rec.Code == http.StatusTooManyRequests {
			limited = rec
			break
		}
	}
	if limited == nil {
		t.Fatal("never rate limited")
	}
	assert.Equal(t, limited.Header().Get("Retry-After"), "60")

	var body map[string]any
	assert.NilError(t, json.Unmarshal(limited.Body.Bytes(), &body))
	if _, ok := body["error"]; !ok {
		t.Fatal("missing error body")
	}
}

func TestRateLimitRetryAfterTracksWindow(t *testing.T) {
	router := newRateLimitedRouter(30 * time.Second)

	for range 10 {
		rec := get(t, router, "/health/")
		if rec.Code == http.StatusTooManyRequests {
			assert.Equal(t, rec.Header().Get("Retry-After"), "30")
			return
		}
	}
	t.Fatal("never rate limited")
}

func TestRateLimitJSONRPCShape(t *testing.T) {
	router := newRateLimitedRouter(60 * time.Second)

	var limited *httptest.ResponseRecorder
	for range 10 {
		req := httptest.NewRequest(http.MethodPost, "/jsonrpc",
			strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"initialize"}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code == http.StatusTooManyRequests {
			limited = rec
			break
		}
	}
	if limited == nil {
		t.Fatal("never rate limited")
	}

	var body struct {
		JSONRPC string `json:"jsonrpc"`
		Error   *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	assert.NilError(t, json.Unmarshal(limited.Body.Bytes(), &body))
	assert.Equal(t, body.JSONRPC, "2.0")
	if body.Error == nil {
		t.Fatal("expected a JSON-RPC error object")
	}
	assert.Equal(t, body.Error.Code, -32000)
}
