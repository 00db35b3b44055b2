// Package handler provides the HTTP handlers for the JSON-RPC bridge: the
// /jsonrpc endpoint plus root and health endpoints. Hosts without an MCP
// SDK call the same four tools the STDIO server exposes.
package handler

import (
	"net/http"
	"time"

	"github.com/SergioAle210/MCP-Local-DunkMaster/internal/api/respond"
	"github.com/SergioAle210/MCP-Local-DunkMaster/internal/cache"
	"github.com/SergioAle210/MCP-Local-DunkMaster/internal/config"
	"github.com/SergioAle210/MCP-Local-DunkMaster/internal/engine"
)

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	engine *engine.Engine
	cache  *cache.Cache
	cfg    *config.Config
}

// New creates a Handler with shared dependencies.
func New(e *engine.Engine, c *cache.Cache, cfg *config.Config) *Handler {
	return &Handler{engine: e, cache: c, cfg: cfg}
}

// Root serves API info at /.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"name":    "DunkMaster Stats Bridge",
		"version": Version,
		"status":  "running",
		"rpc":     "/jsonrpc",
		"docs":    "/docs/",
	})
}

// HealthCheck returns basic health status.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckDatasets reports which datasets have been loaded so far and
// whether each load succeeded. Datasets load lazily, so an empty map just
// means nothing has been queried yet.
func (h *Handler) HealthCheckDatasets(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"datasets":  h.engine.Data().Loaded(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckCache returns response-cache statistics.
func (h *Handler) HealthCheckCache(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"cache":     h.cache.Stats(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Version is set at build time via ldflags.
var Version = "dev"
