// Package api assembles the HTTP JSON-RPC bridge: router, middleware, and
// endpoint wiring over the stats engine.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	corslib "github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/SergioAle210/MCP-Local-DunkMaster/internal/api/docs"
	"github.com/SergioAle210/MCP-Local-DunkMaster/internal/api/handler"
	"github.com/SergioAle210/MCP-Local-DunkMaster/internal/cache"
	"github.com/SergioAle210/MCP-Local-DunkMaster/internal/config"
	"github.com/SergioAle210/MCP-Local-DunkMaster/internal/engine"
)

// NewRouter creates and configures the Chi router with all middleware and
// routes.
func NewRouter(e *engine.Engine, appCache *cache.Cache, cfg *config.Config) *chi.Mux {
	r := chi.NewRouter()

	// --- Middleware stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(TimingMiddleware)
	r.Use(middleware.Compress(5)) // gzip

	// CORS
	c := corslib.New(corslib.Options{
		AllowedOrigins:   cfg.CORSAllowOrigins,
		AllowedMethods:   []string{"GET", "POST", "HEAD", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Encoding", "Content-Type", "If-None-Match", "Cache-Control"},
		ExposedHeaders:   []string{"X-Process-Time", "X-Cache", "ETag"},
		AllowCredentials: false,
	})
	r.Use(c.Handler)

	// Rate limiting
	if cfg.RateLimitEnabled {
		r.Use(RateLimitMiddleware(cfg.RateLimitRequests, cfg.RateLimitWindow))
	}

	// --- Handler dependencies ---
	h := handler.New(e, appCache, cfg)

	// --- Routes ---

	r.Get("/", h.Root)

	r.Route("/health", func(r chi.Router) {
		r.Get("/", h.HealthCheck)
		r.Get("/datasets", h.HealthCheckDatasets)
		r.Get("/cache", h.HealthCheckCache)
	})

	// The whole RPC surface is one endpoint; hosts speak JSON-RPC 2.0.
	r.Post("/jsonrpc", h.JSONRPC)

	// Swagger UI over the embedded OpenAPI document.
	r.Get("/docs/doc.json", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write(docs.OpenAPI)
	})
	r.Get("/docs/*", httpSwagger.Handler(
		httpSwagger.URL("/docs/doc.json"),
	))

	return r
}
