// Command api is the DunkMaster HTTP JSON-RPC bridge.
//
// It exposes the same four stats tools as the STDIO MCP server over a
// minimal JSON-RPC 2.0 endpoint, for hosts without an MCP SDK.
//
// Usage:
//
//	dunkmaster-api
//	STATS_DATA_PATH=/path/to/csvs API_PORT=9000 dunkmaster-api
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"github.com/SergioAle210/MCP-Local-DunkMaster/internal/api"
	"github.com/SergioAle210/MCP-Local-DunkMaster/internal/cache"
	"github.com/SergioAle210/MCP-Local-DunkMaster/internal/config"
	"github.com/SergioAle210/MCP-Local-DunkMaster/internal/dataset"
	"github.com/SergioAle210/MCP-Local-DunkMaster/internal/db"
	"github.com/SergioAle210/MCP-Local-DunkMaster/internal/engine"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// Load .env if present
	_ = godotenv.Load(".env")

	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	// Dataset source: Postgres when configured, CSV directory otherwise.
	var src dataset.Source
	if cfg.DatabaseURL != "" {
		logger.Info("Connecting to database...")
		pool, err := db.New(ctx, cfg)
		if err != nil {
			logger.Error("Failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		src = dataset.NewPGSource(pool)
		logger.Info("Dataset source: postgres",
			"min_conns", cfg.DBPoolMinConns,
			"max_conns", cfg.DBPoolMaxConns)
	} else {
		src = dataset.NewCSVSource(cfg.DataDir)
		logger.Info("Dataset source: csv", "dir", cfg.DataDir)
	}

	eng := engine.New(dataset.NewCache(src), cfg)

	appCache := cache.New(cfg.CacheEnabled)
	logger.Info("Response cache initialized", "enabled", cfg.CacheEnabled)

	router := api.NewRouter(eng, appCache, cfg)

	addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	go func() {
		logger.Info("Starting DunkMaster Stats Bridge",
			"addr", addr,
			"environment", cfg.Environment,
			"docs", fmt.Sprintf("http://localhost:%d/docs/", cfg.APIPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt
	<-ctx.Done()
	logger.Info("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", "error", err)
	}
	logger.Info("Server stopped")
}
