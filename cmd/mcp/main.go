// Command mcp is the DunkMaster local NBA stats MCP server.
//
// It exposes JSON-RPC tools over STDIO so a chatbot host can query the
// historical CSV datasets:
//
//	player_summary(player)
//	top_scorers(season, n)
//	compare_players(player_a, player_b, basis)
//	team_summary(season, team)
//
// Usage:
//
//	dunkmaster-mcp serve --data /path/to/csvs
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/SergioAle210/MCP-Local-DunkMaster/internal/config"
	"github.com/SergioAle210/MCP-Local-DunkMaster/internal/dataset"
	"github.com/SergioAle210/MCP-Local-DunkMaster/internal/db"
	"github.com/SergioAle210/MCP-Local-DunkMaster/internal/engine"
	"github.com/SergioAle210/MCP-Local-DunkMaster/internal/mcptool"
)

// Version is set at build time via ldflags.
var Version = "dev"

// The host owns stdout for the protocol, so logs go to stderr.
var logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:   "dunkmaster-mcp",
		Short: "Local NBA stats MCP server",
	}

	root.AddCommand(serveCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	var dataDir string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the stats tools over STDIO",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if dataDir != "" {
				cfg.DataDir = dataDir
			}

			eng, cleanup, err := newEngine(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			s := mcpserver.NewMCPServer(
				"dunkmaster",
				Version,
				mcpserver.WithToolCapabilities(true),
				mcpserver.WithRecovery(),
			)
			mcptool.Register(s, eng)

			logger.Info("Starting STDIO server", "data", cfg.DataDir, "version", Version)
			return mcpserver.ServeStdio(s)
		},
	}
	cmd.Flags().StringVar(&dataDir, "data", "", "Directory containing the CSV datasets (overrides STATS_DATA_PATH)")
	return cmd
}

// newEngine builds the engine over the configured dataset source: Postgres
// when DATABASE_URL is set, the CSV directory otherwise.
func newEngine(ctx context.Context, cfg *config.Config) (*engine.Engine, func(), error) {
	if cfg.DatabaseURL != "" {
		pool, err := db.New(ctx, cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to database: %w", err)
		}
		logger.Info("Dataset source: postgres")
		return engine.New(dataset.NewCache(dataset.NewPGSource(pool)), cfg), pool.Close, nil
	}

	if _, err := os.Stat(cfg.DataDir); err != nil {
		return nil, nil, fmt.Errorf("data directory %q: %w", cfg.DataDir, err)
	}
	logger.Info("Dataset source: csv", "dir", cfg.DataDir)
	return engine.New(dataset.NewCache(dataset.NewCSVSource(cfg.DataDir)), cfg), func() {}, nil
}
