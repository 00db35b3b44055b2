// Package db provides a pgxpool-based connection pool with prepared
// statement registration and health checking, used when datasets live in
// Postgres instead of CSV files.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SergioAle210/MCP-Local-DunkMaster/internal/config"
)

// Pool wraps pgxpool.Pool with application-specific helpers.
type Pool struct {
	*pgxpool.Pool
}

// New creates and validates a new connection pool.
func New(ctx context.Context, cfg *config.Config) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolCfg.MinConns = int32(cfg.DBPoolMinConns)
	poolCfg.MaxConns = int32(cfg.DBPoolMaxConns)
	poolCfg.MaxConnLifetime = cfg.DBPoolMaxLife
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	// Register prepared statements on every new connection.
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return registerPreparedStatements(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	// Verify connectivity
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Pool{Pool: pool}, nil
}

// HealthCheck runs a trivial query to verify the database is reachable.
func (p *Pool) HealthCheck(ctx context.Context) error {
	var n int
	return p.QueryRow(ctx, "health_check").Scan(&n)
}

// DatasetStatement returns the prepared-statement name that fetches one
// dataset table as a JSON array.
func DatasetStatement(table string) string {
	return "dataset_" + table
}

// registerPreparedStatements registers one JSON-passthrough statement per
// dataset table, plus the health check. Each statement returns the whole
// table as a single JSON array so the dataset layer can decode records the
// same way for every table.
func registerPreparedStatements(ctx context.Context, conn *pgx.Conn) error {
	tables := []string{
		"player_per_game",
		"per_36_minutes",
		"per_100_poss",
		"player_totals",
		"all_star_selections",
		"player_award_shares",
		"team_summaries",
		"team_stats_per_game",
	}

	stmts := map[string]string{
		"health_check": "SELECT 1",
	}
	for _, t := range tables {
		stmts[DatasetStatement(t)] = fmt.Sprintf(
			"SELECT coalesce(json_agg(row_to_json(t)), '[]'::json) FROM %s t", t)
	}

	for name, sql := range stmts {
		if _, err := conn.Prepare(ctx, name, sql); err != nil {
			return fmt.Errorf("prepare %q: %w", name, err)
		}
	}
	return nil
}
