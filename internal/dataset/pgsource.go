package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/SergioAle210/MCP-Local-DunkMaster/internal/db"
)

// PGSource reads datasets from Postgres tables that mirror the CSV files.
// Each table is fetched once as a JSON array through a prepared statement,
// so record decoding is identical for every table.
type PGSource struct {
	pool *db.Pool
}

// NewPGSource creates a Source backed by a Postgres pool.
func NewPGSource(pool *db.Pool) *PGSource {
	return &PGSource{pool: pool}
}

func (s *PGSource) Players(ctx context.Context, name string) ([]PlayerRow, error) {
	info, ok := registry[name]
	if !ok || info.kind != playerKind {
		return nil, &UnavailableError{Dataset: name, Err: fmt.Errorf("not a known player dataset")}
	}
	records, err := s.fetch(ctx, name, info.table)
	if err != nil {
		return nil, err
	}
	rows := make([]PlayerRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, playerFromRecord(rec))
	}
	return rows, nil
}

func (s *PGSource) Teams(ctx context.Context, name string) ([]TeamRow, error) {
	info, ok := registry[name]
	if !ok || info.kind != teamKind {
		return nil, &UnavailableError{Dataset: name, Err: fmt.Errorf("not a known team dataset")}
	}
	records, err := s.fetch(ctx, name, info.table)
	if err != nil {
		return nil, err
	}
	rows := make([]TeamRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, teamFromRecord(rec))
	}
	return rows, nil
}

func (s *PGSource) fetch(ctx context.Context, name, table string) ([]map[string]any, error) {
	var raw []byte
	if err := s.pool.QueryRow(ctx, db.DatasetStatement(table)).Scan(&raw); err != nil {
		return nil, &UnavailableError{Dataset: name, Err: err}
	}
	var records []map[string]any
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, &UnavailableError{Dataset: name, Err: err}
	}
	return records, nil
}

func playerFromRecord(rec map[string]any) PlayerRow {
	row := PlayerRow{Stats: make(map[string]float64)}
	for col, v := range rec {
		switch strings.ToLower(col) {
		case "season":
			row.Season = intValue(v)
		case "player":
			row.Player = stringValue(v)
		case "team", "tm":
			row.Team = stringValue(v)
		case "award":
			row.Award = stringValue(v)
		case "winner":
			row.Winner = boolValue(v)
		case "g", "games":
			row.Games = intValue(v)
		default:
			if f, ok := floatValue(v); ok {
				row.Stats[strings.ToLower(col)] = f
			}
		}
	}
	return row
}

func teamFromRecord(rec map[string]any) TeamRow {
	row := TeamRow{Stats: make(map[string]float64)}
	for col, v := range rec {
		switch strings.ToLower(col) {
		case "season":
			row.Season = intValue(v)
		case "team":
			row.Team = stringValue(v)
		case "abbreviation":
			row.Abbreviation = stringValue(v)
		case "playoffs":
			row.Playoffs = boolValue(v)
		default:
			if f, ok := floatValue(v); ok {
				row.Stats[strings.ToLower(col)] = f
			}
		}
	}
	return row
}

// JSON value coercions. Numeric columns arrive as float64, but text exports
// loaded with everything-as-text schemas also occur, so strings are parsed.

func stringValue(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

func intValue(v any) int {
	switch t := v.(type) {
	case float64:
		return int(t)
	case string:
		n, _ := strconv.Atoi(strings.TrimSpace(t))
		return n
	}
	return 0
}

func boolValue(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return parseBool(t)
	case float64:
		return t != 0
	}
	return false
}

func floatValue(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case string:
		return parseFloat(strings.TrimSpace(t))
	}
	return 0, false
}
