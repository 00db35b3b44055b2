package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Source loads raw rows for a named dataset. Implementations do not cache;
// wrap a Source in a Cache for the load-once guarantee.
type Source interface {
	Players(ctx context.Context, name string) ([]PlayerRow, error)
	Teams(ctx context.Context, name string) ([]TeamRow, error)
}

// UnavailableError means a required dataset could not be loaded (missing or
// malformed backing source). Fatal for queries that depend on the dataset,
// harmless for queries against other datasets.
type UnavailableError struct {
	Dataset string
	Err     error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("dataset %q unavailable: %v", e.Dataset, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// --------------------------------------------------------------------------
// CSV source
// --------------------------------------------------------------------------

// CSVSource reads datasets from CSV files under a directory. Files are named
// after the dataset ("Player Per Game" -> "Player Per Game.csv").
type CSVSource struct {
	dir string
}

// NewCSVSource creates a Source rooted at dir.
func NewCSVSource(dir string) *CSVSource {
	return &CSVSource{dir: dir}
}

func (s *CSVSource) Players(ctx context.Context, name string) ([]PlayerRow, error) {
	info, ok := registry[name]
	if !ok || info.kind != playerKind {
		return nil, &UnavailableError{Dataset: name, Err: fmt.Errorf("not a known player dataset")}
	}
	header, records, err := s.read(name)
	if err != nil {
		return nil, err
	}
	rows := make([]PlayerRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, parsePlayerRecord(header, rec))
	}
	return rows, nil
}

func (s *CSVSource) Teams(ctx context.Context, name string) ([]TeamRow, error) {
	info, ok := registry[name]
	if !ok || info.kind != teamKind {
		return nil, &UnavailableError{Dataset: name, Err: fmt.Errorf("not a known team dataset")}
	}
	header, records, err := s.read(name)
	if err != nil {
		return nil, err
	}
	rows := make([]TeamRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, parseTeamRecord(header, rec))
	}
	return rows, nil
}

// read opens and fully parses one CSV file, returning header and records.
func (s *CSVSource) read(name string) ([]string, [][]string, error) {
	path := filepath.Join(s.dir, name+".csv")
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, &UnavailableError{Dataset: name, Err: err}
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.ReuseRecord = false
	all, err := r.ReadAll()
	if err != nil {
		return nil, nil, &UnavailableError{Dataset: name, Err: err}
	}
	if len(all) == 0 {
		return nil, nil, &UnavailableError{Dataset: name, Err: fmt.Errorf("empty file")}
	}
	header := make([]string, len(all[0]))
	for i, col := range all[0] {
		header[i] = strings.ToLower(strings.TrimSpace(col))
	}
	return header, all[1:], nil
}

// --------------------------------------------------------------------------
// Record parsing — shared by the CSV and Postgres sources
// --------------------------------------------------------------------------

func parsePlayerRecord(header, rec []string) PlayerRow {
	row := PlayerRow{Stats: make(map[string]float64)}
	for i, col := range header {
		if i >= len(rec) {
			break
		}
		val := strings.TrimSpace(rec[i])
		switch col {
		case "season":
			row.Season, _ = strconv.Atoi(val)
		case "player":
			row.Player = val
		case "team", "tm":
			row.Team = val
		case "award":
			row.Award = val
		case "winner":
			row.Winner = parseBool(val)
		case "g", "games":
			row.Games, _ = strconv.Atoi(val)
		default:
			if f, ok := parseFloat(val); ok {
				row.Stats[col] = f
			}
		}
	}
	return row
}

func parseTeamRecord(header, rec []string) TeamRow {
	row := TeamRow{Stats: make(map[string]float64)}
	for i, col := range header {
		if i >= len(rec) {
			break
		}
		val := strings.TrimSpace(rec[i])
		switch col {
		case "season":
			row.Season, _ = strconv.Atoi(val)
		case "team":
			row.Team = val
		case "abbreviation":
			row.Abbreviation = val
		case "playoffs":
			row.Playoffs = parseBool(val)
		default:
			if f, ok := parseFloat(val); ok {
				row.Stats[col] = f
			}
		}
	}
	return row
}

// parseFloat treats empty and "NA" cells as absent. Non-numeric text columns
// (position, league) fail to parse and are likewise skipped.
func parseFloat(val string) (float64, bool) {
	if val == "" || val == "NA" {
		return 0, false
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func parseBool(val string) bool {
	switch strings.ToLower(val) {
	case "true", "t", "1", "yes":
		return true
	}
	return false
}
