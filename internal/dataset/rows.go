// Package dataset provides typed, read-only access to the season-level
// tables. A Source loads raw rows; the Cache memoizes each dataset so it is
// loaded exactly once per process and shared by all queries.
package dataset

import "github.com/SergioAle210/MCP-Local-DunkMaster/internal/config"

// PlayerRow is one record from a player-level dataset. A player may have
// several rows in one season (one per team stint plus, in some datasets, a
// combined multi-team row). Rows are never mutated after load.
type PlayerRow struct {
	Season int
	Player string
	Team   string
	Games  int

	// Award and Winner are only populated by the award-share dataset.
	Award  string
	Winner bool

	// Stats maps numeric column name to value. Absent or "NA" cells are
	// simply missing from the map, never zero.
	Stats map[string]float64
}

// Stat returns a named stat and whether the row carries it.
func (r PlayerRow) Stat(name string) (float64, bool) {
	v, ok := r.Stats[name]
	return v, ok
}

// TeamRow is one record from a team-level dataset.
type TeamRow struct {
	Season       int
	Team         string
	Abbreviation string
	Playoffs     bool
	Stats        map[string]float64
}

// Stat returns a named stat and whether the row carries it.
func (r TeamRow) Stat(name string) (float64, bool) {
	v, ok := r.Stats[name]
	return v, ok
}

// IsCombinedTeam reports whether a team code marks a multi-team aggregate
// row ("TOT" in older exports, "2TM"/"3TM"/... in newer ones).
func IsCombinedTeam(code string) bool {
	if code == "TOT" {
		return true
	}
	return len(code) == 3 && code[0] >= '2' && code[0] <= '9' && code[1] == 'T' && code[2] == 'M'
}

type kind int

const (
	playerKind kind = iota
	teamKind
)

// registry maps a dataset name to its row kind and Postgres table. The names
// double as CSV file stems under the data directory.
var registry = map[string]struct {
	kind  kind
	table string
}{
	config.PlayerPerGame:     {playerKind, "player_per_game"},
	config.Per36Minutes:      {playerKind, "per_36_minutes"},
	config.Per100Poss:        {playerKind, "per_100_poss"},
	config.PlayerTotals:      {playerKind, "player_totals"},
	config.AllStarSelections: {playerKind, "all_star_selections"},
	config.PlayerAwardShares: {playerKind, "player_award_shares"},
	config.TeamSummaries:     {teamKind, "team_summaries"},
	config.TeamStatsPerGame:  {teamKind, "team_stats_per_game"},
}
