// Package engine implements the stats resolution and aggregation core: it
// resolves free-text player and team queries, merges multi-stint season
// rows, and produces career averages, season rankings, and team summaries.
// All operations are read-only; the only side effect anywhere is the
// one-time lazy dataset load in the cache.
package engine

import (
	"fmt"
	"math"
	"sort"

	"github.com/SergioAle210/MCP-Local-DunkMaster/internal/config"
	"github.com/SergioAle210/MCP-Local-DunkMaster/internal/dataset"
	"github.com/SergioAle210/MCP-Local-DunkMaster/internal/resolve"
)

// Basis selects the statistical normalization mode for comparisons.
type Basis string

const (
	BasisPerGame Basis = "per_game"
	BasisPer36   Basis = "per_36"
	BasisPer100  Basis = "per_100"
)

// ParseBasis maps a request string to a Basis, defaulting to per-game for
// anything unrecognized (the original behavior: never fail on basis).
func ParseBasis(s string) Basis {
	switch Basis(s) {
	case BasisPer36:
		return BasisPer36
	case BasisPer100:
		return BasisPer100
	default:
		return BasisPerGame
	}
}

// dataset returns the source dataset backing this basis.
func (b Basis) dataset() string {
	switch b {
	case BasisPer36:
		return config.Per36Minutes
	case BasisPer100:
		return config.Per100Poss
	default:
		return config.PlayerPerGame
	}
}

// column maps a logical stat ("pts") to the dataset's column name.
func (b Basis) column(stat string) string {
	switch b {
	case BasisPer36:
		return stat + "_per_36_min"
	case BasisPer100:
		return stat + "_per_100_poss"
	default:
		return stat + "_per_game"
	}
}

// comparedStats are the logical stats reported by Compare and the career
// averages, in output order.
var comparedStats = []string{"pts", "ast", "trb"}

// careerStats additionally includes defensive stats where the source data
// has them (absent for pre-1974 seasons).
var careerStats = []string{"pts", "ast", "trb", "stl", "blk"}

// Engine answers the four public queries against the dataset cache.
type Engine struct {
	data          *dataset.Cache
	minConfidence float64
}

// New creates an Engine over a dataset cache.
func New(data *dataset.Cache, cfg *config.Config) *Engine {
	return &Engine{data: data, minConfidence: cfg.MinConfidence}
}

// Data exposes the underlying cache for health reporting.
func (e *Engine) Data() *dataset.Cache { return e.data }

// --------------------------------------------------------------------------
// Season merging
// --------------------------------------------------------------------------

// seasonLine is one player-season after stint merging: either the combined
// multi-team row alone, or the per-team stints folded into one line with
// rates recomputed by games weighting.
type seasonLine struct {
	season int
	games  int
	teams  []string // stint teams in row order; empty for combined rows
	stats  map[string]float64
}

// mergeSeasons folds a player's rows into one line per season, honoring the
// aggregate-row precedence: when a combined row exists for a season it is
// used alone and the stint rows only contribute team names; otherwise the
// stints are summed by games with rate stats recomputed. Two combined rows
// for one season are reported as ambiguous data.
func mergeSeasons(name, ds string, rows []dataset.PlayerRow) ([]seasonLine, error) {
	bySeason := make(map[int][]dataset.PlayerRow)
	seasons := make([]int, 0)
	for _, r := range rows {
		if _, ok := bySeason[r.Season]; !ok {
			seasons = append(seasons, r.Season)
		}
		bySeason[r.Season] = append(bySeason[r.Season], r)
	}
	sort.Ints(seasons)

	lines := make([]seasonLine, 0, len(seasons))
	for _, season := range seasons {
		group := bySeason[season]

		var combined *dataset.PlayerRow
		stints := make([]dataset.PlayerRow, 0, len(group))
		for i := range group {
			if dataset.IsCombinedTeam(group[i].Team) {
				if combined != nil {
					return nil, &AmbiguousDataError{
						Dataset: ds,
						Key:     fmt.Sprintf("%s %d (duplicate aggregate rows)", name, season),
					}
				}
				combined = &group[i]
			} else {
				stints = append(stints, group[i])
			}
		}

		line := seasonLine{season: season, stats: make(map[string]float64)}
		for _, s := range stints {
			line.teams = append(line.teams, s.Team)
		}
		if combined != nil {
			line.games = combined.Games
			for k, v := range combined.Stats {
				line.stats[k] = v
			}
		} else {
			// Weighted recombination of the stints. Zero-game stints carry
			// no weight and are excluded rather than dividing by zero.
			sums := make(map[string]float64)
			weights := make(map[string]int)
			for _, s := range stints {
				line.games += s.Games
				if s.Games == 0 {
					continue
				}
				for k, v := range s.Stats {
					sums[k] += v * float64(s.Games)
					weights[k] += s.Games
				}
			}
			for k, sum := range sums {
				if w := weights[k]; w > 0 {
					line.stats[k] = sum / float64(w)
				}
			}
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// weightedAverage computes sum(value*games)/sum(games) for one column over
// merged season lines. The boolean is false when no line both carries the
// column and has games, the explicit no-data signal.
func weightedAverage(lines []seasonLine, column string) (float64, bool) {
	var sum float64
	var games int
	for _, l := range lines {
		v, ok := l.stats[column]
		if !ok || l.games == 0 {
			continue
		}
		sum += v * float64(l.games)
		games += l.games
	}
	if games == 0 {
		return 0, false
	}
	return sum / float64(games), true
}

// --------------------------------------------------------------------------
// Shared helpers
// --------------------------------------------------------------------------

// playerCandidates builds the resolver candidate set from the distinct
// player names of a dataset, in lexical order for determinism.
func playerCandidates(rows []dataset.PlayerRow) []resolve.Candidate {
	seen := make(map[string]struct{})
	names := make([]string, 0)
	for _, r := range rows {
		if r.Player == "" {
			continue
		}
		if _, ok := seen[r.Player]; !ok {
			seen[r.Player] = struct{}{}
			names = append(names, r.Player)
		}
	}
	sort.Strings(names)
	candidates := make([]resolve.Candidate, len(names))
	for i, n := range names {
		candidates[i] = resolve.Candidate{Name: n}
	}
	return candidates
}

// playerRows filters a dataset to one resolved player.
func playerRows(rows []dataset.PlayerRow, name string) []dataset.PlayerRow {
	out := make([]dataset.PlayerRow, 0)
	for _, r := range rows {
		if r.Player == name {
			out = append(out, r)
		}
	}
	return out
}

// round2 rounds to two decimals for stable rendered output.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
