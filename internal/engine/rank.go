package engine

import (
	"context"
	"sort"

	"github.com/SergioAle210/MCP-Local-DunkMaster/internal/config"
	"github.com/SergioAle210/MCP-Local-DunkMaster/internal/dataset"
)

// DefaultTopN is the ranking size when the caller does not give one.
const DefaultTopN = 10

// RankEntry is one row of a season ranking.
type RankEntry struct {
	Player        string  `json:"player"`
	Team          string  `json:"team"`
	PointsPerGame float64 `json:"pts_per_game"`
	Games         int     `json:"g"`
}

// TopScorers ranks a season's players by points per game, descending. Each
// player contributes one entry: the combined multi-team row when present,
// otherwise their stints merged by games weighting. A season with no rows
// yields an empty ranking, not an error. Ties break by games played
// descending, then name ascending.
func (e *Engine) TopScorers(ctx context.Context, season, n int) ([]RankEntry, error) {
	if n <= 0 {
		n = DefaultTopN
	}
	rows, err := e.data.Players(ctx, config.PlayerPerGame)
	if err != nil {
		return nil, err
	}

	byPlayer := make(map[string][]dataset.PlayerRow)
	order := make([]string, 0)
	for _, r := range rows {
		if r.Season != season || r.Player == "" {
			continue
		}
		if _, ok := byPlayer[r.Player]; !ok {
			order = append(order, r.Player)
		}
		byPlayer[r.Player] = append(byPlayer[r.Player], r)
	}

	entries := make([]RankEntry, 0, len(order))
	for _, name := range order {
		group := byPlayer[name]
		lines, err := mergeSeasons(name, config.PlayerPerGame, group)
		if err != nil {
			return nil, err
		}
		line := lines[0]
		ppg, ok := line.stats[BasisPerGame.column("pts")]
		if !ok {
			continue
		}
		entries = append(entries, RankEntry{
			Player:        name,
			Team:          rankedTeam(group),
			PointsPerGame: round2(ppg),
			Games:         line.games,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.PointsPerGame != b.PointsPerGame {
			return a.PointsPerGame > b.PointsPerGame
		}
		if a.Games != b.Games {
			return a.Games > b.Games
		}
		return a.Player < b.Player
	})

	if len(entries) > n {
		entries = entries[:n]
	}
	return entries, nil
}

// rankedTeam is the team shown for a ranking entry: the multi-team marker
// when the season was split across teams, else the single stint team.
func rankedTeam(group []dataset.PlayerRow) string {
	for _, r := range group {
		if dataset.IsCombinedTeam(r.Team) {
			return r.Team
		}
	}
	if len(group) > 0 {
		return group[0].Team
	}
	return ""
}
