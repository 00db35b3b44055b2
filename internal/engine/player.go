package engine

import (
	"context"
	"errors"
	"sort"

	"github.com/SergioAle210/MCP-Local-DunkMaster/internal/config"
	"github.com/SergioAle210/MCP-Local-DunkMaster/internal/dataset"
	"github.com/SergioAle210/MCP-Local-DunkMaster/internal/resolve"
)

// Span is a career from/to season range.
type Span struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// AwardShare is a player's strongest voting share for one award.
type AwardShare struct {
	Award  string  `json:"award"`
	Season int     `json:"season"`
	Share  float64 `json:"share"`
	Winner bool    `json:"winner"`
}

// PlayerSummary is a compact career overview. Award and All-Star fields are
// omitted when their source datasets are not present.
type PlayerSummary struct {
	Match          string              `json:"match"`
	Score          float64             `json:"score"`
	Span           Span                `json:"span"`
	Teams          []string            `json:"teams"`
	CareerAverages map[string]*float64 `json:"career_avgs"`
	AllStar        *int                `json:"all_star_selections,omitempty"`
	TopAwardShares []AwardShare        `json:"top_award_shares,omitempty"`
}

// PlayerSummary resolves a player query and aggregates their career:
// games-weighted averages across merged seasons, career span, and the teams
// played for in chronological first-appearance order.
func (e *Engine) PlayerSummary(ctx context.Context, query string) (*PlayerSummary, error) {
	perGame, err := e.data.Players(ctx, config.PlayerPerGame)
	if err != nil {
		return nil, err
	}

	match, ok := resolve.Best(query, playerCandidates(perGame), e.minConfidence)
	if !ok {
		return nil, &NotFoundError{Entity: "player", Query: query, BestScore: match.Score, BestName: match.Name}
	}

	rows := playerRows(perGame, match.Name)
	lines, err := mergeSeasons(match.Name, config.PlayerPerGame, rows)
	if err != nil {
		return nil, err
	}

	out := &PlayerSummary{
		Match:          match.Name,
		Score:          round2(match.Score),
		Teams:          teamAppearanceOrder(lines),
		CareerAverages: make(map[string]*float64, len(careerStats)),
	}
	if len(lines) > 0 {
		out.Span = Span{From: lines[0].season, To: lines[len(lines)-1].season}
	}

	for _, stat := range careerStats {
		out.CareerAverages[stat] = e.careerAverage(ctx, match.Name, lines, stat)
	}

	// Award and All-Star datasets are optional enrichment: their absence
	// degrades the summary instead of failing the query.
	if n, err := e.allStarCount(ctx, match.Name); err == nil {
		out.AllStar = &n
	} else if !isUnavailable(err) {
		return nil, err
	}
	if shares, err := e.topAwardShares(ctx, match.Name); err == nil {
		out.TopAwardShares = shares
	} else if !isUnavailable(err) {
		return nil, err
	}

	return out, nil
}

// careerAverage computes the games-weighted per-game average of one stat,
// falling back to the totals dataset when the per-game column is absent
// (defensive stats before 1974). A nil result is the per-stat no-data
// marker: it never aborts the summary.
func (e *Engine) careerAverage(ctx context.Context, name string, lines []seasonLine, stat string) *float64 {
	if v, ok := weightedAverage(lines, BasisPerGame.column(stat)); ok {
		r := round2(v)
		return &r
	}

	totals, err := e.data.Players(ctx, config.PlayerTotals)
	if err != nil {
		return nil
	}
	sum, games := totalsSum(playerRows(totals, name), stat)
	if games == 0 {
		return nil
	}
	r := round2(sum / float64(games))
	return &r
}

// totalsSum folds counting-stat season sums with aggregate-row precedence:
// a season's combined row replaces its stints, otherwise stints add up.
func totalsSum(rows []dataset.PlayerRow, stat string) (float64, int) {
	type seasonTotal struct {
		sum      float64
		games    int
		combined bool
	}
	bySeason := make(map[int]seasonTotal)
	for _, r := range rows {
		v, ok := r.Stat(stat)
		if !ok {
			continue
		}
		cur := bySeason[r.Season]
		if dataset.IsCombinedTeam(r.Team) {
			bySeason[r.Season] = seasonTotal{sum: v, games: r.Games, combined: true}
		} else if !cur.combined {
			cur.sum += v
			cur.games += r.Games
			bySeason[r.Season] = cur
		}
	}
	var sum float64
	var games int
	for _, t := range bySeason {
		sum += t.sum
		games += t.games
	}
	return sum, games
}

// allStarCount counts a player's All-Star selections.
func (e *Engine) allStarCount(ctx context.Context, name string) (int, error) {
	rows, err := e.data.Players(ctx, config.AllStarSelections)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, r := range rows {
		if r.Player == name {
			n++
		}
	}
	return n, nil
}

// topAwardShares returns the highest voting share per distinct award,
// ordered by award name. Equal shares prefer the earlier season so repeated
// queries are byte-identical.
func (e *Engine) topAwardShares(ctx context.Context, name string) ([]AwardShare, error) {
	rows, err := e.data.Players(ctx, config.PlayerAwardShares)
	if err != nil {
		return nil, err
	}
	best := make(map[string]AwardShare)
	for _, r := range rows {
		if r.Player != name || r.Award == "" {
			continue
		}
		share, _ := r.Stat("share")
		cur, seen := best[r.Award]
		if !seen || share > cur.Share || (share == cur.Share && r.Season < cur.Season) {
			best[r.Award] = AwardShare{Award: r.Award, Season: r.Season, Share: share, Winner: r.Winner}
		}
	}
	awards := make([]string, 0, len(best))
	for a := range best {
		awards = append(awards, a)
	}
	sort.Strings(awards)
	out := make([]AwardShare, len(awards))
	for i, a := range awards {
		out[i] = best[a]
	}
	return out, nil
}

// teamAppearanceOrder lists distinct stint teams by chronological first
// appearance. Combined multi-team rows contribute no team of their own.
func teamAppearanceOrder(lines []seasonLine) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, l := range lines {
		for _, t := range l.teams {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	return out
}

func isUnavailable(err error) bool {
	var ue *dataset.UnavailableError
	return errors.As(err, &ue)
}
