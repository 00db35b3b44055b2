package engine

import (
	"context"
	"fmt"
	"sort"

	"github.com/SergioAle210/MCP-Local-DunkMaster/internal/config"
	"github.com/SergioAle210/MCP-Local-DunkMaster/internal/dataset"
	"github.com/SergioAle210/MCP-Local-DunkMaster/internal/resolve"
)

// summaryFields are the advanced metrics taken from the team-summary
// dataset, in the order they are documented.
var summaryFields = []string{
	"w", "l", "srs", "o_rtg", "d_rtg", "n_rtg", "pace",
	"ts_percent", "e_fg_percent", "tov_percent", "orb_percent", "ft_fga",
}

// perGameFields are the box-score metrics joined in from the per-game team
// stats dataset.
var perGameFields = []string{
	"pts_per_game", "trb_per_game", "ast_per_game", "x3p_percent",
}

// TeamSummary joins a team's advanced ratings with its per-game box stats
// for one season. Fields absent from both sources are omitted, never
// defaulted to zero.
type TeamSummary struct {
	Match        string             `json:"match"`
	Score        float64            `json:"score"`
	Season       int                `json:"season"`
	Abbreviation string             `json:"abbreviation,omitempty"`
	Summary      map[string]float64 `json:"summary"`
}

// TeamSummary resolves a team query for a season against the union of
// canonical names and known abbreviations, preferring the regular-season
// row when a postseason row also exists for the team-season.
func (e *Engine) TeamSummary(ctx context.Context, season int, query string) (*TeamSummary, error) {
	summaries, err := e.data.Teams(ctx, config.TeamSummaries)
	if err != nil {
		return nil, err
	}

	inSeason := make([]dataset.TeamRow, 0)
	for _, r := range summaries {
		if r.Season == season {
			inSeason = append(inSeason, r)
		}
	}
	if len(inSeason) == 0 {
		return nil, &SeasonNotFoundError{Season: season}
	}

	match, ok := resolve.Best(query, teamCandidates(inSeason), e.minConfidence)
	if !ok {
		return nil, &NotFoundError{Entity: "team", Query: query, BestScore: match.Score, BestName: match.Name}
	}

	teamRows := make([]dataset.TeamRow, 0, 2)
	for _, r := range inSeason {
		if r.Team == match.Name {
			teamRows = append(teamRows, r)
		}
	}
	row, err := pickTeamRow(teamRows, match.Name, season, config.TeamSummaries)
	if err != nil {
		return nil, err
	}

	out := &TeamSummary{
		Match:        match.Name,
		Score:        round2(match.Score),
		Season:       season,
		Abbreviation: row.Abbreviation,
		Summary:      make(map[string]float64),
	}
	for _, f := range summaryFields {
		if v, ok := row.Stat(f); ok {
			out.Summary[f] = round2(v)
		}
	}
	// Net rating is derivable when the source omits it but has both sides.
	if _, ok := out.Summary["n_rtg"]; !ok {
		o, okO := out.Summary["o_rtg"]
		d, okD := out.Summary["d_rtg"]
		if okO && okD {
			out.Summary["n_rtg"] = round2(o - d)
		}
	}

	perGame, err := e.data.Teams(ctx, config.TeamStatsPerGame)
	if err != nil {
		return nil, err
	}
	pgRows := make([]dataset.TeamRow, 0)
	for _, r := range perGame {
		if r.Season == season && (r.Team == match.Name || (row.Abbreviation != "" && r.Abbreviation == row.Abbreviation)) {
			pgRows = append(pgRows, r)
		}
	}
	if len(pgRows) > 0 {
		pgRow, err := pickTeamRow(pgRows, match.Name, season, config.TeamStatsPerGame)
		if err != nil {
			return nil, err
		}
		for _, f := range perGameFields {
			if v, ok := pgRow.Stat(f); ok {
				out.Summary[f] = round2(v)
			}
		}
	}

	return out, nil
}

// teamCandidates groups a season's rows into resolver candidates: one per
// canonical team name, with every abbreviation seen for it as an alias.
func teamCandidates(rows []dataset.TeamRow) []resolve.Candidate {
	aliases := make(map[string]map[string]struct{})
	names := make([]string, 0)
	for _, r := range rows {
		if r.Team == "" {
			continue
		}
		set, ok := aliases[r.Team]
		if !ok {
			set = make(map[string]struct{})
			aliases[r.Team] = set
			names = append(names, r.Team)
		}
		if r.Abbreviation != "" {
			set[r.Abbreviation] = struct{}{}
		}
	}
	sort.Strings(names)

	candidates := make([]resolve.Candidate, 0, len(names))
	for _, name := range names {
		c := resolve.Candidate{Name: name}
		as := make([]string, 0, len(aliases[name]))
		for a := range aliases[name] {
			as = append(as, a)
		}
		sort.Strings(as)
		c.Aliases = as
		candidates = append(candidates, c)
	}
	return candidates
}

// pickTeamRow selects the row for a resolved team-season from rows already
// scoped to that team, preferring the regular-season row over postseason
// context. Duplicate rows with identical keys are a data-quality failure,
// not a silent pick.
func pickTeamRow(rows []dataset.TeamRow, team string, season int, ds string) (dataset.TeamRow, error) {
	var regular, playoff []dataset.TeamRow
	for _, r := range rows {
		if r.Playoffs {
			playoff = append(playoff, r)
		} else {
			regular = append(regular, r)
		}
	}
	pool := regular
	if len(pool) == 0 {
		pool = playoff
	}
	switch len(pool) {
	case 0:
		return dataset.TeamRow{}, &NotFoundError{Entity: "team", Query: team}
	case 1:
		return pool[0], nil
	default:
		return dataset.TeamRow{}, &AmbiguousDataError{
			Dataset: ds,
			Key:     fmt.Sprintf("%s %d (duplicate rows)", team, season),
		}
	}
}
