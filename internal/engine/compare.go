package engine

import (
	"context"

	"github.com/SergioAle210/MCP-Local-DunkMaster/internal/dataset"
	"github.com/SergioAle210/MCP-Local-DunkMaster/internal/resolve"
)

// ComparisonSide is one player's half of a head-to-head comparison.
type ComparisonSide struct {
	Match string              `json:"match"`
	Score float64             `json:"score"`
	Games int                 `json:"g"`
	Stats map[string]*float64 `json:"stats"`
}

// Comparison is the result of comparing two players on one basis.
type Comparison struct {
	Basis   Basis          `json:"basis"`
	PlayerA ComparisonSide `json:"player_a"`
	PlayerB ComparisonSide `json:"player_b"`
}

// Compare resolves both players against the basis dataset and reports each
// one's games-weighted career stats on that basis. Both resolutions must
// clear the threshold; a miss on either side fails the whole comparison.
func (e *Engine) Compare(ctx context.Context, queryA, queryB string, basis Basis) (*Comparison, error) {
	rows, err := e.data.Players(ctx, basis.dataset())
	if err != nil {
		return nil, err
	}
	candidates := playerCandidates(rows)

	sideA, err := e.compareSide(queryA, rows, candidates, basis)
	if err != nil {
		return nil, err
	}
	sideB, err := e.compareSide(queryB, rows, candidates, basis)
	if err != nil {
		return nil, err
	}

	return &Comparison{Basis: basis, PlayerA: *sideA, PlayerB: *sideB}, nil
}

func (e *Engine) compareSide(query string, rows []dataset.PlayerRow, candidates []resolve.Candidate, basis Basis) (*ComparisonSide, error) {
	match, ok := resolve.Best(query, candidates, e.minConfidence)
	if !ok {
		return nil, &NotFoundError{Entity: "player", Query: query, BestScore: match.Score, BestName: match.Name}
	}

	lines, err := mergeSeasons(match.Name, basis.dataset(), playerRows(rows, match.Name))
	if err != nil {
		return nil, err
	}

	side := &ComparisonSide{
		Match: match.Name,
		Score: round2(match.Score),
		Stats: make(map[string]*float64, len(comparedStats)),
	}
	for _, l := range lines {
		side.Games += l.games
	}
	for _, stat := range comparedStats {
		if v, ok := weightedAverage(lines, basis.column(stat)); ok {
			r := round2(v)
			side.Stats[stat] = &r
		} else {
			side.Stats[stat] = nil
		}
	}
	return side, nil
}
