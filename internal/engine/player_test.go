package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/SergioAle210/MCP-Local-DunkMaster/internal/assert"
	"github.com/SergioAle210/MCP-Local-DunkMaster/internal/config"
)

func TestPlayerSummaryWeightedCareer(t *testing.T) {
	e := newTestEngine(fixtureSource())

	s, err := e.PlayerSummary(context.Background(), "alpha scorer")
	assert.NilError(t, err)
	assert.Equal(t, s.Match, "Alpha Scorer")
	assert.Equal(t, s.Score, 100.0)
	assert.Equal(t, s.Span, Span{From: 2020, To: 2021})
	assert.StringSliceEqual(t, s.Teams, []string{"ABC"})

	// (10*20 + 30*10) / 40, never the naive (20+10)/2.
	pts := s.CareerAverages["pts"]
	if pts == nil {
		t.Fatal("pts: got nil, want value")
	}
	assert.Equal(t, *pts, 12.5)

	ast := s.CareerAverages["ast"]
	if ast == nil {
		t.Fatal("ast: got nil, want value")
	}
	assert.Equal(t, *ast, 3.5)
}

func TestPlayerSummaryTotalsFallback(t *testing.T) {
	e := newTestEngine(fixtureSource())

	s, err := e.PlayerSummary(context.Background(), "Alpha Scorer")
	assert.NilError(t, err)

	// Steals are absent from the per-game rows, so the career figure comes
	// from summed totals: (12 + 30) / (10 + 30).
	stl := s.CareerAverages["stl"]
	if stl == nil {
		t.Fatal("stl: got nil, want value")
	}
	assert.Equal(t, *stl, 1.05)

	// Blocks exist nowhere: nil, not zero.
	if s.CareerAverages["blk"] != nil {
		t.Errorf("blk: got %v, want nil", *s.CareerAverages["blk"])
	}
}

func TestPlayerSummaryMultiStintSeason(t *testing.T) {
	e := newTestEngine(fixtureSource())

	s, err := e.PlayerSummary(context.Background(), "Multi Stint")
	assert.NilError(t, err)
	assert.StringSliceEqual(t, s.Teams, []string{"ABC", "XYZ"})

	pts := s.CareerAverages["pts"]
	if pts == nil {
		t.Fatal("pts: got nil, want value")
	}
	assert.Equal(t, *pts, 21.67)
}

func TestPlayerSummaryAwards(t *testing.T) {
	e := newTestEngine(fixtureSource())

	s, err := e.PlayerSummary(context.Background(), "Alpha Scorer")
	assert.NilError(t, err)

	if s.AllStar == nil {
		t.Fatal("all-star count: got nil, want value")
	}
	assert.Equal(t, *s.AllStar, 2)

	// One entry per award, strongest share, sorted by award name.
	assert.Equal(t, len(s.TopAwardShares), 2)
	assert.Equal(t, s.TopAwardShares[0], AwardShare{Award: "dpoy", Season: 2020, Share: 0.3, Winner: false})
	assert.Equal(t, s.TopAwardShares[1], AwardShare{Award: "nba mvp", Season: 2021, Share: 0.9, Winner: true})
}

func TestPlayerSummaryDegradesWithoutAwardData(t *testing.T) {
	src := fixtureSource()
	delete(src.players, config.AllStarSelections)
	delete(src.players, config.PlayerAwardShares)
	e := newTestEngine(src)

	s, err := e.PlayerSummary(context.Background(), "Alpha Scorer")
	assert.NilError(t, err)
	if s.AllStar != nil {
		t.Errorf("all-star count: got %v, want nil", *s.AllStar)
	}
	assert.Equal(t, len(s.TopAwardShares), 0)

	pts := s.CareerAverages["pts"]
	if pts == nil {
		t.Fatal("pts: got nil, want value")
	}
	assert.Equal(t, *pts, 12.5)
}

func TestPlayerSummaryNotFound(t *testing.T) {
	e := newTestEngine(fixtureSource())

	_, err := e.PlayerSummary(context.Background(), "zzqqxxvw")

	var notFound *NotFoundError
	assert.True(t, errors.As(err, &notFound))
	assert.Equal(t, notFound.Entity, "player")
	assert.Equal(t, notFound.Query, "zzqqxxvw")
	assert.True(t, notFound.BestScore < 65)
}

func TestPlayerSummaryAmbiguousAggregates(t *testing.T) {
	e := newTestEngine(fixtureSource())

	_, err := e.PlayerSummary(context.Background(), "Dup Agg")

	var ambiguous *AmbiguousDataError
	assert.True(t, errors.As(err, &ambiguous))
}

func TestPlayerSummaryZeroGames(t *testing.T) {
	e := newTestEngine(fixtureSource())

	s, err := e.PlayerSummary(context.Background(), "Zero Games")
	assert.NilError(t, err)
	if s.CareerAverages["pts"] != nil {
		t.Errorf("pts: got %v, want nil", *s.CareerAverages["pts"])
	}
}

func TestPlayerSummaryIdempotent(t *testing.T) {
	e := newTestEngine(fixtureSource())
	ctx := context.Background()

	first, err := e.PlayerSummary(ctx, "alpha scorer")
	assert.NilError(t, err)
	for range 5 {
		s, err := e.PlayerSummary(ctx, "alpha scorer")
		assert.NilError(t, err)
		assert.Equal(t, s.Match, first.Match)
		assert.Equal(t, s.Score, first.Score)
		assert.Equal(t, *s.CareerAverages["pts"], *first.CareerAverages["pts"])
		assert.StringSliceEqual(t, s.Teams, first.Teams)
	}
}
