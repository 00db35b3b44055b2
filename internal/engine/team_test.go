package engine

import (
	"context"
	"errors"
	"maps"
	"testing"

	"github.com/SergioAle210/MCP-Local-DunkMaster/internal/assert"
)

func TestTeamSummaryJoinsBothDatasets(t *testing.T) {
	e := newTestEngine(fixtureSource())

	s, err := e.TeamSummary(context.Background(), 2021, "Chicago Bulls")
	assert.NilError(t, err)
	assert.Equal(t, s.Match, "Chicago Bulls")
	assert.Equal(t, s.Season, 2021)
	assert.Equal(t, s.Abbreviation, "CHI")

	// Regular-season rows win over the playoff rows in both datasets.
	assert.Equal(t, s.Summary["w"], 50.0)
	assert.Equal(t, s.Summary["pts_per_game"], 110.5)
	assert.Equal(t, s.Summary["trb_per_game"], 44.2)

	// Net rating is derived when absent from the source.
	assert.FloatNear(t, s.Summary["n_rtg"], 5.1, 0.001)
}

func TestTeamSummaryAbbreviationEquivalence(t *testing.T) {
	e := newTestEngine(fixtureSource())
	ctx := context.Background()

	byName, err := e.TeamSummary(ctx, 2021, "Chicago Bulls")
	assert.NilError(t, err)
	byAbbr, err := e.TeamSummary(ctx, 2021, "CHI")
	assert.NilError(t, err)

	assert.Equal(t, byAbbr.Match, byName.Match)
	assert.Equal(t, byAbbr.Abbreviation, byName.Abbreviation)
	assert.True(t, maps.Equal(byAbbr.Summary, byName.Summary))
}

func TestTeamSummaryOmitsAbsentFields(t *testing.T) {
	e := newTestEngine(fixtureSource())

	s, err := e.TeamSummary(context.Background(), 2021, "Test Hawks")
	assert.NilError(t, err)

	assert.Equal(t, s.Summary["srs"], -2.5)
	assert.Equal(t, s.Summary["n_rtg"], -3.0)
	for _, absent := range []string{"pace", "o_rtg", "pts_per_game"} {
		if _, ok := s.Summary[absent]; ok {
			t.Errorf("%s: present, want omitted", absent)
		}
	}
}

func TestTeamSummarySeasonNotFound(t *testing.T) {
	e := newTestEngine(fixtureSource())

	_, err := e.TeamSummary(context.Background(), 1900, "Chicago Bulls")

	var notFound *SeasonNotFoundError
	assert.True(t, errors.As(err, &notFound))
	assert.Equal(t, notFound.Season, 1900)
}

func TestTeamSummaryTeamNotFound(t *testing.T) {
	e := newTestEngine(fixtureSource())

	_, err := e.TeamSummary(context.Background(), 2021, "zzqqxxvw")

	var notFound *NotFoundError
	assert.True(t, errors.As(err, &notFound))
	assert.Equal(t, notFound.Entity, "team")
}

func TestTeamSummaryDuplicateRows(t *testing.T) {
	e := newTestEngine(fixtureSource())

	_, err := e.TeamSummary(context.Background(), 2021, "Dup Team")

	var ambiguous *AmbiguousDataError
	assert.True(t, errors.As(err, &ambiguous))
}
