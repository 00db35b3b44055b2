package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/SergioAle210/MCP-Local-DunkMaster/internal/assert"
)

func TestComparePerGame(t *testing.T) {
	e := newTestEngine(fixtureSource())

	c, err := e.Compare(context.Background(), "alpha scorer", "tot player", BasisPerGame)
	assert.NilError(t, err)
	assert.Equal(t, c.Basis, BasisPerGame)

	assert.Equal(t, c.PlayerA.Match, "Alpha Scorer")
	assert.Equal(t, c.PlayerA.Games, 40)
	pts := c.PlayerA.Stats["pts"]
	if pts == nil {
		t.Fatal("player A pts: got nil, want value")
	}
	assert.Equal(t, *pts, 12.5)

	assert.Equal(t, c.PlayerB.Match, "Tot Player")
	assert.Equal(t, c.PlayerB.Games, 50)
	pts = c.PlayerB.Stats["pts"]
	if pts == nil {
		t.Fatal("player B pts: got nil, want value")
	}
	assert.Equal(t, *pts, 30.0)

	// Rebounds exist for neither player: present key, nil value.
	trb, ok := c.PlayerA.Stats["trb"]
	assert.True(t, ok)
	if trb != nil {
		t.Errorf("player A trb: got %v, want nil", *trb)
	}
}

func TestComparePer36UsesItsOwnColumns(t *testing.T) {
	e := newTestEngine(fixtureSource())

	c, err := e.Compare(context.Background(), "Alpha Scorer", "Tot Player", BasisPer36)
	assert.NilError(t, err)
	assert.Equal(t, c.Basis, BasisPer36)

	// (10*22 + 30*18) / 40 from the per-36 dataset, not the per-game one.
	pts := c.PlayerA.Stats["pts"]
	if pts == nil {
		t.Fatal("player A pts: got nil, want value")
	}
	assert.Equal(t, *pts, 19.0)

	pts = c.PlayerB.Stats["pts"]
	if pts == nil {
		t.Fatal("player B pts: got nil, want value")
	}
	assert.Equal(t, *pts, 20.0)
}

func TestCompareEitherSideMissFails(t *testing.T) {
	e := newTestEngine(fixtureSource())
	ctx := context.Background()

	_, err := e.Compare(ctx, "alpha scorer", "zzqqxxvw", BasisPerGame)
	var notFound *NotFoundError
	assert.True(t, errors.As(err, &notFound))
	assert.Equal(t, notFound.Query, "zzqqxxvw")

	_, err = e.Compare(ctx, "zzqqxxvw", "alpha scorer", BasisPerGame)
	assert.True(t, errors.As(err, &notFound))
}
