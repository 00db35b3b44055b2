package mcptool

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/SergioAle210/MCP-Local-DunkMaster/internal/assert"
	"github.com/SergioAle210/MCP-Local-DunkMaster/internal/config"
	"github.com/SergioAle210/MCP-Local-DunkMaster/internal/dataset"
	"github.com/SergioAle210/MCP-Local-DunkMaster/internal/engine"
)

var errNotLoaded = errors.New("not loaded")

type stubSource struct{}

func (stubSource) Players(ctx context.Context, name string) ([]dataset.PlayerRow, error) {
	if name != config.PlayerPerGame {
		return nil, &dataset.UnavailableError{Dataset: name, Err: errNotLoaded}
	}
	return []dataset.PlayerRow{
		{Season: 2021, Player: "Alpha Scorer", Team: "ABC", Games: 40,
			Stats: map[string]float64{"pts_per_game": 25, "ast_per_game": 7}},
		{Season: 2021, Player: "Beta Guard", Team: "XYZ", Games: 60,
			Stats: map[string]float64{"pts_per_game": 18, "ast_per_game": 9}},
	}, nil
}

func (stubSource) Teams(ctx context.Context, name string) ([]dataset.TeamRow, error) {
	return nil, &dataset.UnavailableError{Dataset: name, Err: errNotLoaded}
}

func newTestEngine() *engine.Engine {
	cfg := &config.Config{MinConfidence: 65}
	return engine.New(dataset.NewCache(stubSource{}), cfg)
}

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) != 1 {
		t.Fatalf("content blocks: got %d, want 1", len(res.Content))
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content type: got %T, want TextContent", res.Content[0])
	}
	return text.Text
}

func TestPlayerSummaryToolHandle(t *testing.T) {
	tool := NewPlayerSummaryTool(newTestEngine())

	res, err := tool.Handle(context.Background(), callRequest("player_summary", map[string]any{
		"player": "alpha scorer",
	}))
	assert.NilError(t, err)
	assert.Equal(t, res.IsError, false)

	text := resultText(t, res)
	assert.StringContains(t, text, `"match": "Alpha Scorer"`)
	assert.StringContains(t, text, `"pts": 25`)
}

func TestPlayerSummaryToolMissingArgument(t *testing.T) {
	tool := NewPlayerSummaryTool(newTestEngine())

	res, err := tool.Handle(context.Background(), callRequest("player_summary", map[string]any{}))
	assert.NilError(t, err)
	assert.Equal(t, res.IsError, true)
}

func TestPlayerSummaryToolNoMatch(t *testing.T) {
	tool := NewPlayerSummaryTool(newTestEngine())

	res, err := tool.Handle(context.Background(), callRequest("player_summary", map[string]any{
		"player": "zzqqxxvw",
	}))
	assert.NilError(t, err)
	assert.Equal(t, res.IsError, true)
	assert.StringContains(t, resultText(t, res), "not found")
}

func TestTopScorersToolHandle(t *testing.T) {
	tool := NewTopScorersTool(newTestEngine())

	res, err := tool.Handle(context.Background(), callRequest("top_scorers", map[string]any{
		"season": float64(2021),
		"n":      float64(1),
	}))
	assert.NilError(t, err)
	assert.Equal(t, res.IsError, false)

	text := resultText(t, res)
	assert.StringContains(t, text, "Alpha Scorer")
	if strings.Contains(text, "Beta Guard") {
		t.Fatal("n=1 ranking should not include the second scorer")
	}
}

func TestComparePlayersToolHandle(t *testing.T) {
	tool := NewComparePlayersTool(newTestEngine())

	res, err := tool.Handle(context.Background(), callRequest("compare_players", map[string]any{
		"player_a": "alpha scorer",
		"player_b": "beta guard",
	}))
	assert.NilError(t, err)
	assert.Equal(t, res.IsError, false)

	text := resultText(t, res)
	assert.StringContains(t, text, `"basis": "per_game"`)
	assert.StringContains(t, text, `"match": "Beta Guard"`)
}

func TestTeamSummaryToolUnavailableDataset(t *testing.T) {
	tool := NewTeamSummaryTool(newTestEngine())

	res, err := tool.Handle(context.Background(), callRequest("team_summary", map[string]any{
		"season": float64(2021),
		"team":   "Chicago Bulls",
	}))
	assert.NilError(t, err)
	assert.Equal(t, res.IsError, true)
	assert.StringContains(t, resultText(t, res), "unavailable")
}
