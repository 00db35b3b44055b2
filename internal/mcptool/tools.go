// Package mcptool exposes the four stats queries as MCP tools. Each tool
// pairs a Definition (name, description, input schema) with a Handle that
// calls the engine and renders the result as pretty-printed JSON text.
package mcptool

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/SergioAle210/MCP-Local-DunkMaster/internal/engine"
)

// Register adds every stats tool to the MCP server.
func Register(s *server.MCPServer, e *engine.Engine) {
	playerSummary := NewPlayerSummaryTool(e)
	s.AddTool(playerSummary.Definition(), playerSummary.Handle)

	topScorers := NewTopScorersTool(e)
	s.AddTool(topScorers.Definition(), topScorers.Handle)

	comparePlayers := NewComparePlayersTool(e)
	s.AddTool(comparePlayers.Definition(), comparePlayers.Handle)

	teamSummary := NewTeamSummaryTool(e)
	s.AddTool(teamSummary.Definition(), teamSummary.Handle)
}

// textJSON renders a result object as an indented JSON text block, the
// shape chat hosts display as-is.
func textJSON(v any) (*mcp.CallToolResult, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(b)), nil
}

// --------------------------------------------------------------------------
// player_summary
// --------------------------------------------------------------------------

type PlayerSummaryTool struct {
	engine *engine.Engine
}

func NewPlayerSummaryTool(e *engine.Engine) *PlayerSummaryTool {
	return &PlayerSummaryTool{engine: e}
}

func (t *PlayerSummaryTool) Definition() mcp.Tool {
	return mcp.NewTool("player_summary",
		mcp.WithDescription("Compact career summary for a player: span, teams, games-weighted career averages, All-Star selections, and top award shares. The player name is fuzzy-matched, so typos and partial names work."),
		mcp.WithString("player",
			mcp.Required(),
			mcp.Description("Player name, nickname, or partial name"),
		),
	)
}

func (t *PlayerSummaryTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	player, err := req.RequireString("player")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, err := t.engine.PlayerSummary(ctx, player)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return textJSON(out)
}

// --------------------------------------------------------------------------
// top_scorers
// --------------------------------------------------------------------------

type TopScorersTool struct {
	engine *engine.Engine
}

func NewTopScorersTool(e *engine.Engine) *TopScorersTool {
	return &TopScorersTool{engine: e}
}

func (t *TopScorersTool) Definition() mcp.Tool {
	return mcp.NewTool("top_scorers",
		mcp.WithDescription("Top-N players by points per game for a season. A season absent from the data returns an empty list."),
		mcp.WithNumber("season",
			mcp.Required(),
			mcp.Description("Season end year, e.g. 1996"),
		),
		mcp.WithNumber("n",
			mcp.Description("Number of entries to return (default 10)"),
		),
	)
}

func (t *TopScorersTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	season, err := req.RequireInt("season")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	n := req.GetInt("n", engine.DefaultTopN)
	out, err := t.engine.TopScorers(ctx, season, n)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return textJSON(out)
}

// --------------------------------------------------------------------------
// compare_players
// --------------------------------------------------------------------------

type ComparePlayersTool struct {
	engine *engine.Engine
}

func NewComparePlayersTool(e *engine.Engine) *ComparePlayersTool {
	return &ComparePlayersTool{engine: e}
}

func (t *ComparePlayersTool) Definition() mcp.Tool {
	return mcp.NewTool("compare_players",
		mcp.WithDescription("Compare two players' games-weighted career averages on a basis: per_game, per_36, or per_100."),
		mcp.WithString("player_a", mcp.Required(), mcp.Description("First player name")),
		mcp.WithString("player_b", mcp.Required(), mcp.Description("Second player name")),
		mcp.WithString("basis",
			mcp.Description("per_game (default), per_36, or per_100"),
			mcp.Enum("per_game", "per_36", "per_100"),
		),
	)
}

func (t *ComparePlayersTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	playerA, err := req.RequireString("player_a")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	playerB, err := req.RequireString("player_b")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	basis := engine.ParseBasis(req.GetString("basis", string(engine.BasisPerGame)))
	out, err := t.engine.Compare(ctx, playerA, playerB, basis)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return textJSON(out)
}

// --------------------------------------------------------------------------
// team_summary
// --------------------------------------------------------------------------

type TeamSummaryTool struct {
	engine *engine.Engine
}

func NewTeamSummaryTool(e *engine.Engine) *TeamSummaryTool {
	return &TeamSummaryTool{engine: e}
}

func (t *TeamSummaryTool) Definition() mcp.Tool {
	return mcp.NewTool("team_summary",
		mcp.WithDescription("Season summary for a team: W-L, SRS, ratings, pace, shooting and possession metrics, and per-game box stats. The team is matched by name or abbreviation (e.g. \"CHI\" or \"Chicago Bulls\")."),
		mcp.WithNumber("season", mcp.Required(), mcp.Description("Season end year")),
		mcp.WithString("team", mcp.Required(), mcp.Description("Team name or abbreviation")),
	)
}

func (t *TeamSummaryTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	season, err := req.RequireInt("season")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	team, err := req.RequireString("team")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, err := t.engine.TeamSummary(ctx, season, team)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return textJSON(out)
}
