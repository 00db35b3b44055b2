package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/SergioAle210/MCP-Local-DunkMaster/internal/api/respond"
	"github.com/SergioAle210/MCP-Local-DunkMaster/internal/cache"
	"github.com/SergioAle210/MCP-Local-DunkMaster/internal/engine"
)

// JSON-RPC 2.0 error codes used by the bridge.
const (
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeParseError     = -32700
	codeEngineError    = -32000
)

const protocolVersion = "2.0"

type rpcRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  interface{}     `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

type callParams struct {
	Name      string                 `json:"name"`
	Arguments map[string]interface{} `json:"arguments"`
}

// toolContent mimics the MCP content-block shape so hosts can treat the
// bridge and the STDIO server interchangeably.
type toolContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type callResult struct {
	Content []toolContent `json:"content"`
	IsError bool          `json:"isError"`
}

// toolDescriptor loosely mirrors the MCP list_tools shape.
type toolDescriptor struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

var toolDescriptors = []toolDescriptor{
	{
		Name:        "player_summary",
		Description: "Career summary for a player (fuzzy name match)",
		InputSchema: objectSchema(map[string]any{
			"player": map[string]any{"type": "string"},
		}, "player"),
	},
	{
		Name:        "top_scorers",
		Description: "Top scorers by points per game in a season",
		InputSchema: objectSchema(map[string]any{
			"season": map[string]any{"type": "integer"},
			"n":      map[string]any{"type": "integer"},
		}, "season"),
	},
	{
		Name:        "compare_players",
		Description: "Compare two players' career averages on a basis",
		InputSchema: objectSchema(map[string]any{
			"player_a": map[string]any{"type": "string"},
			"player_b": map[string]any{"type": "string"},
			"basis":    map[string]any{"type": "string", "enum": []string{"per_game", "per_36", "per_100"}},
		}, "player_a", "player_b"),
	},
	{
		Name:        "team_summary",
		Description: "Team summary (ratings, W-L, per-game stats) for a season",
		InputSchema: objectSchema(map[string]any{
			"season": map[string]any{"type": "integer"},
			"team":   map[string]any{"type": "string"},
		}, "season", "team"),
	},
}

func objectSchema(props map[string]any, required ...string) map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": props,
		"required":   required,
	}
}

// JSONRPC handles POST /jsonrpc: initialize, tools/list, tools/call, and
// shutdown. Engine failures surface as JSON-RPC errors with the error kind
// preserved in the message; none of them are retryable.
func (h *Handler) JSONRPC(w http.ResponseWriter, r *http.Request) {
	var req rpcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRPC(w, rpcResponse{JSONRPC: protocolVersion, Error: &rpcError{Code: codeParseError, Message: "parse error"}})
		return
	}

	switch req.Method {
	case "initialize":
		writeRPC(w, result(req.ID, map[string]any{"protocolVersion": protocolVersion}))

	case "tools/list":
		writeRPC(w, result(req.ID, map[string]any{"tools": toolDescriptors}))

	case "tools/call":
		h.toolsCall(w, r, req)

	case "shutdown":
		writeRPC(w, result(req.ID, map[string]any{"ok": true}))

	default:
		writeRPC(w, rpcErr(req.ID, codeMethodNotFound, "Method not found"))
	}
}

func (h *Handler) toolsCall(w http.ResponseWriter, r *http.Request, req rpcRequest) {
	var params callParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		writeRPC(w, rpcErr(req.ID, codeInvalidParams, "invalid params"))
		return
	}

	// Marshal of a map sorts its keys, so the cache key is canonical. Only
	// the rendered tool text is cached; the envelope is rebuilt per request
	// so the response always carries the caller's own id.
	argsKey, _ := json.Marshal(params.Arguments)
	cacheKey := fmt.Sprintf("tool:%s:%s", params.Name, argsKey)
	if text, etag, ok := h.cache.Get(cacheKey); ok {
		if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
			respond.WriteNotModified(w, etag)
			return
		}
		writeToolResult(w, req.ID, string(text), etag, true)
		return
	}

	text, err := h.callTool(r, params)
	if err != nil {
		writeRPC(w, rpcErr(req.ID, rpcCode(err), err.Error()))
		return
	}

	etag := h.cache.Set(cacheKey, []byte(text), cache.TTLToolResult)
	writeToolResult(w, req.ID, text, etag, false)
}

// writeToolResult wraps rendered tool text in a fresh JSON-RPC envelope.
// The ETag covers the tool text, not the envelope, so conditional requests
// behave the same for every caller.
func writeToolResult(w http.ResponseWriter, id json.RawMessage, text, etag string, cacheHit bool) {
	resp := result(id, callResult{
		Content: []toolContent{{Type: "text", Text: text}},
		IsError: false,
	})
	data, err := json.Marshal(resp)
	if err != nil {
		writeRPC(w, rpcErr(id, codeEngineError, err.Error()))
		return
	}
	respond.WriteJSON(w, data, etag, cache.TTLToolResult, cacheHit)
}

// callTool dispatches a tools/call to the engine and renders the result as
// indented JSON, the same text the STDIO server produces.
func (h *Handler) callTool(r *http.Request, params callParams) (string, error) {
	ctx := r.Context()
	args := params.Arguments

	switch params.Name {
	case "player_summary":
		player, err := argString(args, "player")
		if err != nil {
			return "", err
		}
		out, err := h.engine.PlayerSummary(ctx, player)
		if err != nil {
			return "", err
		}
		return renderJSON(out)

	case "top_scorers":
		season, err := argInt(args, "season")
		if err != nil {
			return "", err
		}
		n := optInt(args, "n", engine.DefaultTopN)
		out, err := h.engine.TopScorers(ctx, season, n)
		if err != nil {
			return "", err
		}
		return renderJSON(out)

	case "compare_players":
		playerA, err := argString(args, "player_a")
		if err != nil {
			return "", err
		}
		playerB, err := argString(args, "player_b")
		if err != nil {
			return "", err
		}
		basis := engine.ParseBasis(optString(args, "basis", string(engine.BasisPerGame)))
		out, err := h.engine.Compare(ctx, playerA, playerB, basis)
		if err != nil {
			return "", err
		}
		return renderJSON(out)

	case "team_summary":
		season, err := argInt(args, "season")
		if err != nil {
			return "", err
		}
		team, err := argString(args, "team")
		if err != nil {
			return "", err
		}
		out, err := h.engine.TeamSummary(ctx, season, team)
		if err != nil {
			return "", err
		}
		return renderJSON(out)

	default:
		return "", &unknownToolError{name: params.Name}
	}
}

type unknownToolError struct{ name string }

func (e *unknownToolError) Error() string { return fmt.Sprintf("Unknown tool: %s", e.name) }

type paramError struct{ key string }

func (e *paramError) Error() string { return fmt.Sprintf("missing or invalid parameter: %s", e.key) }

// rpcCode maps errors to JSON-RPC error codes: unknown tools and bad
// parameters are protocol-level, everything from the engine is -32000.
func rpcCode(err error) int {
	switch err.(type) {
	case *unknownToolError:
		return codeMethodNotFound
	case *paramError:
		return codeInvalidParams
	default:
		return codeEngineError
	}
}

func renderJSON(v any) (string, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Argument coercion: JSON numbers decode as float64.

func argString(args map[string]interface{}, key string) (string, error) {
	if s, ok := args[key].(string); ok && s != "" {
		return s, nil
	}
	return "", &paramError{key: key}
}

func argInt(args map[string]interface{}, key string) (int, error) {
	if f, ok := args[key].(float64); ok {
		return int(f), nil
	}
	return 0, &paramError{key: key}
}

func optInt(args map[string]interface{}, key string, fallback int) int {
	if f, ok := args[key].(float64); ok {
		return int(f)
	}
	return fallback
}

func optString(args map[string]interface{}, key, fallback string) string {
	if s, ok := args[key].(string); ok && s != "" {
		return s
	}
	return fallback
}

func result(id json.RawMessage, v interface{}) rpcResponse {
	return rpcResponse{JSONRPC: protocolVersion, ID: id, Result: v}
}

func rpcErr(id json.RawMessage, code int, message string) rpcResponse {
	return rpcResponse{JSONRPC: protocolVersion, ID: id, Error: &rpcError{Code: code, Message: message}}
}

func writeRPC(w http.ResponseWriter, resp rpcResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}
