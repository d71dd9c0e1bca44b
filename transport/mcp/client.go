package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wricardo/mcp-training/escaperoom/game/engine"
	"github.com/wricardo/mcp-training/escaperoom/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Escape Room Game",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Escape Room Game - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Solve the puzzles in the room and open the exit door before the time runs out.

AVAILABLE TOOLS:
- create_session: Start a new game, optionally in a specific room
- game_state: See puzzles, found items and the time remaining
- solve_puzzle: Submit an answer for a puzzle
- get_hint: Get a hint for a puzzle (every hint is counted)
- list_rooms: List the available rooms
- list_sessions: List all sessions
- game_instructions: Full rules

NOTE: Item descriptions often contain clues for other puzzles. Read them!`),
	)

	c.registerTools()
}

func sessionIDProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

func puzzleIDProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Puzzle ID, e.g. safe or door",
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new escape room session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"room_id": map[string]interface{}{
					"type":        "string",
					"description": "Room to play (optional, see list_rooms)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all game sessions, newest first",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_rooms",
		Description: "List the rooms that sessions can be created in",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListRooms)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current state of a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "solve_puzzle",
		Description: "Attempt to solve a puzzle. Answers are case-insensitive. The door needs no answer.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"puzzle_id":  puzzleIDProperty(),
				"solution": map[string]interface{}{
					"type":        "string",
					"description": "Proposed answer",
				},
			},
			Required: []string{"session_id", "puzzle_id"},
		},
	}, c.handleSolvePuzzle)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_hint",
		Description: "Get a hint for a puzzle. Every call increases the hint counter.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"puzzle_id":  puzzleIDProperty(),
			},
			Required: []string{"session_id", "puzzle_id"},
		},
	}, c.handleGetHint)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the complete game rules",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// apiCall makes an HTTP request to the REST API
func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	return args
}

// requiredString returns a non-empty string argument or an error result
func requiredString(args map[string]interface{}, name string) (string, *mcp.CallToolResult) {
	value, _ := args[name].(string)
	if strings.TrimSpace(value) == "" {
		return "", mcp.NewToolResultError(fmt.Sprintf("%s is required", name))
	}
	return value, nil
}

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	roomID, _ := args["room_id"].(string)

	body := map[string]string{}
	if roomID != "" {
		body["room_id"] = roomID
	}

	var info service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/session", body, &info); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&info)), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                       `json:"count"`
		Sessions []*service.SessionSummary `json:"sessions"`
	}

	if err := c.apiCall(ctx, "GET", "/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionList(response.Sessions)), nil
}

func (c *Client) handleListRooms(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var rooms []*service.RoomInfo
	if err := c.apiCall(ctx, "GET", "/rooms", nil, &rooms); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatRooms(rooms)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, errResult := requiredString(arguments(request), "session_id")
	if errResult != nil {
		return errResult, nil
	}

	var view engine.View
	path := fmt.Sprintf("/session/%s/state", url.PathEscape(sessionID))
	if err := c.apiCall(ctx, "GET", path, nil, &view); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatView(&view)), nil
}

func (c *Client) handleSolvePuzzle(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, errResult := requiredString(args, "session_id")
	if errResult != nil {
		return errResult, nil
	}
	puzzleID, errResult := requiredString(args, "puzzle_id")
	if errResult != nil {
		return errResult, nil
	}
	solution, _ := args["solution"].(string)

	body := map[string]string{"solution": solution}

	var result engine.SolveResult
	path := fmt.Sprintf("/session/%s/solve/%s", url.PathEscape(sessionID), url.PathEscape(puzzleID))
	if err := c.apiCall(ctx, "POST", path, body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSolveResult(puzzleID, &result)), nil
}

func (c *Client) handleGetHint(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, errResult := requiredString(args, "session_id")
	if errResult != nil {
		return errResult, nil
	}
	puzzleID, errResult := requiredString(args, "puzzle_id")
	if errResult != nil {
		return errResult, nil
	}

	var result engine.HintResult
	path := fmt.Sprintf("/session/%s/hint/%s", url.PathEscape(sessionID), url.PathEscape(puzzleID))
	if err := c.apiCall(ctx, "GET", path, nil, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Hint for %s: %s\nHints used: %d", puzzleID, result.Hint, result.HintsUsed)), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `Escape Room Game - Complete Instructions

GAME OBJECTIVE:
Escape the room before the timer runs out by solving every puzzle and then opening the exit door.

GAME MECHANICS:
• Each session has a time limit (30 minutes in the classic room). The clock starts when the session is created.
• Puzzles are solved by submitting an answer. Answers are compared case-insensitively.
• Solving a puzzle may reveal items hidden at it. Item descriptions stay "???" until found.
• The exit door has no answer. It opens only once all the puzzles it requires are solved.
• Opening the door wins the game. Running out of time loses it.
• Hints are always available and every request is counted, even for the same puzzle.

RESPONSES:
• A wrong answer is not an error: success is false and nothing changes.
• Solving an already solved puzzle is rejected.
• Once the game is over (won or lost) every further solve attempt is rejected.

STRATEGY TIPS:
1. Call game_state first to see every puzzle and its description
2. Read the descriptions of found items; they point to other answers
3. Use get_hint when stuck, but remember hints are counted
4. Try the door last; a locked door tells you which puzzles remain

TOOL USAGE:
• create_session(room_id?) → returns session_id
• game_state(session_id)
• solve_puzzle(session_id, puzzle_id, solution)
• get_hint(session_id, puzzle_id)
• list_rooms(), list_sessions()`

	return mcp.NewToolResultText(instructions), nil
}

// Formatting helpers

func formatSessionInfo(info *service.SessionInfo) string {
	return fmt.Sprintf("Created session: %s\nRoom: %s\nTime limit: %s\n%s",
		info.SessionID, info.RoomID, formatSeconds(info.TimeLimit), info.Message)
}

func formatSeconds(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func formatView(view *engine.View) string {
	var result strings.Builder

	result.WriteString(fmt.Sprintf("Session: %s | Room: %s | Time remaining: %s | Hints used: %d\n",
		view.SessionID, view.RoomID, formatSeconds(view.TimeRemaining), view.HintsUsed))

	result.WriteString("\nPuzzles:\n")
	for _, id := range sortedKeys(view.Puzzles) {
		p := view.Puzzles[id]
		mark := "[ ]"
		if p.Solved {
			mark = "[x]"
		}
		result.WriteString(fmt.Sprintf("  %s %s: %s\n", mark, id, p.Description))
	}

	if len(view.Items) > 0 {
		result.WriteString("\nItems:\n")
		for _, id := range sortedKeys(view.Items) {
			item := view.Items[id]
			mark := "[ ]"
			if item.Found {
				mark = "[x]"
			}
			result.WriteString(fmt.Sprintf("  %s %s: %s\n", mark, id, item.Description))
		}
	}

	if view.Completed {
		if view.Success {
			result.WriteString("\nESCAPED!")
		} else {
			result.WriteString("\nTIME'S UP")
		}
	}

	return result.String()
}

func formatSolveResult(puzzleID string, result *engine.SolveResult) string {
	var b strings.Builder

	status := "INCORRECT"
	if result.Success {
		status = "SOLVED"
	}
	b.WriteString(fmt.Sprintf("%s %s: %s", status, puzzleID, result.Message))

	if len(result.ItemsFound) > 0 {
		b.WriteString(fmt.Sprintf("\nItems found: %s", strings.Join(result.ItemsFound, ", ")))
	}
	if len(result.Remaining) > 0 {
		b.WriteString(fmt.Sprintf("\nStill unsolved: %s", strings.Join(result.Remaining, ", ")))
	}
	if result.GameCompleted {
		b.WriteString("\nGame completed.")
	}

	return b.String()
}

func formatRooms(rooms []*service.RoomInfo) string {
	if len(rooms) == 0 {
		return "No rooms available"
	}

	var b strings.Builder
	b.WriteString("Available rooms:\n")
	for _, r := range rooms {
		b.WriteString(fmt.Sprintf("- %s: %s (%d puzzles, %d items, %s)\n",
			r.ID, r.Name, r.Puzzles, r.Items, formatSeconds(r.TimeLimit)))
		if r.Description != "" {
			b.WriteString(fmt.Sprintf("  %s\n", r.Description))
		}
	}
	return b.String()
}

func formatSessionList(sessions []*service.SessionSummary) string {
	if len(sessions) == 0 {
		return "No sessions"
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Sessions (%d):\n", len(sessions)))
	for _, s := range sessions {
		status := "active"
		if s.Completed {
			status = "lost"
			if s.Success {
				status = "escaped"
			}
		}
		b.WriteString(fmt.Sprintf("- %s [%s] room=%s solved=%d/%d hints=%d remaining=%s\n",
			s.ID, status, s.RoomID, s.PuzzlesSolved, s.TotalPuzzles, s.HintsUsed, formatSeconds(s.TimeRemaining)))
	}
	return b.String()
}
