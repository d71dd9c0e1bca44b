package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wricardo/mcp-training/escaperoom/api"
	"github.com/wricardo/mcp-training/escaperoom/game/config"
	"github.com/wricardo/mcp-training/escaperoom/game/engine"
	"github.com/wricardo/mcp-training/escaperoom/game/service"
	"github.com/wricardo/mcp-training/escaperoom/game/session"
)

// newBackend serves the real REST API for the client to proxy to
func newBackend(t *testing.T) *httptest.Server {
	t.Helper()

	configs, err := config.NewManager("")
	require.NoError(t, err)
	svc := service.NewGameService(session.NewManager(), configs)

	ts := httptest.NewServer(api.NewServer(svc, nil))
	t.Cleanup(ts.Close)
	return ts
}

func callTool(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]interface{}) (string, bool) {
	t.Helper()

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}

	result, err := handler(context.Background(), request)
	require.NoError(t, err)
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)

	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")
	return text.Text, result.IsError
}

var sessionIDPattern = regexp.MustCompile(`Created session: (\S+)`)

func createSession(t *testing.T, client *Client) string {
	t.Helper()

	text, isErr := callTool(t, client.handleCreateSession, map[string]interface{}{})
	require.False(t, isErr, text)

	m := sessionIDPattern.FindStringSubmatch(text)
	require.Len(t, m, 2, text)
	return m[1]
}

func TestNewClient(t *testing.T) {
	client := NewClient("http://localhost:8080/")

	require.NotNil(t, client)
	assert.Equal(t, "http://localhost:8080", client.baseURL)
	assert.NotNil(t, client.httpClient)
	assert.NotNil(t, client.GetMCPServer())
}

func TestClient_apiCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"path": r.URL.Path, "method": r.Method})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	var response map[string]interface{}
	require.NoError(t, client.apiCall(context.Background(), "GET", "/health", nil, &response))
	assert.Equal(t, "/health", response["path"])
	assert.Equal(t, "GET", response["method"])
}

func TestClient_apiCall_Errors(t *testing.T) {
	t.Run("unreachable", func(t *testing.T) {
		client := NewClient("http://127.0.0.1:1")
		assert.Error(t, client.apiCall(context.Background(), "GET", "/health", nil, nil))
	})

	t.Run("error body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"error": "Game session not found"})
		}))
		defer server.Close()

		err := NewClient(server.URL).apiCall(context.Background(), "GET", "/x", nil, nil)
		assert.EqualError(t, err, "Game session not found")
	})

	t.Run("plain status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Internal Server Error"))
		}))
		defer server.Close()

		err := NewClient(server.URL).apiCall(context.Background(), "GET", "/x", nil, nil)
		assert.EqualError(t, err, "API error: 500")
	})

	t.Run("cancelled context", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.Error(t, NewClient(server.URL).apiCall(ctx, "GET", "/x", nil, nil))
	})
}

func TestClient_PlayThrough(t *testing.T) {
	client := NewClient(newBackend(t).URL)
	id := createSession(t, client)

	t.Run("state hides items", func(t *testing.T) {
		text, isErr := callTool(t, client.handleGameState, map[string]interface{}{"session_id": id})
		require.False(t, isErr, text)
		assert.Contains(t, text, "[ ] safe: A locked safe with a 4-digit combination.")
		assert.Contains(t, text, "[ ] key: ???")
		assert.Regexp(t, `Time remaining: (30:00|29:5\d)`, text)
	})

	t.Run("wrong answer", func(t *testing.T) {
		text, isErr := callTool(t, client.handleSolvePuzzle, map[string]interface{}{
			"session_id": id, "puzzle_id": "safe", "solution": "9999",
		})
		require.False(t, isErr)
		assert.Contains(t, text, "INCORRECT safe")
	})

	t.Run("locked door lists remaining puzzles", func(t *testing.T) {
		text, isErr := callTool(t, client.handleSolvePuzzle, map[string]interface{}{
			"session_id": id, "puzzle_id": "door",
		})
		require.False(t, isErr)
		assert.Contains(t, text, "Still unsolved: safe, bookshelf, computer")
	})

	t.Run("hint", func(t *testing.T) {
		text, isErr := callTool(t, client.handleGetHint, map[string]interface{}{
			"session_id": id, "puzzle_id": "computer",
		})
		require.False(t, isErr)
		assert.Contains(t, text, "The password might be written down somewhere")
		assert.Contains(t, text, "Hints used: 1")
	})

	for _, step := range []struct{ puzzle, answer string }{
		{"safe", "1234"},
		{"bookshelf", "red,blue,green"},
		{"computer", "PASSWORD"},
	} {
		text, isErr := callTool(t, client.handleSolvePuzzle, map[string]interface{}{
			"session_id": id, "puzzle_id": step.puzzle, "solution": step.answer,
		})
		require.False(t, isErr, text)
		require.Contains(t, text, "SOLVED "+step.puzzle)
	}

	t.Run("already solved is an error", func(t *testing.T) {
		text, isErr := callTool(t, client.handleSolvePuzzle, map[string]interface{}{
			"session_id": id, "puzzle_id": "safe", "solution": "1234",
		})
		assert.True(t, isErr)
		assert.Equal(t, "Puzzle already solved", text)
	})

	t.Run("escape", func(t *testing.T) {
		text, isErr := callTool(t, client.handleSolvePuzzle, map[string]interface{}{
			"session_id": id, "puzzle_id": "door",
		})
		require.False(t, isErr)
		assert.Contains(t, text, "Game completed.")

		text, _ = callTool(t, client.handleGameState, map[string]interface{}{"session_id": id})
		assert.Contains(t, text, "ESCAPED!")
		assert.Contains(t, text, "[x] usb_drive: A USB drive with important data.")
	})

	t.Run("sessions list", func(t *testing.T) {
		text, isErr := callTool(t, client.handleListSessions, map[string]interface{}{})
		require.False(t, isErr)
		assert.Contains(t, text, id+" [escaped]")
		assert.Contains(t, text, "solved=4/4 hints=1")
	})
}

func TestClient_ArgumentValidation(t *testing.T) {
	client := NewClient(newBackend(t).URL)

	text, isErr := callTool(t, client.handleGameState, map[string]interface{}{})
	assert.True(t, isErr)
	assert.Equal(t, "session_id is required", text)

	text, isErr = callTool(t, client.handleGetHint, map[string]interface{}{"session_id": "x"})
	assert.True(t, isErr)
	assert.Equal(t, "puzzle_id is required", text)

	text, isErr = callTool(t, client.handleGameState, nil)
	assert.True(t, isErr)
	assert.Equal(t, "session_id is required", text)
}

func TestClient_UnknownSessionAndRoom(t *testing.T) {
	client := NewClient(newBackend(t).URL)

	text, isErr := callTool(t, client.handleGameState, map[string]interface{}{"session_id": "missing"})
	assert.True(t, isErr)
	assert.Equal(t, "Game session not found", text)

	text, isErr = callTool(t, client.handleCreateSession, map[string]interface{}{"room_id": "atlantis"})
	assert.True(t, isErr)
	assert.Contains(t, text, "Available rooms: classic")
}

func TestClient_ListRoomsAndInstructions(t *testing.T) {
	client := NewClient(newBackend(t).URL)

	text, isErr := callTool(t, client.handleListRooms, map[string]interface{}{})
	require.False(t, isErr)
	assert.Contains(t, text, "- classic: Classic Study (4 puzzles, 3 items, 30:00)")

	text, isErr = callTool(t, client.handleGameInstructions, map[string]interface{}{})
	require.False(t, isErr)
	assert.Contains(t, text, "GAME OBJECTIVE")
}

func TestFormatSolveResult(t *testing.T) {
	text := formatSolveResult("safe", &engine.SolveResult{
		Success:    true,
		Message:    "Puzzle solved! You found: A small golden key., A map.",
		ItemFound:  "key",
		ItemsFound: []string{"key", "map"},
	})

	assert.Contains(t, text, "SOLVED safe")
	assert.Contains(t, text, "Items found: key, map")
	assert.NotContains(t, text, "Game completed")
}

func TestFormatSessionListEmpty(t *testing.T) {
	assert.Equal(t, "No sessions", formatSessionList(nil))
	assert.Equal(t, "No rooms available", formatRooms(nil))
}
