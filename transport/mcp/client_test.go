package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/wricardo/mcp-training/game2048/game/engine"
	"github.com/wricardo/mcp-training/game2048/game/service"
)

func callTool(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil {
		t.Fatal("Expected result, got nil")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatal("Expected text content in result")
	}
	return text.Text
}

func assertContains(t *testing.T, text string, expected ...string) {
	t.Helper()
	for _, field := range expected {
		if !strings.Contains(text, field) {
			t.Errorf("Expected '%s' in output, got: %s", field, text)
		}
	}
}

func TestNewClient(t *testing.T) {
	client := NewClient("http://localhost:8080/")

	if client == nil {
		t.Fatal("Expected client to be created")
	}
	if client.baseURL != "http://localhost:8080" {
		t.Errorf("Expected trailing slash trimmed, got %s", client.baseURL)
	}
	if client.httpClient == nil {
		t.Error("Expected HTTP client to be initialized")
	}
	if client.GetMCPServer() == nil {
		t.Error("Expected MCP server to be initialized")
	}
}

func TestClient_apiCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"id": "ab12", "score": 8})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	var response map[string]interface{}
	if err := client.apiCall(context.Background(), "GET", "/api", nil, &response); err != nil {
		t.Fatalf("apiCall failed: %v", err)
	}
	if response["id"] != "ab12" {
		t.Errorf("Expected id ab12, got %v", response["id"])
	}
}

func TestClient_apiCall_Error(t *testing.T) {
	client := NewClient("http://invalid-url-that-does-not-exist:9999")

	if err := client.apiCall(context.Background(), "GET", "/api", nil, nil); err == nil {
		t.Error("Expected error for invalid URL")
	}
}

func TestClient_apiCall_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Internal Server Error"))
	}))
	defer server.Close()

	client := NewClient(server.URL)

	err := client.apiCall(context.Background(), "GET", "/api", nil, nil)
	if err == nil {
		t.Fatal("Expected error for HTTP 500 response")
	}
	if !strings.Contains(err.Error(), "API error") {
		t.Errorf("Expected 'API error' in error message, got: %v", err)
	}
}

func TestClient_apiCall_ErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "session zz99: session not found"})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	err := client.apiCall(context.Background(), "GET", "/api/sessions/zz99", nil, nil)
	if err == nil || err.Error() != "session zz99: session not found" {
		t.Errorf("Expected server error message, got %v", err)
	}
}

func TestClient_createSession(t *testing.T) {
	var body map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" || r.URL.Path != "/api/sessions" {
			t.Errorf("Expected POST /api/sessions, got %s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&body)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(service.SessionInfo{
			ID:         "ab12",
			LayoutName: "corner",
			CreatedAt:  time.Now(),
			GameState:  &engine.GameState{Status: engine.StatusIdle},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	result, err := client.handleCreateSession(context.Background(), callTool("create_session", map[string]interface{}{
		"layout_id": "corner",
	}))
	if err != nil {
		t.Fatalf("createSession failed: %v", err)
	}

	assertContains(t, resultText(t, result), "Created session: ab12", "Layout: corner", "Status: idle")
	if body["layout_id"] != "corner" {
		t.Errorf("Expected layout_id forwarded, got %v", body)
	}
}

func TestClient_createSession_NoArguments(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(service.SessionInfo{ID: "cd34", LayoutName: "classic"})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	result, err := client.handleCreateSession(context.Background(), callTool("create_session", nil))
	if err != nil {
		t.Fatalf("createSession failed: %v", err)
	}
	assertContains(t, resultText(t, result), "cd34", "classic")
}

func TestClient_handleMove(t *testing.T) {
	var body map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" || r.URL.Path != "/api/sessions/ab12/move" {
			t.Errorf("Expected POST /api/sessions/ab12/move, got %s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&body)

		json.NewEncoder(w).Encode(service.MoveResult{
			Success: true,
			Message: "Moved left",
			Step: &service.StepInfo{
				Idx: 1, Dir: engine.Left, ScoreBefore: 0, ScoreAfter: 4, Merges: 1, MaxTile: 4,
				Spawned: &engine.Tile{Position: engine.Position{Row: 3, Col: 3}, Value: 2},
				Status:  engine.StatusPlaying,
			},
			GameState: &engine.GameState{
				Grid:   engine.Grid{{4, 0, 0, 0}, {}, {}, {0, 0, 0, 2}},
				Score:  4,
				Status: engine.StatusPlaying,
			},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	result, err := client.handleMove(context.Background(), callTool("move", map[string]interface{}{
		"session_id": "ab12",
		"direction":  "left",
		"intent":     "merge the pair of twos",
	}))
	if err != nil {
		t.Fatalf("handleMove failed: %v", err)
	}

	assertContains(t, resultText(t, result),
		"✓ Move successful",
		"Step: left score=0→4 merges=1 max=4 spawn=2@(3,3)",
		"Score: 4",
	)
	if body["direction"] != "left" {
		t.Errorf("Expected direction forwarded, got %v", body)
	}
	if _, ok := body["intent"]; ok {
		t.Error("Intent should not be forwarded to the API")
	}
}

func TestClient_handleMove_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": `invalid direction: "sideways"`})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	result, err := client.handleMove(context.Background(), callTool("move", map[string]interface{}{
		"session_id": "ab12",
		"direction":  "sideways",
	}))
	if err != nil {
		t.Fatalf("Expected tool error result, not Go error: %v", err)
	}
	if !result.IsError {
		t.Error("Expected IsError on result")
	}
	assertContains(t, resultText(t, result), "invalid direction")
}

func TestClient_handleBulkMove(t *testing.T) {
	var body struct {
		Moves []string `json:"moves"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/sessions/ab12/bulk-move" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&body)

		json.NewEncoder(w).Encode(service.BulkMoveResult{
			MovesExecuted:  1,
			RequestedMoves: 2,
			StoppedReason:  "Move 2 (left) did not change the board",
			StopReasonCode: service.StopNoChange,
			StoppedOnMove:  2,
			StartScore:     0,
			EndScore:       4,
			ScoreDelta:     4,
			Steps: []service.StepInfo{
				{Idx: 1, Dir: engine.Left, ScoreBefore: 0, ScoreAfter: 4, Merges: 1, MaxTile: 4},
			},
			GameState: &engine.GameState{
				Grid:       engine.Grid{{4, 2, 0, 0}},
				Score:      4,
				Status:     engine.StatusPlaying,
				LayoutName: "pairs",
			},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	result, err := client.handleBulkMove(context.Background(), callTool("bulk_move", map[string]interface{}{
		"session_id": "ab12",
		"moves":      []interface{}{"left", "left"},
	}))
	if err != nil {
		t.Fatalf("handleBulkMove failed: %v", err)
	}

	assertContains(t, resultText(t, result),
		"Session: ab12 • Layout: pairs",
		"Executed 1/2 moves • Score: 0→4 (+4)",
		"Stopped on move 2",
		"1. left score=0→4 merges=1 max=4",
	)
	if len(body.Moves) != 2 || body.Moves[0] != "left" {
		t.Errorf("Expected moves forwarded, got %v", body.Moves)
	}
}

func TestClient_lifecycleTools(t *testing.T) {
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"message": "Game started",
			"state":   &engine.GameState{Status: engine.StatusPlaying},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	ctx := context.Background()
	args := map[string]interface{}{"session_id": "ab12"}

	result, err := client.handleStart(ctx, callTool("start_game", args))
	if err != nil {
		t.Fatalf("handleStart failed: %v", err)
	}
	assertContains(t, resultText(t, result), "Game started", "Status: playing")

	if _, err := client.handleRestart(ctx, callTool("restart_game", args)); err != nil {
		t.Fatalf("handleRestart failed: %v", err)
	}

	expected := []string{"POST /api/sessions/ab12/start", "POST /api/sessions/ab12/restart"}
	if strings.Join(paths, ",") != strings.Join(expected, ",") {
		t.Errorf("Expected calls %v, got %v", expected, paths)
	}
}

func TestClient_handleMoveHistory(t *testing.T) {
	var query string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		json.NewEncoder(w).Encode(service.HistoryResponse{
			Moves: []engine.MoveHistoryEntry{
				{MoveNumber: 2, Direction: engine.Up, ScoreGained: 8, Score: 12, Merges: 1},
				{MoveNumber: 1, Direction: engine.Left, ScoreGained: 4, Score: 4, Merges: 1},
			},
			TotalMoves: 2,
			Page:       1,
			PageSize:   5,
			TotalPages: 1,
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	result, err := client.handleMoveHistory(context.Background(), callTool("move_history", map[string]interface{}{
		"session_id": "ab12",
		"limit":      float64(5),
		"order":      "desc",
	}))
	if err != nil {
		t.Fatalf("handleMoveHistory failed: %v", err)
	}

	if query != "limit=5&order=desc" {
		t.Errorf("Unexpected query %q", query)
	}
	assertContains(t, resultText(t, result),
		"Move History (Page 1/1) • Total: 2",
		"2. up +8 [Score: 12, Merges: 1]",
		"1. left +4 [Score: 4, Merges: 1]",
	)
}

func TestClient_handleListLayouts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]service.LayoutInfo{
			{LayoutID: "classic", Name: "classic", Description: "Empty board"},
			{LayoutID: "corner", Name: "Corner", Description: "Start with a 64", Tiles: 3, MaxTile: 64},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	result, err := client.handleListLayouts(context.Background(), callTool("list_layouts", nil))
	if err != nil {
		t.Fatalf("handleListLayouts failed: %v", err)
	}
	assertContains(t, resultText(t, result), "classic (id: classic)", "Corner (id: corner)", "Tiles: 3, Max tile: 64")
}

func TestFormatGameState(t *testing.T) {
	state := &engine.GameState{
		Grid:       engine.Grid{{2, 0, 0, 0}, {0, 128, 0, 0}, {}, {}},
		Score:      132,
		Status:     engine.StatusPlaying,
		MaxTile:    128,
		EmptyCells: 14,
		TotalMoves: 7,
		Message:    "Game in progress",
	}

	result := formatGameState(state)

	assertContains(t, result,
		"Status: playing | Score: 132 | Max tile: 128 | Empty: 14 | Moves: 7",
		"  2   .   .   .",
		"  . 128   .   .",
		"Possible moves: up,down,left,right",
		"Message: Game in progress",
	)
}

func TestFormatGameState_Terminal(t *testing.T) {
	tests := []struct {
		status   engine.Status
		expected string
	}{
		{engine.StatusWin, "🎉 VICTORY!"},
		{engine.StatusLose, "💀 GAME OVER"},
	}

	for _, test := range tests {
		t.Run(string(test.status), func(t *testing.T) {
			result := formatGameState(&engine.GameState{Status: test.status})
			assertContains(t, result, test.expected)
			if strings.Contains(result, "Possible moves") {
				t.Error("Terminal games should not list possible moves")
			}
		})
	}
}

func TestFormatGameState_Nil(t *testing.T) {
	if got := formatGameState(nil); got != "No game state available" {
		t.Errorf("Unexpected output %q", got)
	}
}

func TestFormatMoveResult_Failed(t *testing.T) {
	result := formatMoveResult(&service.MoveResult{
		Success:   false,
		Message:   "Move left did not change the board",
		GameState: &engine.GameState{Status: engine.StatusPlaying},
	})

	assertContains(t, result, "✗ Move failed", "Reason: Move left did not change the board")
}

func TestComputePossibleMoves_Idle(t *testing.T) {
	state := &engine.GameState{Grid: engine.Grid{{2, 0, 0, 0}}, Status: engine.StatusIdle}
	if moves := computePossibleMoves(state); len(moves) != 0 {
		t.Errorf("Expected no moves while idle, got %v", moves)
	}
}

func TestClient_handleGameInstructions(t *testing.T) {
	client := NewClient("http://localhost:8080")

	result, err := client.handleGameInstructions(context.Background(), callTool("game_instructions", nil))
	if err != nil {
		t.Fatalf("handleGameInstructions failed: %v", err)
	}

	assertContains(t, resultText(t, result),
		"2048 - Complete Instructions",
		"GAME OBJECTIVE:",
		"LIFECYCLE:",
		"MOVEMENT:",
		"SPAWNING:",
		"SCORING:",
		"WIN AND LOSE:",
		"Good luck reaching 2048!",
	)
}
