package service

import (
	"time"

	"github.com/wricardo/mcp-training/game2048/game/engine"
)

// Event types emitted by game operations
const (
	EventStart   = "start"
	EventRestart = "restart"
	EventMove    = "move"
	EventMerge   = "merge"
	EventSpawn   = "spawn"
	EventWin     = "win"
	EventLose    = "lose"

	// EventDeleted carries no game state
	EventDeleted = "deleted"
)

// MaxBulkMoves caps the number of moves BulkMove executes per call
const MaxBulkMoves = 50

// Stop reason codes reported by BulkMove
const (
	StopNoChange         = "no_change"
	StopNotPlaying       = "not_playing"
	StopWin              = "win"
	StopLose             = "lose"
	StopInvalidDirection = "invalid_direction"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string            `json:"id"`
	LayoutName     string            `json:"layout_name"`
	CreatedAt      time.Time         `json:"created_at"`
	LastAccessedAt time.Time         `json:"last_accessed_at"`
	GameState      *engine.GameState `json:"game_state"`
	Layout         *engine.Layout    `json:"layout,omitempty"`
}

// MoveResult contains the result of a move operation
type MoveResult struct {
	Success   bool              `json:"success"`
	GameState *engine.GameState `json:"game_state"`
	Message   string            `json:"message"`
	Events    []GameEvent       `json:"events,omitempty"`
	Step      *StepInfo         `json:"step,omitempty"`
}

// BulkMoveResult contains the result of multiple moves
type BulkMoveResult struct {
	MovesExecuted  int               `json:"moves_executed"`
	RequestedMoves int               `json:"requested_moves"`
	Success        bool              `json:"success"`
	GameState      *engine.GameState `json:"game_state"`
	Events         []GameEvent       `json:"events"`
	StoppedReason  string            `json:"stopped_reason,omitempty"`
	StopReasonCode string            `json:"stop_reason_code,omitempty"` // no_change|not_playing|win|lose|invalid_direction
	StoppedOnMove  int               `json:"stopped_on_move,omitempty"`  // 1-based
	Truncated      bool              `json:"truncated,omitempty"`
	Limit          int               `json:"limit,omitempty"`

	StartScore int `json:"start_score"`
	EndScore   int `json:"end_score"`
	ScoreDelta int `json:"score_delta"`

	Steps []StepInfo `json:"steps,omitempty"`

	GameOver      bool               `json:"game_over"`
	Message       string             `json:"message,omitempty"`
	PossibleMoves []engine.Direction `json:"possible_moves,omitempty"`
}

// StepInfo is a compact record for each executed move
type StepInfo struct {
	Idx         int              `json:"idx"`
	Dir         engine.Direction `json:"dir"`
	ScoreBefore int              `json:"score_before"`
	ScoreAfter  int              `json:"score_after"`
	Merges      int              `json:"merges"`
	Spawned     *engine.Tile     `json:"spawned,omitempty"`
	MaxTile     int              `json:"max_tile"`
	Status      engine.Status    `json:"status"`
}

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type      string       `json:"type"` // "start", "restart", "move", "merge", "spawn", "win", "lose"
	Message   string       `json:"message"`
	Timestamp time.Time    `json:"timestamp"`
	Tile      *engine.Tile `json:"tile,omitempty"`
}

// HistoryOptions configures move history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated move history
type HistoryResponse struct {
	Moves       []engine.MoveHistoryEntry `json:"moves"`
	TotalMoves  int                       `json:"total_moves"`
	Page        int                       `json:"page"`
	PageSize    int                       `json:"page_size"`
	TotalPages  int                       `json:"total_pages"`
	HasNext     bool                      `json:"has_next"`
	HasPrevious bool                      `json:"has_previous"`
}

// LayoutInfo provides information about a starting layout
type LayoutInfo struct {
	Filename    string `json:"filename"`
	LayoutID    string `json:"layout_id"` // The identifier to use for session creation
	Name        string `json:"name"`
	Description string `json:"description"`
	Tiles       int    `json:"tiles"`
	MaxTile     int    `json:"max_tile"`
}
