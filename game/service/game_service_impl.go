package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/wricardo/mcp-training/game2048/game/engine"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrLayoutNotFound  = errors.New("layout not found")
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	layouts  LayoutManager
	mu       sync.RWMutex
	now      func() time.Time
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, layouts LayoutManager) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		layouts:  layouts,
		now:      time.Now,
	}
}

// CreateSession creates a new game session on the named layout, or on the
// default layout when name is empty
func (s *gameServiceImpl) CreateSession(ctx context.Context, layoutName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var layout *engine.Layout
	if layoutName != "" {
		var err error
		layout, err = s.layouts.LoadLayout(layoutName)
		if err != nil {
			if errors.Is(err, ErrLayoutNotFound) {
				available, listErr := s.layouts.ListLayouts()
				if listErr == nil && len(available) > 0 {
					var ids []string
					for _, l := range available {
						ids = append(ids, l.LayoutID)
					}
					return nil, fmt.Errorf("layout '%s' not found. Available layouts: %v: %w", layoutName, ids, err)
				}
				return nil, fmt.Errorf("layout '%s' not found. Use /api/layouts to list available layouts: %w", layoutName, err)
			}
			return nil, fmt.Errorf("failed to load layout %s: %w", layoutName, err)
		}
	} else {
		layout = s.layouts.GetDefault()
	}

	// Let session manager generate a proper 4-character ID
	sess, err := s.sessions.Create("", layout)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return toSessionInfo(sess), nil
}

// GetSession retrieves session information and refreshes its last access time
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	return toSessionInfo(sess), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, toSessionInfo(sess))
	}

	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sessions.Delete(sessionID)
}

// Start moves an idle session into play and spawns the starting tiles.
// Starting a game that is not idle is a no-op and reports started as false.
func (s *gameServiceImpl) Start(ctx context.Context, sessionID string) (*engine.GameState, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, false, fmt.Errorf("session %s: %w", sessionID, err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	started := sess.Engine.GetStatus() == engine.StatusIdle
	sess.Engine.Start()

	return sess.Engine.Snapshot(), started, nil
}

// Restart returns a session to its initial layout in idle status
func (s *gameServiceImpl) Restart(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	sess.Engine.Restart()

	return sess.Engine.Snapshot(), nil
}

// Move executes a single move for a session. An unknown direction is an
// error; a move the engine rejects is reported with Success false.
func (s *gameServiceImpl) Move(ctx context.Context, sessionID, direction string) (*MoveResult, error) {
	dir, err := engine.ParseDirection(direction)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	status := sess.Engine.GetStatus()
	scoreBefore := sess.Engine.GetScore()
	success := sess.Engine.Move(dir)
	state := sess.Engine.Snapshot()

	result := &MoveResult{
		Success:   success,
		GameState: state,
		Message:   state.Message,
	}

	if !success {
		switch {
		case status != engine.StatusPlaying:
			result.Message = fmt.Sprintf("Cannot move: game is %s", status)
		default:
			result.Message = fmt.Sprintf("Move %s does not change the board", dir)
		}
		return result, nil
	}

	last := sess.Engine.GetLastMove()
	result.Events = s.extractMoveEvents(last)
	result.Step = newStepInfo(1, last, scoreBefore, state)

	return result, nil
}

// BulkMove executes multiple moves in sequence, stopping at the first move
// that is rejected or that ends the game
func (s *gameServiceImpl) BulkMove(ctx context.Context, sessionID string, moves []string) (*BulkMoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	startScore := sess.Engine.GetScore()
	result := &BulkMoveResult{
		RequestedMoves: len(moves),
		Events:         make([]GameEvent, 0),
		Success:        true,
		StartScore:     startScore,
	}

	// Limit moves to prevent abuse
	if len(moves) > MaxBulkMoves {
		result.Truncated = true
		result.Limit = MaxBulkMoves
		moves = moves[:MaxBulkMoves]
	}

	for i, raw := range moves {
		status := sess.Engine.GetStatus()
		if status != engine.StatusPlaying {
			result.Success = false
			result.StoppedOnMove = i + 1
			result.StopReasonCode = stopCodeForStatus(status)
			result.StoppedReason = fmt.Sprintf("game is %s", status)
			break
		}

		dir, err := engine.ParseDirection(raw)
		if err != nil {
			result.Success = false
			result.StoppedOnMove = i + 1
			result.StopReasonCode = StopInvalidDirection
			result.StoppedReason = fmt.Sprintf("move %d: invalid direction %q", i+1, raw)
			break
		}

		scoreBefore := sess.Engine.GetScore()
		if !sess.Engine.Move(dir) {
			result.Success = false
			result.StoppedOnMove = i + 1
			result.StopReasonCode = StopNoChange
			result.StoppedReason = fmt.Sprintf("move %d (%s) does not change the board", i+1, dir)
			break
		}

		result.MovesExecuted++
		last := sess.Engine.GetLastMove()
		result.Events = append(result.Events, s.extractMoveEvents(last)...)
		result.Steps = append(result.Steps, *newStepInfo(i+1, last, scoreBefore, sess.Engine.Snapshot()))

		if after := sess.Engine.GetStatus(); after.IsTerminal() {
			result.StoppedOnMove = i + 1
			result.StopReasonCode = stopCodeForStatus(after)
			result.StoppedReason = fmt.Sprintf("move %d ended the game: %s", i+1, after)
			break
		}
	}

	endState := sess.Engine.Snapshot()
	result.GameState = endState
	result.EndScore = endState.Score
	result.ScoreDelta = endState.Score - startScore
	result.GameOver = endState.Status.IsTerminal()
	result.Message = endState.Message
	result.PossibleMoves = sess.Engine.GetPossibleMoves()

	return result, nil
}

// GetGameState retrieves the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return sess.Engine.Snapshot(), nil
}

// GetMoveHistory returns paginated move history
func (s *gameServiceImpl) GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}

	return paginateHistory(sess.Engine.GetMoveHistory(), opts), nil
}

// ListLayouts returns available starting layouts
func (s *gameServiceImpl) ListLayouts(ctx context.Context) ([]*LayoutInfo, error) {
	return s.layouts.ListLayouts()
}

// LoadLayout loads a specific starting layout
func (s *gameServiceImpl) LoadLayout(ctx context.Context, name string) (*engine.Layout, error) {
	return s.layouts.LoadLayout(name)
}

// SaveLayout saves a starting layout to disk
func (s *gameServiceImpl) SaveLayout(ctx context.Context, name string, layout *engine.Layout) error {
	return s.layouts.SaveLayout(name, layout)
}

func paginateHistory(history []engine.MoveHistoryEntry, opts HistoryOptions) *HistoryResponse {
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order != "asc" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	moves := []engine.MoveHistoryEntry{}
	if start < total {
		if opts.Order == "desc" {
			// Most recent first
			for i := total - 1 - start; i >= total-end; i-- {
				moves = append(moves, history[i])
			}
		} else {
			moves = append(moves, history[start:end]...)
		}
	}

	return &HistoryResponse{
		Moves:       moves,
		TotalMoves:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}
}

// extractMoveEvents generates events from an accepted move
func (s *gameServiceImpl) extractMoveEvents(entry *engine.MoveHistoryEntry) []GameEvent {
	if entry == nil {
		return nil
	}

	now := s.now()
	events := []GameEvent{{
		Type:      EventMove,
		Message:   fmt.Sprintf("Moved %s (+%d)", entry.Direction, entry.ScoreGained),
		Timestamp: now,
	}}

	if entry.Merges > 0 {
		events = append(events, GameEvent{
			Type:      EventMerge,
			Message:   fmt.Sprintf("Merged %d pair(s) for %d points", entry.Merges, entry.ScoreGained),
			Timestamp: now,
		})
	}

	if entry.Spawned != nil {
		tile := *entry.Spawned
		events = append(events, GameEvent{
			Type:      EventSpawn,
			Message:   fmt.Sprintf("Spawned %d at (%d,%d)", tile.Value, tile.Row, tile.Col),
			Timestamp: now,
			Tile:      &tile,
		})
	}

	switch entry.Status {
	case engine.StatusWin:
		events = append(events, GameEvent{
			Type:      EventWin,
			Message:   fmt.Sprintf("Reached %d with score %d", engine.WinningTile, entry.Score),
			Timestamp: now,
		})
	case engine.StatusLose:
		events = append(events, GameEvent{
			Type:      EventLose,
			Message:   fmt.Sprintf("No moves left. Final score %d", entry.Score),
			Timestamp: now,
		})
	}

	return events
}

func newStepInfo(idx int, entry *engine.MoveHistoryEntry, scoreBefore int, state *engine.GameState) *StepInfo {
	step := &StepInfo{
		Idx:         idx,
		ScoreBefore: scoreBefore,
		ScoreAfter:  state.Score,
		MaxTile:     state.MaxTile,
		Status:      state.Status,
	}
	if entry != nil {
		step.Dir = entry.Direction
		step.Merges = entry.Merges
		step.Spawned = entry.Spawned
	}
	return step
}

func stopCodeForStatus(status engine.Status) string {
	switch status {
	case engine.StatusWin:
		return StopWin
	case engine.StatusLose:
		return StopLose
	default:
		return StopNotPlaying
	}
}

func toSessionInfo(sess *Session) *SessionInfo {
	info := &SessionInfo{
		ID:             sess.ID,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		GameState:      sess.Engine.Snapshot(),
		Layout:         sess.Layout,
	}
	if sess.Layout != nil {
		info.LayoutName = sess.Layout.Name
	}
	return info
}
