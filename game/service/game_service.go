package service

import (
	"context"
	"time"

	"github.com/wricardo/mcp-training/game2048/game/engine"
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, layoutName string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Game Operations
	Start(ctx context.Context, sessionID string) (*engine.GameState, bool, error)
	Restart(ctx context.Context, sessionID string) (*engine.GameState, error)
	Move(ctx context.Context, sessionID, direction string) (*MoveResult, error)
	BulkMove(ctx context.Context, sessionID string, moves []string) (*BulkMoveResult, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error)
	GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)

	// Layouts
	ListLayouts(ctx context.Context) ([]*LayoutInfo, error)
	LoadLayout(ctx context.Context, name string) (*engine.Layout, error)
	SaveLayout(ctx context.Context, name string, layout *engine.Layout) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, layout *engine.Layout) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
}

// LayoutManager handles starting layout loading
type LayoutManager interface {
	LoadLayout(name string) (*engine.Layout, error)
	ListLayouts() ([]*LayoutInfo, error)
	GetDefault() *engine.Layout
	SaveLayout(name string, layout *engine.Layout) error
}

// Session represents an active game session
type Session struct {
	ID             string
	Engine         engine.Engine
	Layout         *engine.Layout
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
