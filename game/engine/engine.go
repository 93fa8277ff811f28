package engine

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"
)

// Engine provides the main interface for game operations
type Engine interface {
	// Game state
	GetState() Grid
	GetInitialState() Grid
	GetScore() int
	GetStatus() Status
	Snapshot() *GameState

	// Lifecycle
	Start()
	Restart()

	// Movement operations
	MoveLeft() bool
	MoveRight() bool
	MoveUp() bool
	MoveDown() bool
	Move(dir Direction) bool
	CanMove() bool
	GetPossibleMoves() []Direction

	// History
	GetMoveHistory() []MoveHistoryEntry
	GetLastMove() *MoveHistoryEntry
}

// RandomSource picks spawn cells and values. *rand.Rand from math/rand/v2
// satisfies it; tests inject a seeded one.
type RandomSource interface {
	IntN(n int) int
	Float64() float64
}

// Option configures a GameEngine
type Option func(*GameEngine)

// WithRandom sets the random source used for tile spawning
func WithRandom(src RandomSource) Option {
	return func(e *GameEngine) {
		if src != nil {
			e.rng = src
		}
	}
}

// WithLayoutName records the name of the layout the engine was built from
func WithLayoutName(name string) Option {
	return func(e *GameEngine) {
		e.layoutName = name
	}
}

// withClock overrides the history timestamp source
func withClock(now func() time.Time) Option {
	return func(e *GameEngine) {
		e.now = now
	}
}

var _ Engine = (*GameEngine)(nil)

// GameEngine implements the Engine interface
type GameEngine struct {
	initial     Grid
	grid        Grid
	score       int
	status      Status
	rng         RandomSource
	history     []MoveHistoryEntry
	lastSpawned *Tile
	layoutName  string
	now         func() time.Time
}

// NewEngine creates a new game engine from an initial grid. A nil or empty
// grid yields an all-zero board; anything that is not a 4x4 grid of zeros
// and powers of two is rejected.
func NewEngine(initial [][]int, opts ...Option) (*GameEngine, error) {
	var grid Grid
	if len(initial) > 0 {
		g, err := GridFromRows(initial)
		if err != nil {
			return nil, err
		}
		grid = g
	}
	return NewEngineFromGrid(grid, opts...)
}

// NewEngineFromGrid creates a new game engine from a fixed-size grid
func NewEngineFromGrid(initial Grid, opts ...Option) (*GameEngine, error) {
	if err := ValidateGrid(initial); err != nil {
		return nil, err
	}

	e := &GameEngine{
		initial: initial,
		grid:    initial,
		status:  StatusIdle,
		rng:     rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// NewEngineFromLayout creates a new game engine from a validated layout
func NewEngineFromLayout(layout *Layout, opts ...Option) (*GameEngine, error) {
	if layout == nil {
		return NewEngine(nil, opts...)
	}
	opts = append([]Option{WithLayoutName(layout.Name)}, opts...)
	return NewEngine(layout.Grid, opts...)
}

// GetState returns a copy of the current grid
func (e *GameEngine) GetState() Grid {
	return e.grid
}

// GetInitialState returns a copy of the grid restored by Restart
func (e *GameEngine) GetInitialState() Grid {
	return e.initial
}

// GetScore returns the current score
func (e *GameEngine) GetScore() int {
	return e.score
}

// GetStatus returns the lifecycle status
func (e *GameEngine) GetStatus() Status {
	return e.status
}

// LayoutName returns the name of the layout the engine was built from
func (e *GameEngine) LayoutName() string {
	return e.layoutName
}

// Start begins play from idle and spawns the two starting tiles.
// It does nothing in any other status.
func (e *GameEngine) Start() {
	if e.status != StatusIdle {
		return
	}

	e.status = StatusPlaying
	for i := 0; i < StartingTiles; i++ {
		e.addRandomTile()
	}
}

// Restart restores the initial grid, clears score and history and returns to idle
func (e *GameEngine) Restart() {
	e.grid = e.initial
	e.score = 0
	e.status = StatusIdle
	e.history = nil
	e.lastSpawned = nil
}

// MoveLeft slides every row toward column 0
func (e *GameEngine) MoveLeft() bool {
	return e.move(Left)
}

// MoveRight slides every row toward the last column
func (e *GameEngine) MoveRight() bool {
	return e.move(Right)
}

// MoveUp slides every column toward row 0
func (e *GameEngine) MoveUp() bool {
	return e.move(Up)
}

// MoveDown slides every column toward the last row
func (e *GameEngine) MoveDown() bool {
	return e.move(Down)
}

// Move dispatches to the move for the given direction; unknown directions
// are rejected like any other move that cannot change the board.
func (e *GameEngine) Move(dir Direction) bool {
	switch dir {
	case Left, Right, Up, Down:
		return e.move(dir)
	default:
		return false
	}
}

// move applies a slide atomically: either the whole board, score, spawn and
// status change together, or nothing changes and false is returned.
func (e *GameEngine) move(dir Direction) bool {
	if e.status != StatusPlaying {
		return false
	}

	res := Slide(e.grid, dir)
	if !res.Moved {
		return false
	}

	e.grid = res.Grid
	e.score += res.ScoreGained
	spawned := e.addRandomTile()
	e.updateStatus()

	e.history = append(e.history, MoveHistoryEntry{
		MoveNumber:  len(e.history) + 1,
		Direction:   dir,
		ScoreGained: res.ScoreGained,
		Score:       e.score,
		Merges:      res.Merges,
		Spawned:     spawned,
		Status:      e.status,
		Timestamp:   e.now().Unix(),
	})

	return true
}

// CanMove reports whether the current grid still admits a move
func (e *GameEngine) CanMove() bool {
	return HasMoves(e.grid)
}

// GetPossibleMoves returns the directions that would currently be accepted
func (e *GameEngine) GetPossibleMoves() []Direction {
	if e.status != StatusPlaying {
		return nil
	}

	var possible []Direction
	for _, dir := range Directions {
		if CanSlide(e.grid, dir) {
			possible = append(possible, dir)
		}
	}
	return possible
}

// GetMoveHistory returns a copy of the accepted moves since the last restart
func (e *GameEngine) GetMoveHistory() []MoveHistoryEntry {
	out := make([]MoveHistoryEntry, len(e.history))
	copy(out, e.history)
	return out
}

// GetLastMove returns the last accepted move, or nil if no moves
func (e *GameEngine) GetLastMove() *MoveHistoryEntry {
	if len(e.history) == 0 {
		return nil
	}
	last := e.history[len(e.history)-1]
	return &last
}

// Snapshot returns an independent, JSON-friendly view of the game
func (e *GameEngine) Snapshot() *GameState {
	state := &GameState{
		Grid:        e.grid,
		InitialGrid: e.initial,
		Score:       e.score,
		Status:      e.status,
		MaxTile:     MaxTile(e.grid),
		EmptyCells:  CountEmpty(e.grid),
		CanMove:     HasMoves(e.grid),
		TotalMoves:  len(e.history),
		MoveHistory: e.GetMoveHistory(),
		LayoutName:  e.layoutName,
		Message:     StatusMessage(e.status),
	}
	if e.lastSpawned != nil {
		tile := *e.lastSpawned
		state.LastSpawned = &tile
	}
	return state
}

// addRandomTile places a 2 (or, with probability SpawnFourProbability, a 4)
// on a uniformly chosen empty cell. It returns nil when the board is full.
func (e *GameEngine) addRandomTile() *Tile {
	empty := EmptyCells(e.grid)
	if len(empty) == 0 {
		return nil
	}

	pos := empty[e.rng.IntN(len(empty))]
	value := 2
	if e.rng.Float64() >= 1-SpawnFourProbability {
		value = 4
	}
	e.grid[pos.Row][pos.Col] = value

	tile := &Tile{Position: pos, Value: value}
	e.lastSpawned = tile
	spawned := *tile
	return &spawned
}

// updateStatus recomputes the status after an accepted move. A winning tile
// takes precedence over an exhausted board.
func (e *GameEngine) updateStatus() {
	if ContainsTile(e.grid, WinningTile) {
		e.status = StatusWin
		return
	}

	if HasMoves(e.grid) {
		e.status = StatusPlaying
	} else {
		e.status = StatusLose
	}
}

// StatusMessage returns the player-facing message for a status
func StatusMessage(s Status) string {
	switch s {
	case StatusIdle:
		return "Press start to play"
	case StatusWin:
		return "You win!"
	case StatusLose:
		return "Game over!"
	default:
		return ""
	}
}

// ParseDirection converts user input into a Direction. It accepts the
// direction names in any case and the browser arrow key names.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left", "arrowleft":
		return Left, nil
	case "right", "arrowright":
		return Right, nil
	case "up", "arrowup":
		return Up, nil
	case "down", "arrowdown":
		return Down, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidDirection, s)
	}
}
