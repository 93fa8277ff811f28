package engine

import "errors"

// Status represents the lifecycle state of a game
type Status string

const (
	StatusIdle    Status = "idle"
	StatusPlaying Status = "playing"
	StatusWin     Status = "win"
	StatusLose    Status = "lose"
)

// IsTerminal reports whether no further moves are accepted until restart
func (s Status) IsTerminal() bool {
	return s == StatusWin || s == StatusLose
}

// Direction represents one of the four move directions
type Direction string

const (
	Left  Direction = "left"
	Right Direction = "right"
	Up    Direction = "up"
	Down  Direction = "down"
)

// Directions lists every direction in a stable order
var Directions = []Direction{Up, Down, Left, Right}

const (
	// Size is the board dimension; boards are always Size x Size.
	Size = 4

	// WinningTile ends the game in victory as soon as it appears.
	WinningTile = 2048

	// SpawnFourProbability is the chance a spawned tile is a 4 instead of a 2.
	SpawnFourProbability = 0.1

	// StartingTiles is the number of tiles spawned by Start.
	StartingTiles = 2
)

var (
	ErrInvalidGrid      = errors.New("invalid grid")
	ErrInvalidDirection = errors.New("invalid direction")
)

// Grid is a row-major 4x4 board; 0 marks an empty cell
type Grid [Size][Size]int

// Row is a single line of the board in slide order
type Row [Size]int

// Position represents row,col coordinates on the grid
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Tile is a value placed at a position
type Tile struct {
	Position
	Value int `json:"value"`
}

// GameState represents the complete observable game state
type GameState struct {
	Grid        Grid               `json:"grid"`
	InitialGrid Grid               `json:"initial_grid"`
	Score       int                `json:"score"`
	Status      Status             `json:"status"`
	MaxTile     int                `json:"max_tile"`
	EmptyCells  int                `json:"empty_cells"`
	CanMove     bool               `json:"can_move"`
	TotalMoves  int                `json:"total_moves"`
	MoveHistory []MoveHistoryEntry `json:"move_history"`
	LayoutName  string             `json:"layout_name,omitempty"`
	Message     string             `json:"message,omitempty"`
	LastSpawned *Tile              `json:"last_spawned,omitempty"`
}

// MoveHistoryEntry records a single accepted move
type MoveHistoryEntry struct {
	MoveNumber  int       `json:"move_number"`
	Direction   Direction `json:"direction"`
	ScoreGained int       `json:"score_gained"`
	Score       int       `json:"score"`
	Merges      int       `json:"merges"`
	Spawned     *Tile     `json:"spawned,omitempty"`
	Status      Status    `json:"status"`
	Timestamp   int64     `json:"timestamp"`
}

// Layout is a named starting grid loaded from a layout file
type Layout struct {
	Name        string  `json:"name" yaml:"name"`
	Description string  `json:"description" yaml:"description"`
	Grid        [][]int `json:"grid" yaml:"grid"`
}
