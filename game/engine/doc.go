// Package engine provides the core rules of the 2048 sliding-tile puzzle.
//
// The engine package implements the game mechanics including:
//   - Shifting and merging tiles in the four directions
//   - Random tile spawning (2 with probability 0.9, otherwise 4)
//   - Score accounting and win/lose detection
//   - Lifecycle control (start, restart) over a captured initial grid
//   - Starting layout validation and loading
//
// Core Types:
//
// The Engine interface defines the main contract for game operations,
// implemented by GameEngine. Grid is a 4x4 value type, so every accessor
// hands out an independent copy. GameState is the JSON-friendly snapshot
// consumed by the service and transport layers.
//
// Usage:
//
//	gameEngine, err := engine.NewEngine(nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameEngine.Start()
//	moved := gameEngine.MoveLeft()
//	grid := gameEngine.GetState()
//
// Game Rules:
//
// Every move slides all tiles as far as possible in one direction. Two equal
// tiles that meet merge into one tile of twice the value, and the merged
// value is added to the score. A tile produced by a merge does not merge
// again in the same move. A move that changes nothing is rejected. After an
// accepted move one new tile appears on a random empty cell. Reaching a 2048
// tile wins; a full board with no equal neighbours loses.
package engine
