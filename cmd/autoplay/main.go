// Command autoplay drives games on a running 2048 server through its REST
// API, useful for smoke testing a deployment or generating traffic for the
// websocket and NATS fan-out. It creates (or resumes) a session, then plays a
// number of games by cycling a fixed move pattern and prints a summary.
//
// The session ID is saved to .session so later runs reuse it.
package main

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/mcp-training/game2048/game/engine"
)

const sessionFile = ".session"

// playOptions bounds a single game
type playOptions struct {
	maxMoves int
	delay    time.Duration
	verbose  bool
}

// summary aggregates the results of every game played
type summary struct {
	Games     int
	Wins      int
	Moves     int
	BestScore int
	BestTile  int
}

func (s *summary) add(state *engine.GameState, moves int) {
	s.Games++
	s.Moves += moves
	if state.Status == engine.StatusWin {
		s.Wins++
	}
	if state.Score > s.BestScore {
		s.BestScore = state.Score
	}
	if state.MaxTile > s.BestTile {
		s.BestTile = state.MaxTile
	}
}

func main() {
	cmd := &cli.Command{
		Name:  "autoplay",
		Usage: "Drive 2048 games against a game server",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "url", Value: "http://localhost:8080", Usage: "Game server URL", Sources: cli.EnvVars("GAME_URL")},
			&cli.StringFlag{Name: "layout", Usage: "Starting layout id (server default when empty)"},
			&cli.StringFlag{Name: "continue", Usage: "Resume playing an existing session by ID"},
			&cli.StringFlag{Name: "pattern", Value: "left,down,right,up", Usage: "Comma separated move cycle"},
			&cli.IntFlag{Name: "games", Value: 10, Usage: "Number of games to play"},
			&cli.IntFlag{Name: "max-moves", Value: 5000, Usage: "Maximum moves per game"},
			&cli.BoolFlag{Name: "v", Usage: "Verbose output"},
			&cli.DurationFlag{Name: "delay", Usage: "Delay between moves (0 = no delay)"},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	pattern, err := ParsePattern(cmd.String("pattern"))
	if err != nil {
		return err
	}

	log.Printf("Connecting to game server at %s", cmd.String("url"))
	client := NewClient(cmd.String("url"))

	if err := openSession(client, cmd.String("continue"), cmd.String("layout")); err != nil {
		return err
	}

	opts := playOptions{
		maxMoves: int(cmd.Int("max-moves")),
		delay:    cmd.Duration("delay"),
		verbose:  cmd.Bool("v"),
	}
	games := int(cmd.Int("games"))
	strategy := NewPatternStrategy(pattern)

	var total summary
	for game := 1; game <= games; game++ {
		log.Printf("=== 🎮 Game %d/%d ===", game, games)

		strategy.Reset()
		state, moves, err := playAttempt(ctx, client, strategy, opts)
		if err != nil {
			return err
		}
		total.add(state, moves)

		log.Printf("Game %d: Moves=%d, Score=%d, Max tile=%d, Status=%s",
			game, moves, state.Score, state.MaxTile, state.Status)
	}

	log.Printf("Played %d games (%d won, %d moves) • Best score: %d • Best tile: %d",
		total.Games, total.Wins, total.Moves, total.BestScore, total.BestTile)
	log.Printf("Session: %s", client.SessionID())
	return nil
}

// openSession resumes the requested or saved session, creating one if neither works
func openSession(client *Client, continueID, layoutID string) error {
	sessionID := continueID
	if sessionID == "" {
		if data, err := os.ReadFile(sessionFile); err == nil {
			sessionID = string(bytes.TrimSpace(data))
		}
	}

	if sessionID != "" {
		client.Resume(sessionID)
		_, err := client.GetState()
		if err == nil {
			log.Printf("🔄 Resuming session: %s", sessionID)
			return nil
		}
		log.Printf("⚠️  Failed to resume session (may be expired): %v", err)
	}

	session, err := client.CreateSession(layoutID)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	log.Printf("✨ Session created: %s (layout %s)", session.ID, session.LayoutName)

	if err := os.WriteFile(sessionFile, []byte(session.ID), 0644); err != nil {
		log.Printf("Warning: Failed to save session ID: %v", err)
	}
	return nil
}

// playAttempt restarts the session and plays until the game ends, no
// pattern direction moves or maxMoves is reached.
func playAttempt(ctx context.Context, client *Client, strategy *PatternStrategy, opts playOptions) (*engine.GameState, int, error) {
	if _, err := client.Restart(); err != nil {
		return nil, 0, err
	}
	state, err := client.Start()
	if err != nil {
		return nil, 0, err
	}

	moves := 0
	for state.Status == engine.StatusPlaying && moves < opts.maxMoves {
		if opts.verbose && moves%50 == 0 {
			log.Printf("Moves: %d, Score: %d, Max tile: %d, Empty: %d",
				moves, state.Score, state.MaxTile, state.EmptyCells)
		}

		dir := strategy.NextMove(state.Grid)
		if dir == "" {
			log.Printf("⚠️  No valid moves available")
			break
		}

		result, err := client.Move(dir)
		if err != nil {
			return state, moves, err
		}
		if !result.Success {
			if opts.verbose {
				log.Printf("Move %s rejected: %s", dir, result.Message)
			}
			break
		}
		state = result.GameState
		moves++

		if opts.delay > 0 {
			select {
			case <-ctx.Done():
				return state, moves, ctx.Err()
			case <-time.After(opts.delay):
			}
		}
	}

	return state, moves, nil
}
