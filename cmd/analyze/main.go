// Command analyze prints quick, human-readable heuristics about the starting
// layouts in the layouts directory. For each layout it summarizes the tiles on
// the board, counts adjacent equal pairs, and shows what every opening
// direction would do (merges, score gained, empty cells left).
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/mcp-training/game2048/game/engine"
)

// Analysis holds the heuristics computed for a single grid.
type Analysis struct {
	Tiles      int
	MaxTile    int
	Empty      int
	EqualPairs int
	Openings   []Opening
}

// Opening describes the result of sliding the starting grid once.
type Opening struct {
	Direction   engine.Direction
	Moved       bool
	Merges      int
	ScoreGained int
	EmptyAfter  int
}

func main() {
	cmd := &cli.Command{
		Name:      "analyze",
		Usage:     "Print heuristics about 2048 starting layouts",
		ArgsUsage: "[files...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "dir",
				Value:   "configs",
				Usage:   "Layouts directory, used when no files are given",
				Sources: cli.EnvVars("LAYOUTS_DIR"),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			files := cmd.Args().Slice()
			if len(files) == 0 {
				var err error
				if files, err = layoutFiles(cmd.String("dir")); err != nil {
					return err
				}
			}

			for _, file := range files {
				fmt.Fprintf(cmd.Writer, "\n=== Analyzing %s ===\n", filepath.Base(file))
				analyzeLayout(cmd.Writer, file)
			}
			return nil
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

// layoutFiles lists the layout files in dir, sorted by name
func layoutFiles(dir string) ([]string, error) {
	var files []string
	for _, pattern := range []string{"*.json", "*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	sort.Strings(files)
	return files, nil
}

func analyzeLayout(w io.Writer, path string) {
	layout, err := engine.LoadLayout(path)
	if err != nil {
		fmt.Fprintf(w, "Error loading layout: %v\n", err)
		return
	}

	var g engine.Grid
	if len(layout.Grid) > 0 {
		g, _ = engine.GridFromRows(layout.Grid)
	}

	a := analyzeGrid(g)

	fmt.Fprintf(w, "Name: %s\n", layout.Name)
	fmt.Fprintf(w, "Tiles: %d (max %d)\n", a.Tiles, a.MaxTile)
	fmt.Fprintf(w, "Empty Cells: %d\n", a.Empty)
	fmt.Fprintf(w, "Adjacent Equal Pairs: %d\n", a.EqualPairs)

	if a.Tiles == 0 {
		fmt.Fprintf(w, "✅ Empty board, two random tiles are placed on start\n")
		return
	}

	for _, o := range a.Openings {
		if !o.Moved {
			fmt.Fprintf(w, "   %-5s blocked\n", o.Direction)
			continue
		}
		fmt.Fprintf(w, "   %-5s merges=%d score=+%d empty=%d\n", o.Direction, o.Merges, o.ScoreGained, o.EmptyAfter)
	}

	best, ok := a.BestOpening()
	switch {
	case !ok:
		fmt.Fprintf(w, "⚠️  WARNING: no opening move changes the board\n")
	case best.Merges == 0:
		fmt.Fprintf(w, "⚠️  WARNING: no opening move merges tiles\n")
	default:
		fmt.Fprintf(w, "✅ Best opening: %s (+%d)\n", best.Direction, best.ScoreGained)
	}
}

// analyzeGrid computes heuristics for g without spawning tiles
func analyzeGrid(g engine.Grid) Analysis {
	a := Analysis{
		Empty:      engine.CountEmpty(g),
		MaxTile:    engine.MaxTile(g),
		EqualPairs: equalPairs(g),
	}
	a.Tiles = engine.Size*engine.Size - a.Empty

	for _, dir := range engine.Directions {
		res := engine.Slide(g, dir)
		a.Openings = append(a.Openings, Opening{
			Direction:   dir,
			Moved:       res.Moved,
			Merges:      res.Merges,
			ScoreGained: res.ScoreGained,
			EmptyAfter:  engine.CountEmpty(res.Grid),
		})
	}
	return a
}

// BestOpening returns the moving opening with the highest score gain; ties
// go to the one leaving more empty cells, then to direction order.
func (a Analysis) BestOpening() (Opening, bool) {
	var best Opening
	found := false
	for _, o := range a.Openings {
		if !o.Moved {
			continue
		}
		if !found || o.ScoreGained > best.ScoreGained ||
			(o.ScoreGained == best.ScoreGained && o.EmptyAfter > best.EmptyAfter) {
			best = o
			found = true
		}
	}
	return best, found
}

// equalPairs counts horizontally or vertically adjacent equal non-zero tiles
func equalPairs(g engine.Grid) int {
	pairs := 0
	for r := 0; r < engine.Size; r++ {
		for c := 0; c < engine.Size; c++ {
			v := g[r][c]
			if v == 0 {
				continue
			}
			if c+1 < engine.Size && g[r][c+1] == v {
				pairs++
			}
			if r+1 < engine.Size && g[r+1][c] == v {
				pairs++
			}
		}
	}
	return pairs
}
