// Package validate checks starting layout files before the server loads them.
//
// For every *.json, *.yaml and *.yml file in a directory it checks:
//   - the file parses as a layout
//   - the grid is 4x4 and every cell is 0 or a power of two >= 2
//   - there is room for the two starting tiles
//   - the grid does not already hold a winning tile
//
// Valid files also get informational lines (tile count, max tile, opening
// moves) so a layout author can see what a player will face.
package validate

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/wricardo/mcp-training/game2048/game/engine"
)

// Result captures the outcome of validating a single file.
// Info is only filled for valid files.
type Result struct {
	File   string
	Valid  bool
	Errors []string
	Info   []string
}

// File loads and validates a single layout file.
func File(path string) Result {
	result := Result{
		File:  filepath.Base(path),
		Valid: true,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return result.fail(fmt.Sprintf("Failed to read file: %v", err))
	}

	layout, err := engine.ParseLayout(path, data)
	if err != nil {
		return result.fail(fmt.Sprintf("Invalid layout file: %v", err))
	}

	if err := engine.ValidateLayout(layout); err != nil {
		return result.fail(strings.TrimPrefix(err.Error(), "layout validation: "))
	}

	var g engine.Grid
	if len(layout.Grid) > 0 {
		// ValidateLayout already checked the shape
		g, _ = engine.GridFromRows(layout.Grid)
	}

	tiles := engine.Size*engine.Size - engine.CountEmpty(g)
	result.Info = append(result.Info,
		fmt.Sprintf("✓ Name: %s", layout.Name),
		fmt.Sprintf("✓ Tiles: %d (max %d)", tiles, engine.MaxTile(g)),
		fmt.Sprintf("✓ Empty cells: %d", engine.CountEmpty(g)),
	)

	if moves := openingMoves(g); len(moves) > 0 {
		result.Info = append(result.Info, fmt.Sprintf("✓ Opening moves: %s", strings.Join(moves, ",")))
	}

	return result
}

func (r Result) fail(msg string) Result {
	r.Valid = false
	r.Errors = append(r.Errors, msg)
	return r
}

// openingMoves lists directions that change the grid as laid out
func openingMoves(g engine.Grid) []string {
	var moves []string
	for _, d := range engine.Directions {
		if engine.CanSlide(g, d) {
			moves = append(moves, string(d))
		}
	}
	return moves
}

// Dir validates every layout file in dir, sorted by file name.
func Dir(dir string) ([]Result, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read layout directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".json", ".yaml", ".yml":
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	results := make([]Result, 0, len(files))
	for _, name := range files {
		results = append(results, File(filepath.Join(dir, name)))
	}
	return results, nil
}

// Report prints a concise report and returns whether every file was valid.
func Report(w io.Writer, results []Result) bool {
	allValid := true
	for _, result := range results {
		fmt.Fprintf(w, "\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Fprintln(w, "✅ VALID")
			for _, info := range result.Info {
				fmt.Fprintln(w, "  "+info)
			}
			continue
		}

		fmt.Fprintln(w, "❌ INVALID")
		allValid = false
		for _, err := range result.Errors {
			fmt.Fprintln(w, "  ❌ "+err)
		}
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 40))
	switch {
	case len(results) == 0:
		fmt.Fprintln(w, "⚠ No layout files found")
	case allValid:
		fmt.Fprintln(w, "✅ All layouts are valid!")
	default:
		fmt.Fprintln(w, "❌ Some layouts have errors")
	}
	return allValid
}
