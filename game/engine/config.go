package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ValidateGrid checks that every cell is empty or a power of two of at least 2
func ValidateGrid(g Grid) error {
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if v := g[r][c]; v != 0 && (v < 2 || !IsPowerOfTwo(v)) {
				return fmt.Errorf("%w: cell (%d,%d) must be 0 or a power of two >= 2, got %d", ErrInvalidGrid, r, c, v)
			}
		}
	}
	return nil
}

// GridFromRows converts a slice-of-slices grid into a Grid, rejecting any
// shape other than 4x4 and any cell that ValidateGrid would reject.
func GridFromRows(rows [][]int) (Grid, error) {
	var g Grid
	if len(rows) != Size {
		return g, fmt.Errorf("%w: must have %d rows, got %d", ErrInvalidGrid, Size, len(rows))
	}
	for r, row := range rows {
		if len(row) != Size {
			return g, fmt.Errorf("%w: row %d must have %d cells, got %d", ErrInvalidGrid, r, Size, len(row))
		}
		copy(g[r][:], row)
	}
	if err := ValidateGrid(g); err != nil {
		return Grid{}, err
	}
	return g, nil
}

// ValidateLayout validates a starting layout for correctness and playability
func ValidateLayout(layout *Layout) error {
	if layout == nil {
		return fmt.Errorf("layout validation: layout cannot be nil")
	}
	if layout.Name == "" {
		return fmt.Errorf("layout validation: name is required")
	}

	// An omitted grid means the empty board
	if len(layout.Grid) == 0 {
		return nil
	}

	g, err := GridFromRows(layout.Grid)
	if err != nil {
		return fmt.Errorf("layout validation: %w", err)
	}

	// Start needs room for the two starting tiles
	if empty := CountEmpty(g); empty < StartingTiles {
		return fmt.Errorf("layout validation: grid needs at least %d empty cells, got %d", StartingTiles, empty)
	}
	if ContainsTile(g, WinningTile) {
		return fmt.Errorf("layout validation: grid must not already contain a %d tile", WinningTile)
	}

	return nil
}

// LoadLayout loads a layout from a JSON or YAML file, chosen by extension
func LoadLayout(filename string) (*Layout, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	layout, err := ParseLayout(filename, data)
	if err != nil {
		return nil, err
	}

	if err := ValidateLayout(layout); err != nil {
		return nil, err
	}

	return layout, nil
}

// ParseLayout decodes layout data; filename only selects the format
func ParseLayout(filename string, data []byte) (*Layout, error) {
	var layout Layout

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &layout); err != nil {
			return nil, fmt.Errorf("failed to parse layout '%s': %w", filename, err)
		}
	default:
		if err := json.Unmarshal(data, &layout); err != nil {
			return nil, fmt.Errorf("failed to parse layout '%s': %w", filename, err)
		}
	}

	if layout.Name == "" {
		base := filepath.Base(filename)
		layout.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}

	return &layout, nil
}
