package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/wricardo/mcp-training/game2048/game/engine"
)

func TestAnalyzeGrid(t *testing.T) {
	g := engine.Grid{
		{2, 2, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 4},
	}

	a := analyzeGrid(g)

	want := Analysis{
		Tiles:      3,
		MaxTile:    4,
		Empty:      13,
		EqualPairs: 1,
		Openings: []Opening{
			{Direction: engine.Up, Moved: true, Merges: 0, ScoreGained: 0, EmptyAfter: 13},
			{Direction: engine.Down, Moved: true, Merges: 0, ScoreGained: 0, EmptyAfter: 13},
			{Direction: engine.Left, Moved: true, Merges: 1, ScoreGained: 4, EmptyAfter: 14},
			{Direction: engine.Right, Moved: true, Merges: 1, ScoreGained: 4, EmptyAfter: 14},
		},
	}
	if diff := cmp.Diff(want, a); diff != "" {
		t.Errorf("analyzeGrid mismatch (-want +got):\n%s", diff)
	}

	best, ok := a.BestOpening()
	if !ok || best.Direction != engine.Left {
		t.Errorf("Expected left as best opening, got %+v (ok=%v)", best, ok)
	}
}

func TestBestOpening_Blocked(t *testing.T) {
	g := engine.Grid{
		{2, 4, 2, 4},
		{4, 2, 4, 2},
		{2, 4, 2, 4},
		{4, 2, 4, 2},
	}

	a := analyzeGrid(g)
	if a.EqualPairs != 0 {
		t.Errorf("Expected no equal pairs, got %d", a.EqualPairs)
	}
	if _, ok := a.BestOpening(); ok {
		t.Error("Expected no opening on a blocked board")
	}
}

func TestBestOpening_PrefersEmptyCellsOnTie(t *testing.T) {
	a := Analysis{Openings: []Opening{
		{Direction: engine.Up, Moved: false},
		{Direction: engine.Down, Moved: true, EmptyAfter: 10},
		{Direction: engine.Left, Moved: true, EmptyAfter: 12},
		{Direction: engine.Right, Moved: true, EmptyAfter: 12},
	}}

	best, ok := a.BestOpening()
	if !ok || best.Direction != engine.Left {
		t.Errorf("Expected left, got %+v", best)
	}
}

func TestEqualPairs(t *testing.T) {
	tests := []struct {
		name     string
		grid     engine.Grid
		expected int
	}{
		{"Empty", engine.Grid{}, 0},
		{"Horizontal", engine.Grid{{2, 2, 2, 0}}, 2},
		{"Vertical", engine.Grid{{8}, {8}, {8}, {8}}, 3},
		{"Mixed", engine.Grid{{4, 4}, {4, 0}}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := equalPairs(tt.grid); got != tt.expected {
				t.Errorf("equalPairs() = %d, expected %d", got, tt.expected)
			}
		})
	}
}

func writeLayout(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write layout: %v", err)
	}
	return path
}

func TestAnalyzeLayout(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name     string
		file     string
		content  string
		expected []string
	}{
		{
			name:    "Pair",
			file:    "pair.json",
			content: `{"name": "Pair", "grid": [[2,2,0,0],[0,0,0,0],[0,0,0,0],[0,0,0,4]]}`,
			expected: []string{
				"Name: Pair",
				"Tiles: 3 (max 4)",
				"Adjacent Equal Pairs: 1",
				"left  merges=1 score=+4 empty=14",
				"✅ Best opening: left (+4)",
			},
		},
		{
			name:     "No merges",
			file:     "corner.yaml",
			content:  "grid:\n  - [64, 0, 0, 0]\n  - [0, 0, 0, 0]\n  - [0, 0, 0, 0]\n  - [0, 0, 0, 2]\n",
			expected: []string{"Name: corner", "WARNING: no opening move merges tiles"},
		},
		{
			name:     "Empty board",
			file:     "classic.json",
			content:  `{"name": "classic"}`,
			expected: []string{"Empty Cells: 16", "Empty board"},
		},
		{
			name:     "Invalid",
			file:     "won.json",
			content:  `{"name": "won", "grid": [[2048,0,0,0],[0,0,0,0],[0,0,0,0],[0,0,0,0]]}`,
			expected: []string{"Error loading layout"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeLayout(t, dir, tt.file, tt.content)

			var buf bytes.Buffer
			analyzeLayout(&buf, path)

			out := buf.String()
			for _, expected := range tt.expected {
				if !strings.Contains(out, expected) {
					t.Errorf("Expected %q in output, got:\n%s", expected, out)
				}
			}
		})
	}
}

func TestAnalyzeLayout_MissingFile(t *testing.T) {
	var buf bytes.Buffer
	analyzeLayout(&buf, "/non/existent/file.json")
	if !strings.Contains(buf.String(), "Error loading layout") {
		t.Errorf("Unexpected output: %s", buf.String())
	}
}

func TestLayoutFiles(t *testing.T) {
	dir := t.TempDir()
	writeLayout(t, dir, "b.yaml", "name: b\n")
	writeLayout(t, dir, "a.json", `{"name": "a"}`)
	writeLayout(t, dir, "c.yml", "name: c\n")
	writeLayout(t, dir, "notes.txt", "ignored")

	files, err := layoutFiles(dir)
	if err != nil {
		t.Fatalf("layoutFiles failed: %v", err)
	}

	var names []string
	for _, f := range files {
		names = append(names, filepath.Base(f))
	}
	if diff := cmp.Diff([]string{"a.json", "b.yaml", "c.yml"}, names); diff != "" {
		t.Errorf("layoutFiles mismatch (-want +got):\n%s", diff)
	}
}
