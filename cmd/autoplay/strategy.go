package main

import (
	"fmt"
	"strings"

	"github.com/wricardo/mcp-training/game2048/game/engine"
)

// DefaultPattern is the move cycle used when none is given
var DefaultPattern = []engine.Direction{engine.Left, engine.Down, engine.Right, engine.Up}

// PatternStrategy cycles through a fixed list of directions, skipping the
// ones that would not change the grid. It does no lookahead.
type PatternStrategy struct {
	pattern []engine.Direction
	next    int
	skipped int
}

func NewPatternStrategy(pattern []engine.Direction) *PatternStrategy {
	if len(pattern) == 0 {
		pattern = DefaultPattern
	}
	return &PatternStrategy{pattern: pattern}
}

// ParsePattern reads a comma separated list of directions
func ParsePattern(s string) ([]engine.Direction, error) {
	var pattern []engine.Direction
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		dir, err := engine.ParseDirection(part)
		if err != nil {
			return nil, fmt.Errorf("parse pattern: %w", err)
		}
		pattern = append(pattern, dir)
	}
	if len(pattern) == 0 {
		return nil, fmt.Errorf("parse pattern: no directions in %q", s)
	}
	return pattern, nil
}

// NextMove returns the next direction in the cycle that moves the grid, or ""
// when no direction of the pattern does
func (s *PatternStrategy) NextMove(g engine.Grid) engine.Direction {
	for range s.pattern {
		dir := s.pattern[s.next]
		s.next = (s.next + 1) % len(s.pattern)
		if engine.CanSlide(g, dir) {
			return dir
		}
		s.skipped++
	}
	return ""
}

// Reset rewinds the cycle to its first direction
func (s *PatternStrategy) Reset() {
	s.next = 0
}

// Skipped reports how many pattern entries were passed over
func (s *PatternStrategy) Skipped() int {
	return s.skipped
}
