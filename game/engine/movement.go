package engine

// SlideResult is the outcome of sliding a grid in one direction
type SlideResult struct {
	Grid        Grid
	ScoreGained int
	Merges      int
	Moved       bool
}

// MergeRow slides a row toward index 0: zeros are removed, equal neighbours
// are merged pairwise from the left, and the result is padded with zeros.
// A tile produced by a merge is never merged again in the same pass.
// It returns the new row, the score gained and the number of merges.
func MergeRow(row Row) (Row, int, int) {
	var nums Row
	count := 0
	for _, v := range row {
		if v != 0 {
			nums[count] = v
			count++
		}
	}

	var result Row
	gained, merges, n := 0, 0, 0
	for i := 0; i < count; i++ {
		if i+1 < count && nums[i] == nums[i+1] {
			merged := nums[i] * 2
			result[n] = merged
			gained += merged
			merges++
			i++
		} else {
			result[n] = nums[i]
		}
		n++
	}

	return result, gained, merges
}

// Transpose returns the grid with rows and columns swapped
func Transpose(g Grid) Grid {
	var t Grid
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			t[c][r] = g[r][c]
		}
	}
	return t
}

// Slide applies a move in the given direction without spawning a tile.
// Vertical moves are reduced to horizontal ones by transposition, and
// rightward moves to leftward ones by reversing each row.
func Slide(g Grid, dir Direction) SlideResult {
	switch dir {
	case Left:
		return slideRows(g, false)
	case Right:
		return slideRows(g, true)
	case Up:
		res := slideRows(Transpose(g), false)
		res.Grid = Transpose(res.Grid)
		return res
	case Down:
		res := slideRows(Transpose(g), true)
		res.Grid = Transpose(res.Grid)
		return res
	default:
		return SlideResult{Grid: g}
	}
}

// slideRows merges every row toward column 0, or toward the last column when
// reversed. Change detection compares each row cell by cell.
func slideRows(g Grid, reversed bool) SlideResult {
	res := SlideResult{Grid: g}

	for i := 0; i < Size; i++ {
		original := Row(g[i])
		row := original
		if reversed {
			row = reverseRow(row)
		}

		merged, gained, merges := MergeRow(row)
		if reversed {
			merged = reverseRow(merged)
		}

		if merged != original {
			res.Moved = true
		}

		res.Grid[i] = merged
		res.ScoreGained += gained
		res.Merges += merges
	}

	return res
}

func reverseRow(row Row) Row {
	var out Row
	for i := 0; i < Size; i++ {
		out[i] = row[Size-1-i]
	}
	return out
}

// HasMoves reports whether any move can still change the grid: an empty
// cell exists, or some cell equals its right or bottom neighbour.
func HasMoves(g Grid) bool {
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			v := g[r][c]
			if v == 0 {
				return true
			}
			if c < Size-1 && v == g[r][c+1] {
				return true
			}
			if r < Size-1 && v == g[r+1][c] {
				return true
			}
		}
	}
	return false
}

// CanSlide reports whether a move in the given direction would change the grid
func CanSlide(g Grid, dir Direction) bool {
	return Slide(g, dir).Moved
}
