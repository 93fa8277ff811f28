package engine

// EmptyCells returns the empty positions of the grid in row-major order
func EmptyCells(g Grid) []Position {
	var cells []Position
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if g[r][c] == 0 {
				cells = append(cells, Position{Row: r, Col: c})
			}
		}
	}
	return cells
}

// CountEmpty counts the empty cells of the grid
func CountEmpty(g Grid) int {
	count := 0
	for _, row := range g {
		for _, v := range row {
			if v == 0 {
				count++
			}
		}
	}
	return count
}

// MaxTile returns the highest tile value on the grid
func MaxTile(g Grid) int {
	maxVal := 0
	for _, row := range g {
		for _, v := range row {
			if v > maxVal {
				maxVal = v
			}
		}
	}
	return maxVal
}

// ContainsTile reports whether any cell holds the given value
func ContainsTile(g Grid, value int) bool {
	for _, row := range g {
		for _, v := range row {
			if v == value {
				return true
			}
		}
	}
	return false
}

// IsPowerOfTwo reports whether v is a positive power of two
func IsPowerOfTwo(v int) bool {
	return v > 0 && v&(v-1) == 0
}

// Rows converts the grid into a slice-of-slices form
func (g Grid) Rows() [][]int {
	rows := make([][]int, Size)
	for r := range g {
		rows[r] = make([]int, Size)
		copy(rows[r], g[r][:])
	}
	return rows
}
