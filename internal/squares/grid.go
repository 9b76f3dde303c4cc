package squares

func validCoordinates(row, col int) bool {
	return row >= 0 && row < GridSize && col >= 0 && col < GridSize
}

// BuildGrid projects claimed squares into a fixed grid. Squares outside
// the grid are ignored.
func BuildGrid(squares []Square) Grid {
	var grid Grid
	for _, square := range squares {
		if !validCoordinates(square.Row, square.Col) {
			continue
		}
		grid[square.Row][square.Col] = &square
	}
	return grid
}

// Claimed returns the number of occupied cells.
func (g Grid) Claimed() int {
	count := 0
	for row := range g {
		for col := range g[row] {
			if g[row][col] != nil {
				count++
			}
		}
	}
	return count
}
