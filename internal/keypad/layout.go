package keypad

const (
	layoutRows = 5
	layoutCols = 4
)

// Layout returns the button grid, top row first. The top row and the
// rightmost column hold operators; operands fill the remaining cells.
func Layout() [][]Key {
	grid := make([][]Key, layoutRows)
	operand, operator := Seven, Clear
	for row := range grid {
		grid[row] = make([]Key, layoutCols)
		for col := range grid[row] {
			if row == 0 || col == layoutCols-1 {
				grid[row][col] = operator
				operator++
			} else {
				grid[row][col] = operand
				operand++
			}
		}
	}
	return grid
}
