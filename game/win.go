// game/win.go
package game

// WinLength is the run length that ends the game.
const WinLength = 4

// direction is a unit step across the grid.
type direction struct {
	dRow, dCol int
}

var directions = [4]direction{
	{0, 1},  // row-wise, left to right
	{1, 0},  // column-wise, top to bottom
	{1, 1},  // diagonal, down-right
	{1, -1}, // diagonal, down-left
}

// WinningMove reports whether the grid holds a WinLength run of p in any
// of the four directions. Start coordinates are bounded so the whole run
// stays on the grid; any single run is enough, the scan stops at the first.
func WinningMove(grid Grid, p Piece) bool {
	for _, dir := range directions {
		if scanDirection(grid, p, dir) {
			return true
		}
	}
	return false
}

// scanDirection enumerates every start whose run of WinLength cells in dir
// stays in bounds, in the direction's natural scan order, and reports the
// first complete run of p.
func scanDirection(grid Grid, p Piece, dir direction) bool {
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			endRow := row + (WinLength-1)*dir.dRow
			endCol := col + (WinLength-1)*dir.dCol
			if endRow < 0 || endRow >= BoardSize || endCol < 0 || endCol >= BoardSize {
				continue
			}
			if runOf(grid, p, row, col, dir) {
				return true
			}
		}
	}
	return false
}

func runOf(grid Grid, p Piece, row, col int, dir direction) bool {
	for i := 0; i < WinLength; i++ {
		if grid[row+i*dir.dRow][col+i*dir.dCol] != p {
			return false
		}
	}
	return true
}
