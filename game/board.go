// game/board.go
package game

import "fmt"

const (
	// BoardSize is the number of rows and the width of the rendered grid.
	BoardSize = 7
	// RowCapacity is the combined limit of left and right insertions per row.
	RowCapacity = 7
)

// ErrRowFull is returned when a row already holds RowCapacity pieces.
var ErrRowFull = fmt.Errorf("row holds %d pieces already", RowCapacity)

// Row is one lane of the board, fillable from both ends.
//
// insertedFromLeft keeps the most recent insertion first (new pieces prepend),
// insertedFromRight keeps the oldest insertion first (new pieces append).
// The asymmetry is part of the data model, not an accident; the rendered grid
// and the persisted move log both depend on it.
type Row struct {
	insertedFromLeft  []Piece
	insertedFromRight []Piece
}

// Size returns the number of pieces in the row.
func (r Row) Size() int {
	return len(r.insertedFromLeft) + len(r.insertedFromRight)
}

// InsertPiece returns a new Row with the piece added on the given side.
// The receiver is never mutated. Fails with ErrRowFull at capacity.
func (r Row) InsertPiece(p Piece, side Side) (Row, error) {
	if r.Size() >= RowCapacity {
		return Row{}, ErrRowFull
	}

	switch side {
	case SideLeft:
		left := make([]Piece, 0, len(r.insertedFromLeft)+1)
		left = append(left, p)
		left = append(left, r.insertedFromLeft...)
		return Row{insertedFromLeft: left, insertedFromRight: r.insertedFromRight}, nil
	case SideRight:
		right := make([]Piece, 0, len(r.insertedFromRight)+1)
		right = append(right, r.insertedFromRight...)
		right = append(right, p)
		return Row{insertedFromLeft: r.insertedFromLeft, insertedFromRight: right}, nil
	default:
		return Row{}, fmt.Errorf("%w: %q", ErrUnknownSide, side)
	}
}

// Left returns the left-inserted pieces, newest first.
func (r Row) Left() []Piece {
	return append([]Piece(nil), r.insertedFromLeft...)
}

// Right returns the right-inserted pieces, oldest first.
func (r Row) Right() []Piece {
	return append([]Piece(nil), r.insertedFromRight...)
}

// Board maps the seven row identifiers to their rows. It is a value type;
// updates go through WithRow which returns a copy with one row replaced.
type Board struct {
	rows [BoardSize]Row
}

// NewBoard returns an all-empty board.
func NewBoard() Board {
	return Board{}
}

// Row returns the row stored under id.
func (b Board) Row(id RowID) Row {
	return b.rows[rowIndex(id)]
}

// WithRow returns a copy of the board with exactly one row replaced.
func (b Board) WithRow(id RowID, row Row) Board {
	b.rows[rowIndex(id)] = row
	return b
}

// Grid is the rendered 7x7 matrix. The zero value of a cell is NoPiece.
type Grid [BoardSize][BoardSize]Piece

// NoPiece marks an empty grid cell.
const NoPiece Piece = ""

// RenderGrid projects the board into its display matrix: left insertions
// occupy the leading columns in stored order, right insertions the trailing
// columns in stored order, empty cells in between. Pure; never stored.
func (b Board) RenderGrid() Grid {
	var grid Grid
	for i, row := range b.rows {
		for j, p := range row.insertedFromLeft {
			grid[i][j] = p
		}
		offset := BoardSize - len(row.insertedFromRight)
		for j, p := range row.insertedFromRight {
			grid[i][offset+j] = p
		}
	}
	return grid
}

// Move targets one end of one row. It carries no ownership; the session
// decides which piece is moving.
type Move struct {
	Row  RowID `json:"row"`
	Side Side  `json:"side"`
}
