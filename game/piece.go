// game/piece.go
package game

import (
	"errors"
	"fmt"
)

// Piece is one of the two players' markers.
type Piece string

const (
	PieceX Piece = "X"
	PieceO Piece = "O"
)

// Side is the end of a row a piece enters from.
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// RowID names one of the seven lanes of the board.
type RowID string

const (
	Row1 RowID = "row1"
	Row2 RowID = "row2"
	Row3 RowID = "row3"
	Row4 RowID = "row4"
	Row5 RowID = "row5"
	Row6 RowID = "row6"
	Row7 RowID = "row7"
)

// RowIDs lists the row identifiers in board order, top to bottom.
var RowIDs = [BoardSize]RowID{Row1, Row2, Row3, Row4, Row5, Row6, Row7}

var (
	ErrUnknownPiece = errors.New("unknown piece")
	ErrUnknownSide  = errors.New("unknown side")
	ErrUnknownRow   = errors.New("unknown row")
)

// Other returns the opposing piece.
func (p Piece) Other() Piece {
	if p == PieceX {
		return PieceO
	}
	return PieceX
}

// ParsePiece validates a wire literal against the two-piece set.
func ParsePiece(s string) (Piece, error) {
	switch Piece(s) {
	case PieceX, PieceO:
		return Piece(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPiece, s)
	}
}

// ParseSide validates a wire literal against the two-side set.
func ParseSide(s string) (Side, error) {
	switch Side(s) {
	case SideLeft, SideRight:
		return Side(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSide, s)
	}
}

// ParseRowID validates a wire literal against the seven row names.
func ParseRowID(s string) (RowID, error) {
	for _, id := range RowIDs {
		if RowID(s) == id {
			return id, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRow, s)
}

func rowIndex(id RowID) int {
	for i, r := range RowIDs {
		if r == id {
			return i
		}
	}
	return -1
}
