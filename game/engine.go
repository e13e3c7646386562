// game/engine.go
package game

import (
	"errors"
	"fmt"
)

var (
	// ErrGameOver rejects any move on a finished game.
	ErrGameOver = errors.New("game is already over")
)

// IncorrectPieceError rejects a move played out of turn.
type IncorrectPieceError struct {
	Expected Piece
	Actual   Piece
}

func (e *IncorrectPieceError) Error() string {
	return fmt.Sprintf("it is not %s's turn, %s plays next", e.Actual, e.Expected)
}

// Game is the sum type over the two match phases. The only implementations
// are Playing and Over; consumers switch over both.
type Game interface {
	isGame()
}

// Playing is a live match. Turn is whichever piece moves next.
type Playing struct {
	Board Board
	Turn  Piece
}

// Over is a finished match, frozen at the winning move.
type Over struct {
	Board  Board
	Winner Piece
}

func (Playing) isGame() {}
func (Over) isGame()    {}

// NewGame starts a match on an empty board with X to move first.
func NewGame() Game {
	return Playing{Board: NewBoard(), Turn: PieceX}
}

// Advance applies one move for mover to g and returns the next game value.
// On any failure the input game is returned unchanged alongside the error:
// ErrGameOver on a finished game, IncorrectPieceError out of turn, ErrRowFull
// when the target row is at capacity.
func Advance(g Game, mover Piece, move Move) (Game, error) {
	switch current := g.(type) {
	case Over:
		return g, ErrGameOver
	case Playing:
		if mover != current.Turn {
			return g, &IncorrectPieceError{Expected: current.Turn, Actual: mover}
		}

		row, err := current.Board.Row(move.Row).InsertPiece(mover, move.Side)
		if err != nil {
			return g, err
		}

		board := current.Board.WithRow(move.Row, row)
		if WinningMove(board.RenderGrid(), mover) {
			return Over{Board: board, Winner: mover}, nil
		}
		return Playing{Board: board, Turn: mover.Other()}, nil
	default:
		return g, fmt.Errorf("unhandled game variant %T", g)
	}
}
