package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGame(t *testing.T) {
	g := NewGame()

	playing, ok := g.(Playing)
	require.True(t, ok, "a new game should be in the playing phase")
	assert.Equal(t, PieceX, playing.Turn)
	for _, id := range RowIDs {
		assert.Equal(t, 0, playing.Board.Row(id).Size())
	}
}

func TestAdvance(t *testing.T) {
	t.Run("rejects a move out of turn and leaves the game unchanged", func(t *testing.T) {
		g := NewGame()

		next, err := Advance(g, PieceO, Move{Row: Row1, Side: SideLeft})

		var incorrect *IncorrectPieceError
		require.ErrorAs(t, err, &incorrect)
		assert.Equal(t, PieceX, incorrect.Expected)
		assert.Equal(t, PieceO, incorrect.Actual)
		assert.Equal(t, g, next)
	})

	t.Run("rejects any move on a finished game", func(t *testing.T) {
		g := Game(Over{Board: NewBoard(), Winner: PieceX})

		next, err := Advance(g, PieceO, Move{Row: Row1, Side: SideLeft})

		assert.ErrorIs(t, err, ErrGameOver)
		assert.Equal(t, g, next)
	})

	t.Run("propagates a full row without switching the turn", func(t *testing.T) {
		// Given: row5 at capacity, alternating pieces so nobody wins
		board := NewBoard()
		row := board.Row(Row5)
		pieces := [2]Piece{PieceX, PieceO}
		var err error
		for i := 0; i < RowCapacity; i++ {
			row, err = row.InsertPiece(pieces[i%2], SideLeft)
			require.NoError(t, err)
		}
		g := Game(Playing{Board: board.WithRow(Row5, row), Turn: PieceX})

		next, err := Advance(g, PieceX, Move{Row: Row5, Side: SideRight})

		assert.ErrorIs(t, err, ErrRowFull)
		assert.Equal(t, g, next)
	})

	t.Run("a legal move hands the turn to the other piece", func(t *testing.T) {
		g := NewGame()

		next, err := Advance(g, PieceX, Move{Row: Row4, Side: SideLeft})
		require.NoError(t, err)

		playing, ok := next.(Playing)
		require.True(t, ok)
		assert.Equal(t, PieceO, playing.Turn)
		assert.Equal(t, []Piece{PieceX}, playing.Board.Row(Row4).Left())
	})

	t.Run("the winning move finishes the game", func(t *testing.T) {
		// X stacks row1 from the left, O stacks row2 from the right.
		g := NewGame()
		moves := []struct {
			piece Piece
			move  Move
		}{
			{PieceX, Move{Row1, SideLeft}},
			{PieceO, Move{Row2, SideRight}},
			{PieceX, Move{Row1, SideLeft}},
			{PieceO, Move{Row2, SideRight}},
			{PieceX, Move{Row1, SideLeft}},
			{PieceO, Move{Row2, SideRight}},
			{PieceX, Move{Row1, SideLeft}},
		}

		var err error
		for _, m := range moves {
			g, err = Advance(g, m.piece, m.move)
			require.NoError(t, err)
		}

		over, ok := g.(Over)
		require.True(t, ok, "four in a row should end the game")
		assert.Equal(t, PieceX, over.Winner)

		// Then: the board stays frozen at the winning move
		_, err = Advance(g, PieceO, Move{Row: Row2, Side: SideRight})
		assert.ErrorIs(t, err, ErrGameOver)
	})
}
