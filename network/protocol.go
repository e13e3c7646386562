// network/protocol.go
//
// Wire codec for the side-stacker protocol. Server to client messages are a
// tagged JSON union; the client to server direction carries a bare Move
// object as the whole payload.
package network

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sidestack/sidestacker/game"
)

const (
	MsgTypeConnected    = "connected"
	MsgTypeOpponentLeft = "opponentLeft"
	MsgTypeGameUpdate   = "gameUpdate"
	MsgTypeError        = "error"
)

// ErrMalformedMove tags any client payload that does not decode into a Move
// with row/side literals from their enumerated sets.
var ErrMalformedMove = errors.New("malformed move payload")

type connectedMsg struct {
	Type  string     `json:"type"`
	Piece game.Piece `json:"piece"`
}

type opponentLeftMsg struct {
	Type string `json:"type"`
}

type gameUpdateMsg struct {
	Type string   `json:"type"`
	Game wireGame `json:"game"`
}

type errorMsg struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// wireGame is the serialized Game tagged value: state plus board, with
// playingPiece while the match runs and winner once it is over.
type wireGame struct {
	State        string              `json:"state"`
	Board        map[string]wireRow  `json:"board"`
	PlayingPiece game.Piece          `json:"playingPiece,omitempty"`
	Winner       game.Piece          `json:"winner,omitempty"`
}

type wireRow struct {
	InsertedFromLeft  []game.Piece `json:"insertedFromLeft"`
	InsertedFromRight []game.Piece `json:"insertedFromRight"`
}

// EncodeConnected announces the piece assigned to a freshly joined peer.
func EncodeConnected(piece game.Piece) []byte {
	return mustMarshal(connectedMsg{Type: MsgTypeConnected, Piece: piece})
}

// EncodeOpponentLeft tells the remaining peer its opponent disconnected.
func EncodeOpponentLeft() []byte {
	return mustMarshal(opponentLeftMsg{Type: MsgTypeOpponentLeft})
}

// EncodeError carries a human-readable rejection to one peer.
func EncodeError(message string) []byte {
	return mustMarshal(errorMsg{Type: MsgTypeError, Message: message})
}

// EncodeGameUpdate snapshots the full game value for broadcast.
func EncodeGameUpdate(g game.Game) ([]byte, error) {
	wire := wireGame{Board: encodeBoard(boardOf(g))}

	switch current := g.(type) {
	case game.Playing:
		wire.State = "playing"
		wire.PlayingPiece = current.Turn
	case game.Over:
		wire.State = "over"
		wire.Winner = current.Winner
	default:
		return nil, fmt.Errorf("unhandled game variant %T", g)
	}

	return json.Marshal(gameUpdateMsg{Type: MsgTypeGameUpdate, Game: wire})
}

// DecodeMove parses a client payload into a Move, rejecting anything outside
// the enumerated row and side literals. All failures wrap ErrMalformedMove so
// the dispatcher can log and drop in one place.
func DecodeMove(payload []byte) (game.Move, error) {
	var raw struct {
		Row  string `json:"row"`
		Side string `json:"side"`
	}
	if err := json.Unmarshal(payload, &raw); err != nil {
		return game.Move{}, fmt.Errorf("%w: %v", ErrMalformedMove, err)
	}

	row, err := game.ParseRowID(raw.Row)
	if err != nil {
		return game.Move{}, fmt.Errorf("%w: %v", ErrMalformedMove, err)
	}

	side, err := game.ParseSide(raw.Side)
	if err != nil {
		return game.Move{}, fmt.Errorf("%w: %v", ErrMalformedMove, err)
	}

	return game.Move{Row: row, Side: side}, nil
}

func boardOf(g game.Game) game.Board {
	switch current := g.(type) {
	case game.Playing:
		return current.Board
	case game.Over:
		return current.Board
	default:
		return game.NewBoard()
	}
}

func encodeBoard(b game.Board) map[string]wireRow {
	board := make(map[string]wireRow, game.BoardSize)
	for _, id := range game.RowIDs {
		row := b.Row(id)
		board[string(id)] = wireRow{
			InsertedFromLeft:  emptyIfNil(row.Left()),
			InsertedFromRight: emptyIfNil(row.Right()),
		}
	}
	return board
}

// emptyIfNil keeps empty rows as [] rather than null on the wire.
func emptyIfNil(pieces []game.Piece) []game.Piece {
	if pieces == nil {
		return []game.Piece{}
	}
	return pieces
}

func mustMarshal(v interface{}) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("marshal wire message: %v", err))
	}
	return data
}
