// persistence/interface.go
package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/sidestack/sidestacker/game"
)

// Store is the persistence collaborator for matches and their move logs.
// CreateMatch and RecordMove are the two operations gameplay effects invoke;
// both are best effort there. MatchSummary backs the admin stats surface.
type Store interface {
	CreateMatch(ctx context.Context) (int64, error)
	RecordMove(ctx context.Context, matchID int64, piece game.Piece, side game.Side, row game.RowID) error
	MatchSummary(ctx context.Context, matchID int64) (*MatchSummary, error)
	Close() error
}

// MatchSummary aggregates the persisted move log of one match.
type MatchSummary struct {
	MatchID   int64      `json:"match_id"`
	CreatedAt time.Time  `json:"created_at"`
	Moves     int        `json:"moves"`
	MovesByX  int        `json:"moves_by_x"`
	MovesByO  int        `json:"moves_by_o"`
	LastMove  *MoveEntry `json:"last_move,omitempty"`
}

// MoveEntry is one persisted move.
type MoveEntry struct {
	Piece game.Piece `json:"piece"`
	Side  game.Side  `json:"side"`
	Row   game.RowID `json:"row"`
}

var ErrMatchNotFound = errors.New("match not found")
