// session/phase.go
package session

import "github.com/sidestack/sidestacker/game"

// Phase is the sum type over the session lifecycle. The implementations are
// Empty, WaitingForOpponent, Ready and Started; the reducer switches over all
// four and nothing else constructs them.
//
// Peer A always plays X, peer B always plays O.
type Phase interface {
	isPhase()
	// Name is the phase label used for logs and the phase gauge.
	Name() string
}

// Empty is the phase with no peers connected.
type Empty struct{}

// WaitingForOpponent holds the first peer, already assigned X.
type WaitingForOpponent struct {
	PeerA *Peer
}

// Ready holds both peers while the match record is being created.
type Ready struct {
	PeerA *Peer
	PeerB *Peer
}

// Started is a live match. MatchID is the persistence identifier the move
// log is appended under.
type Started struct {
	PeerA   *Peer
	PeerB   *Peer
	Game    game.Game
	MatchID int64
}

func (Empty) isPhase()              {}
func (WaitingForOpponent) isPhase() {}
func (Ready) isPhase()              {}
func (Started) isPhase()            {}

func (Empty) Name() string              { return "empty" }
func (WaitingForOpponent) Name() string { return "waiting" }
func (Ready) Name() string              { return "ready" }
func (Started) Name() string            { return "started" }

// pieceOf resolves a peer id to its piece, or false for a peer that is not
// part of the match.
func (p Started) pieceOf(peerID string) (game.Piece, bool) {
	switch peerID {
	case p.PeerA.ID:
		return game.PieceX, true
	case p.PeerB.ID:
		return game.PieceO, true
	default:
		return "", false
	}
}

// opponentOf returns the other member peer.
func (p Started) opponentOf(piece game.Piece) *Peer {
	if piece == game.PieceX {
		return p.PeerB
	}
	return p.PeerA
}

// member reports whether peerID belongs to the phase. Non-member peers exist:
// a third connection rejected while a match is pending or live.
func member(phase Phase, peerID string) bool {
	switch p := phase.(type) {
	case Empty:
		return false
	case WaitingForOpponent:
		return p.PeerA.ID == peerID
	case Ready:
		return p.PeerA.ID == peerID || p.PeerB.ID == peerID
	case Started:
		_, ok := p.pieceOf(peerID)
		return ok
	default:
		return false
	}
}
