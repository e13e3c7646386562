// session/action.go
package session

import "github.com/sidestack/sidestacker/game"

// Action is one inbound event for the reducer. Actions are produced by the
// server's connection handling and by asynchronous effect completions, and
// are consumed strictly one at a time by the dispatcher.
type Action interface {
	isAction()
}

// PeerJoined is raised when a connection is accepted.
type PeerJoined struct {
	Peer *Peer
}

// MatchCreated is raised by the create-match effect once persistence has
// confirmed a new match row.
type MatchCreated struct {
	Game    game.Game
	MatchID int64
}

// MessageReceived carries one raw text payload from a peer.
type MessageReceived struct {
	From    *Peer
	Payload []byte
}

// PeerLeft is raised when a peer's connection closes.
type PeerLeft struct {
	Peer *Peer
}

func (PeerJoined) isAction()      {}
func (MatchCreated) isAction()    {}
func (MessageReceived) isAction() {}
func (PeerLeft) isAction()        {}
