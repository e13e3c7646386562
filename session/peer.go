// session/peer.go
package session

import "github.com/sidestack/sidestacker/network"

// Peer is one connected player: a stable id assigned at accept time and the
// text connection used to reach them. Piece assignment lives in the session
// phase, not here.
type Peer struct {
	ID   string
	Conn network.Connection
}

func NewPeer(id string, conn network.Connection) *Peer {
	return &Peer{ID: id, Conn: conn}
}
