// session/update.go
package session

import (
	"fmt"

	"github.com/sidestack/sidestacker/game"
	"github.com/sidestack/sidestacker/network"
)

// Update is the pure session transition: one action against one phase yields
// the next phase and the ordered effects to run after the commit. It never
// performs I/O and never mutates its inputs; every rejection is expressed as
// an unchanged phase plus log (and at most one error-notify) effects.
func Update(action Action, phase Phase) (Phase, []Effect) {
	switch act := action.(type) {
	case PeerJoined:
		return applyPeerJoined(act, phase)
	case MatchCreated:
		return applyMatchCreated(act, phase)
	case MessageReceived:
		return applyMessageReceived(act, phase)
	case PeerLeft:
		return applyPeerLeft(act, phase)
	default:
		return phase, []Effect{logError(fmt.Sprintf("unhandled action %T", action))}
	}
}

func applyPeerJoined(act PeerJoined, phase Phase) (Phase, []Effect) {
	switch current := phase.(type) {
	case Empty:
		return WaitingForOpponent{PeerA: act.Peer}, []Effect{
			NotifyConnected{To: act.Peer, Piece: game.PieceX},
			logInfo(fmt.Sprintf("peer %s joined, assigned %s, waiting for opponent", act.Peer.ID, game.PieceX)),
		}
	case WaitingForOpponent:
		return Ready{PeerA: current.PeerA, PeerB: act.Peer}, []Effect{
			NotifyConnected{To: act.Peer, Piece: game.PieceO},
			CreateMatch{},
			logInfo(fmt.Sprintf("peer %s joined, assigned %s, creating match", act.Peer.ID, game.PieceO)),
		}
	case Ready, Started:
		return phase, []Effect{
			logWarn(fmt.Sprintf("rejecting peer %s, match already started", act.Peer.ID)),
		}
	default:
		return phase, []Effect{logError(fmt.Sprintf("unhandled phase %T", phase))}
	}
}

func applyMatchCreated(act MatchCreated, phase Phase) (Phase, []Effect) {
	current, ok := phase.(Ready)
	if !ok {
		return phase, []Effect{
			logError(fmt.Sprintf("match %d created in phase %q, ignoring", act.MatchID, phase.Name())),
		}
	}

	started := Started{
		PeerA:   current.PeerA,
		PeerB:   current.PeerB,
		Game:    act.Game,
		MatchID: act.MatchID,
	}
	return started, []Effect{
		BroadcastGame{To: [2]*Peer{started.PeerA, started.PeerB}, Game: started.Game},
		logInfo(fmt.Sprintf("match %d started, %s to move", act.MatchID, game.PieceX)),
	}
}

func applyMessageReceived(act MessageReceived, phase Phase) (Phase, []Effect) {
	current, ok := phase.(Started)
	if !ok {
		return phase, []Effect{
			logWarn(fmt.Sprintf("dropping message from %s: %s", act.From.ID, rejectReason(phase))),
		}
	}

	piece, ok := current.pieceOf(act.From.ID)
	if !ok {
		return phase, []Effect{
			logWarn(fmt.Sprintf("dropping message from %s: not a match participant", act.From.ID)),
		}
	}

	move, err := network.DecodeMove(act.Payload)
	if err != nil {
		return phase, []Effect{
			logWarn(fmt.Sprintf("dropping message from %s (%s): %v", act.From.ID, piece, err)),
		}
	}

	next, err := game.Advance(current.Game, piece, move)
	if err != nil {
		return phase, []Effect{
			logWarn(fmt.Sprintf("rejecting move %s/%s by %s: %v", move.Row, move.Side, piece, err)),
			NotifyError{To: act.From, Message: err.Error()},
		}
	}

	started := Started{
		PeerA:   current.PeerA,
		PeerB:   current.PeerB,
		Game:    next,
		MatchID: current.MatchID,
	}
	effects := []Effect{
		RecordMove{MatchID: started.MatchID, Piece: piece, Side: move.Side, Row: move.Row},
		BroadcastGame{To: [2]*Peer{started.PeerA, started.PeerB}, Game: started.Game},
	}
	if over, isOver := next.(game.Over); isOver {
		effects = append(effects, logInfo(fmt.Sprintf("match %d won by %s", started.MatchID, over.Winner)))
	}
	return started, effects
}

func applyPeerLeft(act PeerLeft, phase Phase) (Phase, []Effect) {
	current, isStarted := phase.(Started)
	if !isStarted {
		if !member(phase, act.Peer.ID) {
			// A rejected extra connection closing must not reset the session.
			if _, isEmpty := phase.(Empty); !isEmpty {
				return phase, []Effect{
					logInfo(fmt.Sprintf("non-participant peer %s left", act.Peer.ID)),
				}
			}
		}
		return Empty{}, []Effect{
			logInfo(fmt.Sprintf("peer %s left, session reset", act.Peer.ID)),
		}
	}

	piece, ok := current.pieceOf(act.Peer.ID)
	if !ok {
		return phase, []Effect{
			logInfo(fmt.Sprintf("non-participant peer %s left", act.Peer.ID)),
		}
	}

	return Empty{}, []Effect{
		NotifyOpponentLeft{To: current.opponentOf(piece)},
		logInfo(fmt.Sprintf("peer %s (%s) left match %d, notifying opponent", act.Peer.ID, piece, current.MatchID)),
	}
}

// rejectReason maps a non-started phase to its protocol error wording.
func rejectReason(phase Phase) string {
	switch phase.(type) {
	case Empty:
		return "no peers connected"
	case WaitingForOpponent:
		return "waiting for opponent"
	case Ready:
		return "game not started yet"
	default:
		return "game not started yet"
	}
}
