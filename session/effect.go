// session/effect.go
package session

import "github.com/sidestack/sidestacker/game"

// Effect is one deferred side effect returned by the reducer. Effects carry
// only the data needed to run later; the dispatcher executes them in order
// after the phase transition is committed. An effect that must change state
// raises a new Action instead of touching the phase.
type Effect interface {
	isEffect()
}

// NotifyConnected sends Connected{piece} to a freshly assigned peer.
type NotifyConnected struct {
	To    *Peer
	Piece game.Piece
}

// NotifyOpponentLeft sends OpponentLeft to the peer that stayed behind.
type NotifyOpponentLeft struct {
	To *Peer
}

// NotifyError sends Error{message} to the peer whose move was rejected.
type NotifyError struct {
	To      *Peer
	Message string
}

// BroadcastGame sends a GameUpdate snapshot to both peers.
type BroadcastGame struct {
	To   [2]*Peer
	Game game.Game
}

// CreateMatch asks persistence for a new match row. Completion re-enters the
// dispatcher as MatchCreated; failure is logged and the session stays Ready.
type CreateMatch struct{}

// RecordMove appends one move to the persisted match log. Fire and forget:
// a failure is logged and never rolls the game back.
type RecordMove struct {
	MatchID int64
	Piece   game.Piece
	Side    game.Side
	Row     game.RowID
}

// Log emits one structured log line.
type Log struct {
	Level   LogLevel
	Message string
}

type LogLevel int

const (
	LogInfo LogLevel = iota
	LogWarn
	LogError
)

func (NotifyConnected) isEffect()    {}
func (NotifyOpponentLeft) isEffect() {}
func (NotifyError) isEffect()        {}
func (BroadcastGame) isEffect()      {}
func (CreateMatch) isEffect()        {}
func (RecordMove) isEffect()         {}
func (Log) isEffect()                {}

func logInfo(msg string) Log  { return Log{Level: LogInfo, Message: msg} }
func logWarn(msg string) Log  { return Log{Level: LogWarn, Message: msg} }
func logError(msg string) Log { return Log{Level: LogError, Message: msg} }
