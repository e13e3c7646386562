// session/dispatcher.go
package session

import (
	"context"
	"sync"
	"time"

	"github.com/sidestack/sidestacker/game"
	"github.com/sidestack/sidestacker/logger"
	"github.com/sidestack/sidestacker/network"
)

// Store is the persistence collaborator the dispatcher's effects talk to.
// Both operations are best effort from the gameplay perspective; failures
// are logged and never roll the in-memory session back.
type Store interface {
	CreateMatch(ctx context.Context) (int64, error)
	RecordMove(ctx context.Context, matchID int64, piece game.Piece, side game.Side, row game.RowID) error
}

// Metrics is the slice of the monitor the dispatcher reports into.
type Metrics interface {
	SetSessionPhase(name string)
	IncMessagesReceived()
	IncMovesApplied()
	IncMatchesStarted()
	ObserveDispatchLatency(d time.Duration)
}

// Dispatcher owns the one session phase for the process lifetime. All
// transitions run on the Run goroutine, one action at a time in arrival
// order; concurrent producers only ever touch the queue. Effects execute
// after the commit, and asynchronous completions re-enter through Dispatch.
type Dispatcher struct {
	store   Store
	metrics Metrics
	actions chan Action

	mu    sync.RWMutex
	phase Phase
}

func NewDispatcher(store Store, metrics Metrics) *Dispatcher {
	return &Dispatcher{
		store:   store,
		metrics: metrics,
		actions: make(chan Action, 128),
		phase:   Empty{},
	}
}

// Dispatch queues an action for the run loop. Safe for concurrent use.
func (d *Dispatcher) Dispatch(action Action) {
	d.actions <- action
}

// Phase returns the current session phase.
func (d *Dispatcher) Phase() Phase {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.phase
}

// Run consumes the action queue until the context is canceled.
func (d *Dispatcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case action := <-d.actions:
			d.apply(ctx, action)
		}
	}
}

func (d *Dispatcher) apply(ctx context.Context, action Action) {
	begin := time.Now()

	d.mu.Lock()
	next, effects := Update(action, d.phase)
	d.phase = next
	d.mu.Unlock()

	for _, effect := range effects {
		d.execute(ctx, effect)
	}

	if d.metrics != nil {
		if _, ok := action.(MessageReceived); ok {
			d.metrics.IncMessagesReceived()
		}
		d.metrics.SetSessionPhase(next.Name())
		d.metrics.ObserveDispatchLatency(time.Since(begin))
	}
}

func (d *Dispatcher) execute(ctx context.Context, effect Effect) {
	switch e := effect.(type) {
	case NotifyConnected:
		d.send(e.To, network.EncodeConnected(e.Piece))
	case NotifyOpponentLeft:
		d.send(e.To, network.EncodeOpponentLeft())
	case NotifyError:
		d.send(e.To, network.EncodeError(e.Message))
	case BroadcastGame:
		payload, err := network.EncodeGameUpdate(e.Game)
		if err != nil {
			logger.Log.Errorf("encode game update: %v", err)
			return
		}
		for _, peer := range e.To {
			d.send(peer, payload)
		}
	case CreateMatch:
		go d.createMatch(ctx)
	case RecordMove:
		if d.metrics != nil {
			d.metrics.IncMovesApplied()
		}
		go d.recordMove(ctx, e)
	case Log:
		switch e.Level {
		case LogWarn:
			logger.Log.Warn(e.Message)
		case LogError:
			logger.Log.Error(e.Message)
		default:
			logger.Log.Info(e.Message)
		}
	default:
		logger.Log.Errorf("unhandled effect %T", effect)
	}
}

func (d *Dispatcher) send(peer *Peer, payload []byte) {
	if err := peer.Conn.SendText(payload); err != nil {
		logger.Log.Warnf("send to peer %s failed: %v", peer.ID, err)
	}
}

// createMatch runs off the dispatcher goroutine; completion re-enters the
// queue so the Ready to Started transition is serialized like any other.
func (d *Dispatcher) createMatch(ctx context.Context) {
	matchID, err := d.store.CreateMatch(ctx)
	if err != nil {
		logger.Log.Errorf("create match failed: %v", err)
		return
	}
	if d.metrics != nil {
		d.metrics.IncMatchesStarted()
	}
	d.Dispatch(MatchCreated{Game: game.NewGame(), MatchID: matchID})
}

func (d *Dispatcher) recordMove(ctx context.Context, e RecordMove) {
	if err := d.store.RecordMove(ctx, e.MatchID, e.Piece, e.Side, e.Row); err != nil {
		logger.Log.Errorf("record move for match %d failed: %v", e.MatchID, err)
	}
}
