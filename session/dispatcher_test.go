package session

import (
	"context"
	"encoding/json"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sidestack/sidestacker/game"
)

// recordingConn captures everything sent to a peer.
type recordingConn struct {
	mu   sync.Mutex
	sent [][]byte
}

func (c *recordingConn) SendText(payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, append([]byte(nil), payload...))
	return nil
}

func (c *recordingConn) ReadText() ([]byte, error) { return nil, nil }
func (c *recordingConn) Close() error              { return nil }
func (c *recordingConn) RemoteAddr() net.Addr      { return &net.TCPAddr{} }

func (c *recordingConn) messages() []map[string]json.RawMessage {
	c.mu.Lock()
	defer c.mu.Unlock()

	var decoded []map[string]json.RawMessage
	for _, payload := range c.sent {
		var msg map[string]json.RawMessage
		if err := json.Unmarshal(payload, &msg); err == nil {
			decoded = append(decoded, msg)
		}
	}
	return decoded
}

func (c *recordingConn) received(msgType string) bool {
	for _, msg := range c.messages() {
		var got string
		if err := json.Unmarshal(msg["type"], &got); err == nil && got == msgType {
			return true
		}
	}
	return false
}

// fakeStore hands out a fixed match id and records appended moves.
type fakeStore struct {
	mu      sync.Mutex
	matchID int64
	moves   []RecordMove
}

func (s *fakeStore) CreateMatch(ctx context.Context) (int64, error) {
	return s.matchID, nil
}

func (s *fakeStore) RecordMove(ctx context.Context, matchID int64, piece game.Piece, side game.Side, row game.RowID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.moves = append(s.moves, RecordMove{MatchID: matchID, Piece: piece, Side: side, Row: row})
	return nil
}

func (s *fakeStore) recorded() []RecordMove {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]RecordMove(nil), s.moves...)
}

func startDispatcher(t *testing.T, store Store) *Dispatcher {
	t.Helper()

	d := NewDispatcher(store, nil)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go d.Run(ctx)
	return d
}

func waitForPhase(t *testing.T, d *Dispatcher, name string) {
	t.Helper()
	require.Eventually(t, func() bool {
		return d.Phase().Name() == name
	}, 2*time.Second, 5*time.Millisecond, "expected phase %q", name)
}

func TestDispatcher_MatchLifecycle(t *testing.T) {
	store := &fakeStore{matchID: 7}
	d := startDispatcher(t, store)

	conn1, conn2 := &recordingConn{}, &recordingConn{}
	p1 := NewPeer("p1", conn1)
	p2 := NewPeer("p2", conn2)

	// Both peers join; the async create-match completion re-enters the
	// queue and the session reaches Started without outside help.
	d.Dispatch(PeerJoined{Peer: p1})
	d.Dispatch(PeerJoined{Peer: p2})
	waitForPhase(t, d, "started")

	started, ok := d.Phase().(Started)
	require.True(t, ok)
	assert.Equal(t, int64(7), started.MatchID)

	require.Eventually(t, func() bool {
		return conn1.received("gameUpdate") && conn2.received("gameUpdate")
	}, 2*time.Second, 5*time.Millisecond, "both peers should get the initial snapshot")
	assert.True(t, conn1.received("connected"))
	assert.True(t, conn2.received("connected"))

	// X moves; the move is persisted under match 7 and both peers get the
	// updated snapshot.
	d.Dispatch(MessageReceived{From: p1, Payload: []byte(`{"row":"row4","side":"right"}`)})

	require.Eventually(t, func() bool {
		return len(store.recorded()) == 1
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t,
		RecordMove{MatchID: 7, Piece: game.PieceX, Side: game.SideRight, Row: game.Row4},
		store.recorded()[0])

	// O tries to move twice; the second attempt is evaluated against the
	// already-updated state and rejected, so only one more move persists.
	d.Dispatch(MessageReceived{From: p2, Payload: []byte(`{"row":"row4","side":"left"}`)})
	d.Dispatch(MessageReceived{From: p2, Payload: []byte(`{"row":"row4","side":"left"}`)})

	require.Eventually(t, func() bool {
		return conn2.received("error")
	}, 2*time.Second, 5*time.Millisecond, "second move in a row should be rejected")
	require.Eventually(t, func() bool {
		return len(store.recorded()) == 2
	}, 2*time.Second, 5*time.Millisecond, "only the legal move persists")

	// Disconnect mid-game: session resets and the opponent is told.
	d.Dispatch(PeerLeft{Peer: p1})
	waitForPhase(t, d, "empty")

	require.Eventually(t, func() bool {
		return conn2.received("opponentLeft")
	}, 2*time.Second, 5*time.Millisecond)
	assert.False(t, conn1.received("opponentLeft"), "the leaving peer is not notified")
}

func TestDispatcher_MoveBeforeStartIsDropped(t *testing.T) {
	store := &fakeStore{matchID: 1}
	d := startDispatcher(t, store)

	conn := &recordingConn{}
	p1 := NewPeer("p1", conn)

	d.Dispatch(PeerJoined{Peer: p1})
	waitForPhase(t, d, "waiting")

	d.Dispatch(MessageReceived{From: p1, Payload: []byte(`{"row":"row1","side":"left"}`)})
	waitForPhase(t, d, "waiting")

	assert.Empty(t, store.recorded())
	assert.False(t, conn.received("gameUpdate"))
}
