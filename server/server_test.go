package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sidestack/sidestacker/game"
	"github.com/sidestack/sidestacker/monitor"
	"github.com/sidestack/sidestacker/scheduler"
	"github.com/sidestack/sidestacker/session"
)

// memoryStore satisfies session.Store without a database.
type memoryStore struct {
	mu      sync.Mutex
	nextID  int64
	records int
}

func (s *memoryStore) CreateMatch(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	return s.nextID, nil
}

func (s *memoryStore) RecordMove(ctx context.Context, matchID int64, piece game.Piece, side game.Side, row game.RowID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records++
	return nil
}

func (s *memoryStore) recorded() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.records
}

type wireMessage struct {
	Type    string `json:"type"`
	Piece   string `json:"piece"`
	Message string `json:"message"`
	Game    *struct {
		State        string `json:"state"`
		PlayingPiece string `json:"playingPiece"`
		Winner       string `json:"winner"`
	} `json:"game"`
}

func readMessage(t *testing.T, c *websocket.Conn) wireMessage {
	t.Helper()

	require.NoError(t, c.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, payload, err := c.ReadMessage()
	require.NoError(t, err)

	var msg wireMessage
	require.NoError(t, json.Unmarshal(payload, &msg))
	return msg
}

func sendMove(t *testing.T, c *websocket.Conn, row, side string) {
	t.Helper()

	payload, err := json.Marshal(map[string]string{"row": row, "side": side})
	require.NoError(t, err)
	require.NoError(t, c.WriteMessage(websocket.TextMessage, payload))
}

func TestGameServer_EndToEnd(t *testing.T) {
	store := &memoryStore{}

	mon := monitor.NewMonitor("sidestacker_server_test")
	sched := scheduler.New()
	t.Cleanup(sched.Stop)

	dispatcher := session.NewDispatcher(store, mon)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go dispatcher.Run(ctx)

	gameServer := NewGameServer(":0", dispatcher, mon, sched)
	httpServer := httptest.NewServer(http.HandlerFunc(gameServer.handleWebSocket))
	t.Cleanup(httpServer.Close)

	wsURL := "ws" + strings.TrimPrefix(httpServer.URL, "http")

	// First peer connects and is assigned X. Reading the assignment before
	// dialing the second peer pins the join order.
	c1, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { c1.Close() })

	msg := readMessage(t, c1)
	assert.Equal(t, "connected", msg.Type)
	assert.Equal(t, "X", msg.Piece)

	c2, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { c2.Close() })

	msg = readMessage(t, c2)
	assert.Equal(t, "connected", msg.Type)
	assert.Equal(t, "O", msg.Piece)

	// Match creation completes asynchronously; both peers get the initial
	// snapshot with X to move.
	for _, c := range []*websocket.Conn{c1, c2} {
		msg = readMessage(t, c)
		require.Equal(t, "gameUpdate", msg.Type)
		require.NotNil(t, msg.Game)
		assert.Equal(t, "playing", msg.Game.State)
		assert.Equal(t, "X", msg.Game.PlayingPiece)
	}

	// X stacks row1 from the left, O answers in row2, until X wins with
	// four in a row. Every applied move is broadcast to both peers.
	moves := []struct {
		conn      *websocket.Conn
		row, side string
	}{
		{c1, "row1", "left"},
		{c2, "row2", "right"},
		{c1, "row1", "left"},
		{c2, "row2", "right"},
		{c1, "row1", "left"},
		{c2, "row2", "right"},
		{c1, "row1", "left"},
	}

	for i, m := range moves {
		sendMove(t, m.conn, m.row, m.side)

		for _, c := range []*websocket.Conn{c1, c2} {
			msg = readMessage(t, c)
			require.Equalf(t, "gameUpdate", msg.Type, "move %d", i)
			require.NotNil(t, msg.Game)
		}
	}

	require.NotNil(t, msg.Game)
	assert.Equal(t, "over", msg.Game.State)
	assert.Equal(t, "X", msg.Game.Winner)

	require.Eventually(t, func() bool {
		return store.recorded() == len(moves)
	}, 2*time.Second, 10*time.Millisecond, "every applied move should be persisted")

	// A move after the game is over comes back as an error to the sender.
	sendMove(t, c2, "row3", "left")
	msg = readMessage(t, c2)
	assert.Equal(t, "error", msg.Type)

	// Disconnect: the remaining peer is told and the session resets.
	require.NoError(t, c1.Close())

	msg = readMessage(t, c2)
	assert.Equal(t, "opponentLeft", msg.Type)

	require.Eventually(t, func() bool {
		return dispatcher.Phase().Name() == "empty"
	}, 2*time.Second, 10*time.Millisecond)
}
