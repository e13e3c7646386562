package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/sidestack/sidestacker/logger"
	"github.com/sidestack/sidestacker/monitor"
	"github.com/sidestack/sidestacker/network"
	"github.com/sidestack/sidestacker/scheduler"
	"github.com/sidestack/sidestacker/session"
)

// phaseReportInterval paces the periodic session phase log line.
const phaseReportInterval = 30 * time.Second

// GameServer accepts websocket peers and feeds their lifecycle and messages
// into the session dispatcher as actions. It never touches session state
// itself; every transition goes through the dispatcher queue.
type GameServer struct {
	addr       string
	upgrader   websocket.Upgrader
	dispatcher *session.Dispatcher
	monitor    *monitor.Monitor
	sched      *scheduler.Scheduler
}

func NewGameServer(addr string, dispatcher *session.Dispatcher, mon *monitor.Monitor, sched *scheduler.Scheduler) *GameServer {
	return &GameServer{
		addr:       addr,
		dispatcher: dispatcher,
		monitor:    mon,
		sched:      sched,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // the game client is served from another origin
			},
		},
	}
}

// Start blocks serving websocket upgrades on /ws.
func (s *GameServer) Start() error {
	s.sched.Schedule(phaseReportInterval, phaseReportInterval, func() {
		logger.Log.Debugf("session phase: %s", s.dispatcher.Phase().Name())
	})

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)

	logger.Log.Infof("Game server listening on %s", s.addr)
	return http.ListenAndServe(s.addr, mux)
}

func (s *GameServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Infof("Failed to upgrade connection: %v", err)
		return
	}
	s.handleConnection(conn)
}

// handleConnection runs the read pump for one peer. The pump is the single
// reader of the connection: inbound payloads become MessageReceived actions
// and a read failure is the close signal that raises PeerLeft.
func (s *GameServer) handleConnection(conn *websocket.Conn) {
	wsConn := network.NewWSConnection(conn)
	peer := session.NewPeer(uuid.New().String(), wsConn)

	s.monitor.IncConnectedPeers()
	logger.Log.Infof("New connection from %s, peer ID: %s", wsConn.RemoteAddr(), peer.ID)

	defer func() {
		logger.Log.Infof("Connection closed from %s, peer ID: %s", wsConn.RemoteAddr(), peer.ID)
		s.monitor.DecConnectedPeers()
		s.dispatcher.Dispatch(session.PeerLeft{Peer: peer})
		wsConn.Close()
	}()

	s.dispatcher.Dispatch(session.PeerJoined{Peer: peer})

	for {
		payload, err := wsConn.ReadText()
		if err != nil {
			return
		}
		s.dispatcher.Dispatch(session.MessageReceived{From: peer, Payload: payload})
	}
}
