package rpc

import (
	"context"
	"net"
	"net/rpc"

	"github.com/sidestack/sidestacker/logger"
	"github.com/sidestack/sidestacker/persistence"
	"github.com/sidestack/sidestacker/services"
)

// Server manages the admin RPC listener.
type Server struct {
	listener net.Listener
	address  string
}

// NewServer opens the RPC listener. Services are registered separately with
// the net/rpc package before Start is called.
func NewServer(addr string) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Server{
		listener: listener,
		address:  addr,
	}, nil
}

// Start begins serving RPC connections.
func (s *Server) Start() {
	logger.Log.Infof("RPC server listening on %s", s.address)
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if _, ok := err.(*net.OpError); ok {
				logger.Log.Info("RPC server listener closed.")
				return
			}
			logger.Log.Errorf("RPC server accept error: %v", err)
			continue
		}
		go rpc.ServeConn(conn)
	}
}

// Stop closes the RPC listener.
func (s *Server) Stop() {
	if s.listener != nil {
		logger.Log.Info("Stopping RPC server.")
		s.listener.Close()
	}
}

// MatchService exposes match statistics over net/rpc.
type MatchService struct {
	stats *services.StatsService
}

func NewMatchService(stats *services.StatsService) *MatchService {
	return &MatchService{stats: stats}
}

type MatchSummaryArgs struct {
	MatchID int64
}

type MatchSummaryReply struct {
	Summary *persistence.MatchSummary
}

// GetMatchSummary follows the net/rpc method shape: exported arguments,
// pointer reply, error return.
func (ms *MatchService) GetMatchSummary(args *MatchSummaryArgs, reply *MatchSummaryReply) error {
	summary, err := ms.stats.GetMatchSummary(context.Background(), args.MatchID)
	if err != nil {
		return err
	}
	reply.Summary = summary
	return nil
}
