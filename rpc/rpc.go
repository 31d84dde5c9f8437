package rpc

import (
	"net"
	"net/rpc"

	"github.com/wfunc/memorygrid/logger"
	"github.com/wfunc/memorygrid/models"
	"github.com/wfunc/memorygrid/services"
)

// Server manages the RPC listener.
type Server struct {
	listener net.Listener
	address  string
}

// NewServer creates a new RPC server.
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

// Start begins listening for RPC requests.
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

// GameService exposes leaderboard and stats queries to internal tooling over
// net/rpc.
type GameService struct {
	scoreService *services.ScoreService
}

func NewGameService(ss *services.ScoreService) *GameService {
	return &GameService{scoreService: ss}
}

type GetPlayerStatsArgs struct {
	UserID int64
}

type GetPlayerStatsReply struct {
	Stats *models.PlayerStats
}

func (gs *GameService) GetPlayerStats(args *GetPlayerStatsArgs, reply *GetPlayerStatsReply) error {
	stats, err := gs.scoreService.PlayerStats(args.UserID)
	if err != nil {
		return err
	}
	reply.Stats = stats
	return nil
}

type GetTopScoresArgs struct {
	Limit int
}

type GetTopScoresReply struct {
	Entries []models.PlayerBest
}

func (gs *GameService) GetTopScores(args *GetTopScoresArgs, reply *GetTopScoresReply) error {
	entries, err := gs.scoreService.TopScores(args.Limit)
	if err != nil {
		return err
	}
	reply.Entries = entries
	return nil
}
