package server

import (
	"encoding/json"
	"net/http"
	"net/rpc"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/wfunc/memorygrid/broadcast"
	"github.com/wfunc/memorygrid/config"
	"github.com/wfunc/memorygrid/engine"
	"github.com/wfunc/memorygrid/game"
	"github.com/wfunc/memorygrid/logger"
	"github.com/wfunc/memorygrid/monitor"
	"github.com/wfunc/memorygrid/network"
	"github.com/wfunc/memorygrid/persistence"
	memorygrid_rpc "github.com/wfunc/memorygrid/rpc"
	"github.com/wfunc/memorygrid/services"
	"github.com/wfunc/memorygrid/session"
	"github.com/wfunc/memorygrid/timer"
)

// revealPayload is pushed at the start of every round so the client can
// choreograph the sequence animation.
type revealPayload struct {
	Sequence   []int `json:"sequence"`
	TileMillis int   `json:"tile_millis"`
}

type clickRequest struct {
	TileID int `json:"tile_id"`
}

type gameOverPayload struct {
	game.Snapshot
	DurationSeconds int `json:"duration_seconds"`
}

type GameServer struct {
	addr            string
	metricsAddr     string
	upgrader        websocket.Upgrader
	gameManager     *game.Manager
	sessionManager  *session.Manager
	scoreService    *services.ScoreService
	broadcaster     broadcast.Broadcaster
	timers          *timer.TimerManager
	mon             *monitor.Monitor
	rpcServer       *memorygrid_rpc.Server
	engineCfg       engine.Config
	revealTileDelay time.Duration
	shutdownChan    chan struct{}
}

func NewGameServer(cfg *config.Config, db persistence.Database) *GameServer {
	s := &GameServer{
		addr:           cfg.Server.HTTPAddress,
		metricsAddr:    cfg.Server.MetricsAddress,
		gameManager:    game.NewManager(),
		sessionManager: session.NewManager(),
		scoreService:   services.NewScoreService(db),
		timers:         timer.NewTimerManager(),
		mon:            monitor.NewMonitor("memorygrid"),
		engineCfg: engine.Config{
			GridSize:       cfg.Game.GridSize,
			SequenceLength: cfg.Game.SequenceLength,
		},
		revealTileDelay: time.Duration(cfg.Game.RevealTileMillis) * time.Millisecond,
		shutdownChan:    make(chan struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // allow all origins
			},
		},
	}

	s.broadcaster = broadcast.NewSessionBroadcaster(s.sessionManager)

	rpcServer, err := memorygrid_rpc.NewServer(cfg.Server.RPCAddress)
	if err != nil {
		logger.Log.Fatalf("Failed to create RPC server: %v", err)
	}
	s.rpcServer = rpcServer

	gameService := memorygrid_rpc.NewGameService(s.scoreService)
	rpc.Register(gameService)

	return s
}

func (s *GameServer) Start() error {
	go s.rpcServer.Start()
	s.mon.StartServer(s.metricsAddr)

	http.HandleFunc("/ws", s.handleWebSocket)
	logger.Log.Infof("Game server listening on %s", s.addr)
	return http.ListenAndServe(s.addr, nil)
}

func (s *GameServer) Shutdown() {
	close(s.shutdownChan)
	s.timers.Stop()
	s.rpcServer.Stop()
}

func (s *GameServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Infof("Failed to upgrade connection: %v", err)
		return
	}
	s.handleConnection(conn)
}

func (s *GameServer) handleConnection(conn *websocket.Conn) {
	wsConn := network.NewWSConnection(conn)
	sess := session.NewSession(uuid.New().String(), wsConn)
	s.sessionManager.Add(sess)
	s.mon.IncOnlineSessions()

	logger.Log.Infof("New connection from %s, session ID: %s", wsConn.RemoteAddr(), sess.GetID())

	defer func() {
		logger.Log.Infof("Connection closed from %s, session ID: %s", wsConn.RemoteAddr(), sess.GetID())
		s.dropInstance(sess.GetID())
		s.sessionManager.Remove(sess.GetID())
		s.mon.DecOnlineSessions()
		wsConn.Close()
	}()

	for {
		select {
		case <-s.shutdownChan:
			return
		default:
			packet, err := wsConn.ReadPacket()
			if err != nil {
				return
			}
			s.handlePacket(sess, packet)
		}
	}
}

func (s *GameServer) handlePacket(sess *session.Session, packet *network.Packet) {
	switch packet.MsgID {
	case network.MsgTypeHeartbeat:
		sess.LastActive = time.Now()
	case network.MsgTypeStartGame:
		s.handleStartGame(sess)
	case network.MsgTypeResetGame:
		s.handleResetGame(sess)
	case network.MsgTypeBeginInput:
		s.handleBeginInput(sess)
	case network.MsgTypeTileClick:
		s.handleTileClick(sess, packet)
	default:
		logger.Log.Infof("Unknown message type: %d", packet.MsgID)
	}
}

func (s *GameServer) handleStartGame(sess *session.Session) {
	inst := s.gameManager.GetOrCreate(sess, s.engineCfg)
	sequence, snapshot := inst.StartGame()

	s.mon.IncGamesStarted()
	s.mon.SetActiveGames(s.gameManager.Count())
	logger.Log.Infof("Session %s started a game, first sequence has %d tiles", sess.GetID(), len(sequence))

	s.pushSnapshot(sess.GetID(), snapshot)
	s.scheduleReveal(sess.GetID(), inst, sequence)
}

func (s *GameServer) handleResetGame(sess *session.Session) {
	inst, exists := s.gameManager.Get(sess.GetID())
	if !exists {
		return
	}
	s.timers.RemoveTimer(inst.RevealTimer())
	snapshot := inst.Reset()
	s.pushSnapshot(sess.GetID(), snapshot)
}

// handleBeginInput lets the client end the reveal early, e.g. when its
// animation finished before the server-side fallback timer.
func (s *GameServer) handleBeginInput(sess *session.Session) {
	inst, exists := s.gameManager.Get(sess.GetID())
	if !exists {
		return
	}
	s.timers.RemoveTimer(inst.RevealTimer())
	snapshot := inst.BeginInput()
	s.pushSnapshot(sess.GetID(), snapshot)
}

func (s *GameServer) handleTileClick(sess *session.Session, packet *network.Packet) {
	inst, exists := s.gameManager.Get(sess.GetID())
	if !exists {
		logger.Log.Warnf("Session %s clicked without a running game", sess.GetID())
		return
	}

	var req clickRequest
	if err := json.Unmarshal(packet.Data, &req); err != nil {
		return
	}

	s.mon.IncTileClicks()
	phase, nextSequence, snapshot := inst.Click(req.TileID)

	switch {
	case phase == engine.PhaseOver:
		s.finishGame(sess, inst, snapshot)
	case nextSequence != nil:
		// Round cleared; a fresh round is already in the reveal phase.
		s.pushRoundResult(sess.GetID(), snapshot)
		s.scheduleReveal(sess.GetID(), inst, nextSequence)
	default:
		s.pushSnapshot(sess.GetID(), snapshot)
	}
}

// scheduleReveal pushes the sequence for the client animation and arms the
// fallback timer that flips the engine into the input phase.
func (s *GameServer) scheduleReveal(sessionID string, inst *game.Instance, sequence []int) {
	s.timers.RemoveTimer(inst.RevealTimer())

	payload, _ := json.Marshal(revealPayload{
		Sequence:   sequence,
		TileMillis: int(s.revealTileDelay / time.Millisecond),
	})
	if err := s.broadcaster.SendToSession(sessionID, network.MsgTypeSequenceReveal, payload); err != nil {
		logger.Log.Warnf("Failed to push reveal to session %s: %v", sessionID, err)
		return
	}

	delay := s.revealTileDelay * time.Duration(len(sequence))
	timerID := s.timers.AddTimer(delay, 0, func() {
		s.finishReveal(sessionID)
	})
	inst.SetRevealTimer(timerID)
}

// finishReveal is the timer-driven external trigger from the reveal phase to
// the input phase.
func (s *GameServer) finishReveal(sessionID string) {
	inst, exists := s.gameManager.Get(sessionID)
	if !exists {
		return
	}
	snapshot := inst.BeginInput()
	if snapshot.Phase != string(engine.PhaseInput) {
		// The round moved on (reset or restart); nothing to announce.
		return
	}
	s.pushSnapshot(sessionID, snapshot)
}

func (s *GameServer) finishGame(sess *session.Session, inst *game.Instance, snapshot game.Snapshot) {
	duration := inst.Elapsed()
	s.mon.ObserveGameResult(snapshot.Score, duration)
	logger.Log.Infof("Session %s game over: score %d, level %d", sess.GetID(), snapshot.Score, snapshot.Level)

	err := s.scoreService.RecordResult(sess.GetID(), sess.UserID, snapshot.Score, snapshot.Level, snapshot.GridSize, duration)
	if err != nil {
		logger.Log.Errorf("Failed to record result for session %s: %v", sess.GetID(), err)
	}

	payload, _ := json.Marshal(gameOverPayload{
		Snapshot:        snapshot,
		DurationSeconds: int(duration.Seconds()),
	})
	if err := s.broadcaster.SendToSession(sess.GetID(), network.MsgTypeGameOver, payload); err != nil {
		logger.Log.Warnf("Failed to push game over to session %s: %v", sess.GetID(), err)
	}
}

func (s *GameServer) pushSnapshot(sessionID string, snapshot game.Snapshot) {
	data, err := json.Marshal(snapshot)
	if err != nil {
		logger.Log.Errorf("Error marshalling snapshot: %v", err)
		return
	}
	if err := s.broadcaster.SendToSession(sessionID, network.MsgTypeStateSync, data); err != nil {
		logger.Log.Warnf("Failed to push snapshot to session %s: %v", sessionID, err)
	}
}

func (s *GameServer) pushRoundResult(sessionID string, snapshot game.Snapshot) {
	data, err := json.Marshal(snapshot)
	if err != nil {
		logger.Log.Errorf("Error marshalling round result: %v", err)
		return
	}
	if err := s.broadcaster.SendToSession(sessionID, network.MsgTypeRoundResult, data); err != nil {
		logger.Log.Warnf("Failed to push round result to session %s: %v", sessionID, err)
	}
}

// dropInstance cancels any pending reveal trigger and forgets the game.
func (s *GameServer) dropInstance(sessionID string) {
	inst, exists := s.gameManager.Get(sessionID)
	if !exists {
		return
	}
	s.timers.RemoveTimer(inst.RevealTimer())
	s.gameManager.Remove(sessionID)
	s.mon.SetActiveGames(s.gameManager.Count())
}
