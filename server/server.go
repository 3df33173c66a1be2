package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/wfunc/powerball/broadcast"
	"github.com/wfunc/powerball/game"
	"github.com/wfunc/powerball/logger"
	"github.com/wfunc/powerball/monitor"
	"github.com/wfunc/powerball/network"
	"github.com/wfunc/powerball/session"
)

// pushInterval is how often the full snapshot is pushed to watchers. The
// engine may run thousands of drawings per second; the display only needs
// a smooth refresh, never one frame per drawing.
const pushInterval = 100 * time.Millisecond

// GameServer serves the player/admin HTTP API and pushes state to
// websocket watchers.
type GameServer struct {
	addr           string
	adminPassword  string
	game           *game.Session
	upgrader       websocket.Upgrader
	sessionManager *session.Manager
	broadcaster    broadcast.Broadcaster
	mon            *monitor.Monitor
	router         *gin.Engine
	shutdownChan   chan struct{}
}

// NewGameServer wires the HTTP surface around the game session. mon may be
// nil when metrics are not wanted (tests).
func NewGameServer(addr, adminPassword string, g *game.Session, mon *monitor.Monitor) *GameServer {
	s := &GameServer{
		addr:           addr,
		adminPassword:  adminPassword,
		game:           g,
		sessionManager: session.NewManager(),
		mon:            mon,
		shutdownChan:   make(chan struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // party game on a trusted LAN
			},
		},
	}
	s.broadcaster = broadcast.NewWatcherBroadcaster(s.sessionManager)

	router := gin.Default()
	router.POST("/api/join", s.handleJoin)
	router.GET("/api/quickpick", s.handleQuickPick)
	router.GET("/api/state", s.handleState)
	router.POST("/api/admin/remove", s.handleAdminRemove)
	router.POST("/api/admin/reset", s.handleAdminReset)
	router.POST("/api/admin/speed", s.handleAdminSpeed)
	router.POST("/api/admin/resume", s.handleAdminResume)
	router.GET("/ws", s.handleWebSocket)
	s.router = router

	return s
}

// Start runs the push loop and blocks serving HTTP.
func (s *GameServer) Start() error {
	go s.pushLoop()
	logger.Log.Infof("Game server listening on %s", s.addr)
	return s.router.Run(s.addr)
}

func (s *GameServer) Shutdown() {
	close(s.shutdownChan)
}

// pushLoop pushes the snapshot to every watcher on a fixed cadence and
// announces the jackpot transition once.
func (s *GameServer) pushLoop() {
	ticker := time.NewTicker(pushInterval)
	defer ticker.Stop()

	lastState := s.game.State()
	var lastDraws uint64
	for {
		select {
		case <-ticker.C:
			snap := s.game.Snapshot()
			s.broadcastUpdates(snap, lastState, lastDraws)
			lastState, lastDraws = snap.State, snap.DrawCount
		case <-s.shutdownChan:
			return
		}
	}
}

// broadcastUpdates fans one snapshot out: the full state to everyone, each
// player's own results to the watchers following that player, and the
// jackpot announcement once on the transition.
func (s *GameServer) broadcastUpdates(snap game.Snapshot, prevState game.State, prevDraws uint64) {
	if s.sessionManager.Count() > 0 {
		s.broadcaster.BroadcastAll(network.EventStateUpdate, snap)
		if snap.DrawCount != prevDraws {
			for _, p := range snap.Players {
				s.broadcaster.BroadcastToPlayer(p.ID, network.EventPlayerResult, p)
			}
		}
	}
	if snap.State == game.StateJackpot && prevState != game.StateJackpot {
		s.broadcaster.BroadcastAll(network.EventJackpot, gin.H{
			"winner":   snap.JackpotWinner,
			"drawings": snap.DrawCount,
		})
	}
	if s.mon != nil {
		s.mon.SetActivePlayers(snap.PlayerCount)
		s.mon.SetWatchers(s.sessionManager.Count())
	}
}

type joinRequest struct {
	Name      string `json:"name"`
	Numbers   []int  `json:"numbers"`
	Powerball int    `json:"powerball"`
	QuickPick bool   `json:"quick_pick"`
}

func (s *GameServer) handleJoin(c *gin.Context) {
	var req joinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, gin.H{"success": false, "error": "Invalid request body"})
		return
	}

	var (
		playerID string
		err      error
	)
	if req.QuickPick {
		playerID, err = s.game.JoinQuickPick(req.Name)
	} else {
		var ticket game.Ticket
		ticket, err = game.NewTicket(req.Numbers, req.Powerball)
		if err == nil {
			playerID, err = s.game.Join(req.Name, ticket)
		}
	}
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"success": false, "error": err.Error()})
		return
	}

	logger.Log.Infof("Player %q joined with id %s", req.Name, playerID)
	s.broadcaster.BroadcastAll(network.EventPlayerJoined, gin.H{"name": req.Name, "player_id": playerID})
	c.JSON(http.StatusOK, gin.H{"success": true, "player_id": playerID})
}

func (s *GameServer) handleQuickPick(c *gin.Context) {
	t := s.game.QuickPick()
	c.JSON(http.StatusOK, gin.H{"numbers": t.Whites, "powerball": t.Powerball})
}

func (s *GameServer) handleState(c *gin.Context) {
	c.JSON(http.StatusOK, s.game.Snapshot())
}

type adminRequest struct {
	Password string `json:"password"`
	PlayerID string `json:"player_id"`
	Speed    int    `json:"speed"`
}

// bindAdmin parses the body and checks the shared admin password. Returns
// false after answering the request when the check fails.
func (s *GameServer) bindAdmin(c *gin.Context) (adminRequest, bool) {
	var req adminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, gin.H{"success": false, "error": "Invalid request body"})
		return req, false
	}
	if req.Password != s.adminPassword {
		c.JSON(http.StatusOK, gin.H{"success": false, "error": "Invalid password"})
		return req, false
	}
	return req, true
}

func (s *GameServer) handleAdminRemove(c *gin.Context) {
	req, ok := s.bindAdmin(c)
	if !ok {
		return
	}
	s.game.RemovePlayer(req.PlayerID)
	s.broadcaster.BroadcastAll(network.EventPlayerRemoved, gin.H{"player_id": req.PlayerID})
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *GameServer) handleAdminReset(c *gin.Context) {
	_, ok := s.bindAdmin(c)
	if !ok {
		return
	}
	s.game.Reset()
	logger.Log.Info("Game reset by admin")
	s.broadcaster.BroadcastAll(network.EventGameReset, gin.H{})
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *GameServer) handleAdminSpeed(c *gin.Context) {
	req, ok := s.bindAdmin(c)
	if !ok {
		return
	}
	s.game.SetSpeed(req.Speed)
	speed := s.game.Speed()
	logger.Log.Infof("Speed set to %d drawings/sec", speed)
	s.broadcaster.BroadcastAll(network.EventSpeedChanged, gin.H{"speed": speed})
	c.JSON(http.StatusOK, gin.H{"success": true, "speed": speed})
}

func (s *GameServer) handleAdminResume(c *gin.Context) {
	_, ok := s.bindAdmin(c)
	if !ok {
		return
	}
	s.game.Resume()
	logger.Log.Info("Game resumed by admin")
	s.broadcaster.BroadcastAll(network.EventGameResumed, gin.H{})
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *GameServer) handleWebSocket(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Log.Infof("Failed to upgrade connection: %v", err)
		return
	}
	s.handleWatcher(network.NewWSConnection(conn), c.Query("player_id"))
}

func (s *GameServer) handleWatcher(conn network.Connection, playerID string) {
	sess := session.NewSession(uuid.New().String(), conn)
	sess.PlayerID = playerID
	s.sessionManager.Add(sess)

	logger.Log.Infof("Watcher connected from %s, session ID: %s", conn.RemoteAddr(), sess.GetID())

	defer func() {
		logger.Log.Infof("Watcher disconnected, session ID: %s", sess.GetID())
		s.sessionManager.Remove(sess.GetID())
		conn.Close()
	}()

	// Match the original behavior of emitting the full state on connect,
	// plus the followed player's own results for scoped watchers.
	snap := s.game.Snapshot()
	if err := sess.Send(network.EventStateUpdate, snap); err != nil {
		return
	}
	if playerID != "" {
		for _, p := range snap.Players {
			if p.ID == playerID {
				if err := sess.Send(network.EventPlayerResult, p); err != nil {
					return
				}
				break
			}
		}
	}

	for {
		select {
		case <-s.shutdownChan:
			return
		default:
			env, err := conn.ReadEnvelope()
			if err != nil {
				return
			}
			if env.Event == network.EventHeartbeat {
				sess.Touch()
			}
		}
	}
}
