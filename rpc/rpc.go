package rpc

import (
	"net"
	"net/rpc"

	"github.com/wfunc/powerball/game"
	"github.com/wfunc/powerball/logger"
)

// Server manages the RPC listener for the operator panel.
type Server struct {
	listener net.Listener
	address  string
}

// NewServer creates a new RPC server; register services before Start.
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

// AdminService exposes the operator controls over net/rpc, so a local panel
// can drive the game without going through the HTTP password check.
type AdminService struct {
	session *game.Session
}

func NewAdminService(session *game.Session) *AdminService {
	return &AdminService{session: session}
}

type SetSpeedArgs struct {
	Speed int
}

type SetSpeedReply struct {
	Speed int
}

func (a *AdminService) SetSpeed(args *SetSpeedArgs, reply *SetSpeedReply) error {
	a.session.SetSpeed(args.Speed)
	reply.Speed = a.session.Speed()
	logger.Log.Infof("Speed set to %d drawings/sec via RPC", reply.Speed)
	return nil
}

type EmptyArgs struct{}

type EmptyReply struct{}

func (a *AdminService) Reset(args *EmptyArgs, reply *EmptyReply) error {
	a.session.Reset()
	logger.Log.Info("Game reset via RPC")
	return nil
}

func (a *AdminService) Resume(args *EmptyArgs, reply *EmptyReply) error {
	a.session.Resume()
	logger.Log.Info("Game resumed via RPC")
	return nil
}

type RemovePlayerArgs struct {
	PlayerID string
}

func (a *AdminService) RemovePlayer(args *RemovePlayerArgs, reply *EmptyReply) error {
	a.session.RemovePlayer(args.PlayerID)
	return nil
}

type StateReply struct {
	Snapshot game.Snapshot
}

func (a *AdminService) State(args *EmptyArgs, reply *StateReply) error {
	reply.Snapshot = a.session.Snapshot()
	return nil
}
