package rpc

import (
	"net"
	"net/rpc"

	"github.com/wfunc/tunnelrats/directory"
	"github.com/wfunc/tunnelrats/logger"
	"github.com/wfunc/tunnelrats/services"
)

// Server manages the RPC listener for out-of-process lobby discovery.
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

// LobbyBrowser exposes lobby discovery over net/rpc.
type LobbyBrowser struct {
	lobbyService *services.LobbyService
}

// NewLobbyBrowser creates the RPC-facing lobby browser service.
func NewLobbyBrowser(ls *services.LobbyService) *LobbyBrowser {
	return &LobbyBrowser{lobbyService: ls}
}

type ListLobbiesArgs struct{}

type ListLobbiesReply struct {
	Lobbies []directory.Lobby
}

// ListLobbies returns every discoverable lobby with its player count.
func (b *LobbyBrowser) ListLobbies(args *ListLobbiesArgs, reply *ListLobbiesReply) error {
	lobbies, err := b.lobbyService.Browse()
	if err != nil {
		return err
	}
	reply.Lobbies = lobbies
	return nil
}
