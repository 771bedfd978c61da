package server

import (
	"encoding/json"
	"net/http"
	gorpc "net/rpc"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/wfunc/tunnelrats/broadcast"
	"github.com/wfunc/tunnelrats/config"
	"github.com/wfunc/tunnelrats/logger"
	"github.com/wfunc/tunnelrats/monitor"
	"github.com/wfunc/tunnelrats/network"
	"github.com/wfunc/tunnelrats/player"
	"github.com/wfunc/tunnelrats/room"
	tunnelrats_rpc "github.com/wfunc/tunnelrats/rpc"
	"github.com/wfunc/tunnelrats/services"
	"github.com/wfunc/tunnelrats/session"
	"github.com/wfunc/tunnelrats/timer"
)

// GameServer binds the room engine to its websocket transport. The engine
// itself never sees connections; it gets validated intents and returns the
// events the server broadcasts.
type GameServer struct {
	addr           string
	upgrader       websocket.Upgrader
	roomManager    *room.Manager
	sessionManager *session.Manager
	broadcaster    *broadcast.RoomBroadcaster
	lobbyService   *services.LobbyService
	monitor        *monitor.Monitor
	rpcServer      *tunnelrats_rpc.Server
	clock          *timer.Scheduler
	shutdownChan   chan struct{}
}

func NewGameServer(cfg *config.Config, lobbyService *services.LobbyService, mon *monitor.Monitor) *GameServer {
	s := &GameServer{
		addr:           cfg.Server.WSAddress,
		sessionManager: session.NewManager(),
		lobbyService:   lobbyService,
		monitor:        mon,
		clock:          timer.NewScheduler(),
		shutdownChan:   make(chan struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // 允许所有跨域请求
			},
		},
	}

	s.broadcaster = broadcast.NewRoomBroadcaster(s.sessionManager)
	s.roomManager = room.NewManager(cfg.Game.TurnTimeout(), s.clock, s.broadcaster)

	rpcServer, err := tunnelrats_rpc.NewServer(cfg.Server.RPCAddress)
	if err != nil {
		logger.Log.Fatalf("Failed to create RPC server: %v", err)
	}
	s.rpcServer = rpcServer

	browser := tunnelrats_rpc.NewLobbyBrowser(lobbyService)
	gorpc.Register(browser)

	return s
}

func (s *GameServer) Start() error {
	go s.rpcServer.Start()

	http.HandleFunc("/ws", s.handleWebSocket)
	logger.Log.Infof("Game server listening on %s", s.addr)
	return http.ListenAndServe(s.addr, nil)
}

func (s *GameServer) Shutdown() {
	close(s.shutdownChan)
	s.rpcServer.Stop()
	s.clock.Close()
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
	s.monitor.IncOnlinePlayers()

	logger.Log.Infof("New connection from %s, session ID: %s", wsConn.RemoteAddr(), sess.GetID())

	defer func() {
		logger.Log.Infof("Connection closed from %s, session ID: %s", wsConn.RemoteAddr(), sess.GetID())
		s.handleDisconnect(sess)
		s.sessionManager.Remove(sess.GetID())
		s.monitor.DecOnlinePlayers()
		wsConn.Close()
	}()

	for {
		select {
		case <-s.shutdownChan:
			return
		default:
			env, err := wsConn.ReadEnvelope()
			if err != nil {
				return
			}
			s.handleEnvelope(sess, env)
		}
	}
}

// handleDisconnect treats a dropped connection as an immediate leave.
func (s *GameServer) handleDisconnect(sess *session.Session) {
	code := sess.RoomCode
	if code == "" {
		return
	}

	res, destroyed, err := s.roomManager.Leave(code, sess.GetID())
	if err != nil {
		return
	}
	s.broadcaster.LeaveRoom(code, sess.GetID())
	s.broadcaster.PublishResult(code, res)

	if destroyed {
		s.closeRoom(code)
	} else if r, ok := s.roomManager.Get(code); ok {
		s.lobbyService.NotifyRoomChange(code, code, r.PlayerCount(), r.Round())
	}
	s.monitor.SetActiveRooms(s.roomManager.Count())
}

// closeRoom tells the remaining members and releases their membership.
func (s *GameServer) closeRoom(code string) {
	s.broadcaster.BroadcastToRoom(code, network.TypeRoomClosed, map[string]string{"code": code})
	for _, id := range s.broadcaster.CloseRoom(code) {
		if member, ok := s.sessionManager.Get(id); ok {
			member.RoomCode = ""
		}
	}
	s.lobbyService.NotifyRoomClosed(code)
}

func (s *GameServer) handleEnvelope(sess *session.Session, env *network.Envelope) {
	start := time.Now()
	defer func() {
		s.monitor.ObserveActionLatency(time.Since(start))
	}()

	switch env.Type {
	case network.TypeJoin:
		s.handleJoin(sess, env.Data)
	case network.TypePlaceCard:
		s.handlePlaceCard(sess, env.Data)
	case network.TypeRockfall:
		s.handleRockfall(sess, env.Data)
	case network.TypeToolEffect:
		s.handleToolEffect(sess, env.Data)
	case network.TypeRestart:
		s.handleRestart(sess)
	case network.TypePose:
		s.handlePose(sess, env.Data)
	default:
		logger.Log.Infof("Unknown envelope type %q from session %s", env.Type, sess.GetID())
	}
}

func (s *GameServer) handleJoin(sess *session.Session, data json.RawMessage) {
	var req network.JoinRequest
	if err := json.Unmarshal(data, &req); err != nil || req.Code == "" {
		s.sendError(sess, "join", "bad_request", "malformed join request")
		return
	}
	if sess.RoomCode != "" {
		s.sendError(sess, "join", "already_joined", "leave the current room first")
		return
	}

	r, res, err := s.roomManager.Join(req.Code, sess.GetID(), req.Name)
	if err != nil {
		s.sendError(sess, "join", room.ErrorCode(err), err.Error())
		return
	}

	sess.RoomCode = req.Code
	sess.Name = req.Name
	s.broadcaster.JoinRoom(req.Code, sess.GetID())

	view, err := r.Describe(sess.GetID())
	if err == nil {
		sess.Send(network.TypeJoined, view)
	}
	s.publish("join", req.Code, res)

	s.lobbyService.NotifyRoomChange(req.Code, req.Code, r.PlayerCount(), r.Round())
	s.monitor.SetActiveRooms(s.roomManager.Count())
	logger.Log.Infof("Session %s joined room %s", sess.GetID(), req.Code)
}

func (s *GameServer) handlePlaceCard(sess *session.Session, data json.RawMessage) {
	var req network.PlaceCardRequest
	if err := json.Unmarshal(data, &req); err != nil {
		s.sendError(sess, "place_card", "bad_request", "malformed place request")
		return
	}
	r, ok := s.currentRoom(sess, "place_card")
	if !ok {
		return
	}

	res, err := r.PlaceCard(sess.GetID(), req.CardID, req.TileID, req.Rotation)
	if err != nil {
		s.sendError(sess, "place_card", room.ErrorCode(err), err.Error())
		return
	}
	s.publish("place_card", sess.RoomCode, res)
}

func (s *GameServer) handleRockfall(sess *session.Session, data json.RawMessage) {
	var req network.RockfallRequest
	if err := json.Unmarshal(data, &req); err != nil {
		s.sendError(sess, "rockfall", "bad_request", "malformed rockfall request")
		return
	}
	r, ok := s.currentRoom(sess, "rockfall")
	if !ok {
		return
	}

	res, err := r.Rockfall(sess.GetID(), req.CardID, req.TileID)
	if err != nil {
		s.sendError(sess, "rockfall", room.ErrorCode(err), err.Error())
		return
	}
	s.publish("rockfall", sess.RoomCode, res)
}

func (s *GameServer) handleToolEffect(sess *session.Session, data json.RawMessage) {
	var req network.ToolEffectRequest
	if err := json.Unmarshal(data, &req); err != nil {
		s.sendError(sess, "tool_effect", "bad_request", "malformed tool request")
		return
	}
	r, ok := s.currentRoom(sess, "tool_effect")
	if !ok {
		return
	}

	res, err := r.ToolEffect(sess.GetID(), req.TargetID, req.CardID)
	if err != nil {
		s.sendError(sess, "tool_effect", room.ErrorCode(err), err.Error())
		return
	}
	s.publish("tool_effect", sess.RoomCode, res)
}

func (s *GameServer) handleRestart(sess *session.Session) {
	r, ok := s.currentRoom(sess, "restart")
	if !ok {
		return
	}

	res, err := r.Restart(sess.GetID())
	if err != nil {
		s.sendError(sess, "restart", room.ErrorCode(err), err.Error())
		return
	}
	s.publish("restart", sess.RoomCode, res)
	s.lobbyService.NotifyRoomChange(sess.RoomCode, sess.RoomCode, r.PlayerCount(), r.Round())
}

func (s *GameServer) handlePose(sess *session.Session, data json.RawMessage) {
	var pose player.Pose
	if err := json.Unmarshal(data, &pose); err != nil {
		s.sendError(sess, "pose", "bad_request", "malformed pose update")
		return
	}
	r, ok := s.currentRoom(sess, "pose")
	if !ok {
		return
	}

	res, err := r.UpdatePose(sess.GetID(), pose)
	if err != nil {
		s.sendError(sess, "pose", room.ErrorCode(err), err.Error())
		return
	}
	s.publish("pose", sess.RoomCode, res)
}

func (s *GameServer) currentRoom(sess *session.Session, action string) (*room.Room, bool) {
	if sess.RoomCode == "" {
		s.sendError(sess, action, "room_not_found", "not in a room")
		return nil, false
	}
	r, ok := s.roomManager.Get(sess.RoomCode)
	if !ok {
		s.sendError(sess, action, "room_not_found", "room no longer exists")
		return nil, false
	}
	return r, true
}

func (s *GameServer) publish(action, code string, res *room.ActionResult) {
	s.broadcaster.PublishResult(code, res)
	s.monitor.IncAction(action, "ok")
	if res.RoundEnded && res.Settlement != nil {
		s.monitor.IncRoundCompleted(string(res.Settlement.Team))
	}
}

// sendError surfaces a failure to the acting player only.
func (s *GameServer) sendError(sess *session.Session, action, code, message string) {
	s.monitor.IncAction(action, "error")
	sess.Send(network.TypeError, network.ErrorReply{Code: code, Message: message})
}
