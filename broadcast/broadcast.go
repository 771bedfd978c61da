// broadcast/broadcast.go
package broadcast

import (
	"errors"
	"sync"

	"github.com/wfunc/tunnelrats/room"
	"github.com/wfunc/tunnelrats/session"
)

var ErrRoomNotFound = errors.New("room not found")

// Broadcaster 广播接口
type Broadcaster interface {
	BroadcastToRoom(roomCode, msgType string, payload interface{}) error
	SendToPlayer(playerID, msgType string, payload interface{}) error
}

// RoomBroadcaster fans envelopes out to the sessions of a room. It tracks
// membership itself; the engine never sees sessions.
type RoomBroadcaster struct {
	sessions *session.Manager
	members  map[string]map[string]bool // roomCode -> sessionID set
	mutex    sync.RWMutex
}

func NewRoomBroadcaster(sessions *session.Manager) *RoomBroadcaster {
	return &RoomBroadcaster{
		sessions: sessions,
		members:  make(map[string]map[string]bool),
	}
}

// JoinRoom registers a session as a member of a room.
func (b *RoomBroadcaster) JoinRoom(roomCode, sessionID string) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	if b.members[roomCode] == nil {
		b.members[roomCode] = make(map[string]bool)
	}
	b.members[roomCode][sessionID] = true
}

// LeaveRoom drops a session's membership.
func (b *RoomBroadcaster) LeaveRoom(roomCode, sessionID string) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	if set, ok := b.members[roomCode]; ok {
		delete(set, sessionID)
		if len(set) == 0 {
			delete(b.members, roomCode)
		}
	}
}

// CloseRoom drops the whole membership set of a room and returns the ids of
// the sessions that were still members.
func (b *RoomBroadcaster) CloseRoom(roomCode string) []string {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	ids := make([]string, 0, len(b.members[roomCode]))
	for id := range b.members[roomCode] {
		ids = append(ids, id)
	}
	delete(b.members, roomCode)
	return ids
}

func (b *RoomBroadcaster) roomSessions(roomCode string) []*session.Session {
	b.mutex.RLock()
	defer b.mutex.RUnlock()

	sessions := make([]*session.Session, 0, len(b.members[roomCode]))
	for id := range b.members[roomCode] {
		if s, ok := b.sessions.Get(id); ok {
			sessions = append(sessions, s)
		}
	}
	return sessions
}

func (b *RoomBroadcaster) BroadcastToRoom(roomCode, msgType string, payload interface{}) error {
	sessions := b.roomSessions(roomCode)
	if len(sessions) == 0 {
		return ErrRoomNotFound
	}

	for _, s := range sessions {
		if err := s.Send(msgType, payload); err != nil {
			// 发送失败交由连接关闭路径处理
			continue
		}
	}
	return nil
}

func (b *RoomBroadcaster) SendToPlayer(playerID, msgType string, payload interface{}) error {
	s, ok := b.sessions.Get(playerID)
	if !ok {
		return ErrRoomNotFound
	}
	return s.Send(msgType, payload)
}

// Publish implements room.EventSink: events produced by the turn-expiry
// timer reach the room members through the same fanout as direct actions.
func (b *RoomBroadcaster) Publish(roomCode string, events []room.Event) {
	for _, ev := range events {
		b.BroadcastToRoom(roomCode, string(ev.Type), ev.Payload)
	}
}

// PublishResult delivers an action result: room-wide events plus any private
// envelopes owed to individual players.
func (b *RoomBroadcaster) PublishResult(roomCode string, res *room.ActionResult) {
	b.Publish(roomCode, res.Events)
	for playerID, events := range res.Private {
		for _, ev := range events {
			b.SendToPlayer(playerID, string(ev.Type), ev.Payload)
		}
	}
}
