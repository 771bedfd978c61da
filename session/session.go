// session/session.go
package session

import (
	"sync"
	"time"

	"github.com/wfunc/tunnelrats/network"
)

// Session is one connected client. The session id doubles as the player id
// inside a room. Send is called from the owning handler goroutine, the room
// broadcaster and the turn timer, so the activity timestamp needs its own
// lock; the remaining fields are touched by the handler goroutine only.
type Session struct {
	ID        string
	Conn      network.Connection
	Name      string
	RoomCode  string
	CreatedAt time.Time

	mutex      sync.Mutex
	lastActive time.Time
}

func NewSession(id string, conn network.Connection) *Session {
	now := time.Now()
	return &Session{
		ID:         id,
		Conn:       conn,
		CreatedAt:  now,
		lastActive: now,
	}
}

func (s *Session) Send(msgType string, payload interface{}) error {
	s.mutex.Lock()
	s.lastActive = time.Now()
	s.mutex.Unlock()
	return s.Conn.Send(msgType, payload)
}

// LastActive 最近一次收发消息的时间
func (s *Session) LastActive() time.Time {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.lastActive
}

func (s *Session) GetID() string {
	return s.ID
}

func (s *Session) Close() error {
	return s.Conn.Close()
}

// Manager Session管理器
type Manager struct {
	sessions map[string]*Session
	mutex    sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
	}
}

func (m *Manager) Add(session *Session) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.sessions[session.ID] = session
}

func (m *Manager) Remove(sessionID string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	delete(m.sessions, sessionID)
}

func (m *Manager) Get(sessionID string) (*Session, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	session, exists := m.sessions[sessionID]
	return session, exists
}

func (m *Manager) Count() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.sessions)
}
