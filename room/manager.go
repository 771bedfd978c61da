// room/manager.go
package room

import (
	"math/rand"
	"sync"
	"time"

	"github.com/wfunc/tunnelrats/timer"
)

// Manager 管理以房间码为键的所有房间
//
// A room comes into existence on the first join to its code and is torn down
// when it empties or when its founding player leaves.
type Manager struct {
	rooms       map[string]*Room
	mutex       sync.RWMutex
	turnTimeout time.Duration
	clock       *timer.Scheduler
	sink        EventSink
	newRand     func() *rand.Rand
}

// NewManager creates a room manager. clock and sink may be nil, in which
// case turn deadlines are tracked but never fire on their own.
func NewManager(turnTimeout time.Duration, clock *timer.Scheduler, sink EventSink) *Manager {
	return &Manager{
		rooms:       make(map[string]*Room),
		turnTimeout: turnTimeout,
		clock:       clock,
		sink:        sink,
		newRand: func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		},
	}
}

// SetRandFactory overrides the per-room randomness source, letting tests
// inject seeded determinism without touching the algorithms.
func (m *Manager) SetRandFactory(f func() *rand.Rand) {
	m.newRand = f
}

// Get returns a room by code.
func (m *Manager) Get(code string) (*Room, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	r, ok := m.rooms[code]
	return r, ok
}

// Count returns the number of live rooms.
func (m *Manager) Count() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.rooms)
}

// Join routes a player into the room for code, creating it (with this player
// as founder) on first join.
func (m *Manager) Join(code, playerID, name string) (*Room, *ActionResult, error) {
	m.mutex.Lock()
	r, ok := m.rooms[code]
	if !ok {
		r = newRoom(code, playerID, m.turnTimeout, m.clock, m.sink, m.newRand())
		m.rooms[code] = r
	}
	m.mutex.Unlock()

	res, err := r.Join(playerID, name)
	if err != nil {
		return nil, nil, err
	}
	return r, res, nil
}

// Leave removes a player from their room and reports whether the room was
// destroyed (emptied, or abandoned by its founder).
func (m *Manager) Leave(code, playerID string) (*ActionResult, bool, error) {
	r, ok := m.Get(code)
	if !ok {
		return nil, false, ErrRoomNotFound
	}

	res, err := r.Leave(playerID)
	if err != nil {
		return nil, false, err
	}

	destroyed := r.PlayerCount() == 0 || r.Founder() == playerID
	if destroyed {
		m.remove(code)
	}
	return res, destroyed, nil
}

func (m *Manager) remove(code string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if r, ok := m.rooms[code]; ok {
		r.mu.Lock()
		r.clearActive()
		r.mu.Unlock()
		delete(m.rooms, code)
	}
}
