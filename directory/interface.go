// directory/interface.go
package directory

import (
	"errors"
	"time"
)

// Lobby is one discoverable room as the external directory sees it.
type Lobby struct {
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	PlayerCount int       `json:"player_count"`
	Round       int       `json:"round"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Store 大厅目录存储接口
//
// The engine only pushes player-count changes here; gameplay decisions never
// read this store.
type Store interface {
	UpsertLobby(code, name string, playerCount, round int) error
	RemoveLobby(code string) error
	ListLobbies() ([]Lobby, error)
	Close() error
}

var ErrNotFound = errors.New("lobby not found")
