// services/lobby_service.go
package services

import (
	"github.com/wfunc/tunnelrats/directory"
	"github.com/wfunc/tunnelrats/logger"
)

// LobbyService keeps the external lobby directory in sync with the in-memory
// room registry. Directory failures are logged and swallowed: gameplay never
// depends on this store.
type LobbyService struct {
	store directory.Store // nil when no directory is configured
}

func NewLobbyService(store directory.Store) *LobbyService {
	return &LobbyService{store: store}
}

// NotifyRoomChange pushes the latest player count for a room code.
func (s *LobbyService) NotifyRoomChange(code, name string, playerCount, round int) {
	if s.store == nil {
		return
	}
	if err := s.store.UpsertLobby(code, name, playerCount, round); err != nil {
		logger.Log.Warnf("Failed to update lobby directory for room %s: %v", code, err)
	}
}

// NotifyRoomClosed drops a room from the directory.
func (s *LobbyService) NotifyRoomClosed(code string) {
	if s.store == nil {
		return
	}
	if err := s.store.RemoveLobby(code); err != nil {
		logger.Log.Warnf("Failed to remove lobby %s from directory: %v", code, err)
	}
}

// Browse lists the discoverable lobbies for the lobby browser.
func (s *LobbyService) Browse() ([]directory.Lobby, error) {
	if s.store == nil {
		return nil, nil
	}
	return s.store.ListLobbies()
}
