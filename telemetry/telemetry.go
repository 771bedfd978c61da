// telemetry/telemetry.go
package telemetry

import (
	"time"

	"github.com/wfunc/tunnelrats/board"
	"github.com/wfunc/tunnelrats/player"
)

// PlayerStats 单个玩家的派生读数
type PlayerStats struct {
	Suspicion  float64 `json:"suspicion"`
	Efficiency float64 `json:"efficiency"`
	Gold       int     `json:"gold"`
}

// Snapshot is the derived read-only room view rebuilt after every mutating
// action. It is never mutated in place; drift is prevented by recomputing it
// from the board/player/deck state it summarizes.
type Snapshot struct {
	DeckRemaining int                    `json:"deck_remaining"`
	Progress      float64                `json:"progress"`
	Collapsed     int                    `json:"collapsed"`
	Players       map[string]PlayerStats `json:"players"`
	TurnsTaken    int                    `json:"turns_taken"`
	Round         int                    `json:"round"`
	ActivePlayer  string                 `json:"active_player"`
	TurnDeadline  int64                  `json:"turn_deadline"` // unix millis, 0 when no turn is running
}

// Project computes a fresh snapshot. Pure over its inputs.
func Project(b *board.Board, players []*player.Player, deckRemaining, turnsTaken, round int, activeID string, deadline time.Time) Snapshot {
	snap := Snapshot{
		DeckRemaining: deckRemaining,
		Progress:      b.Explore().Progress(),
		Collapsed:     b.CollapsedCount(),
		Players:       make(map[string]PlayerStats, len(players)),
		TurnsTaken:    turnsTaken,
		Round:         round,
		ActivePlayer:  activeID,
	}
	if !deadline.IsZero() {
		snap.TurnDeadline = deadline.UnixMilli()
	}
	for _, p := range players {
		snap.Players[p.ID] = PlayerStats{
			Suspicion:  p.Suspicion,
			Efficiency: p.Efficiency(),
			Gold:       p.Score,
		}
	}
	return snap
}
