// player/player.go
package player

import (
	"math/rand"

	"github.com/wfunc/tunnelrats/deck"
)

// Role 隐藏身份
type Role string

const (
	RoleMiner    Role = "miner"
	RoleSaboteur Role = "saboteur"
)

// Pose is the player's 3D position and orientation. The engine treats it as
// opaque presentation state for the rendering and proximity-voice layers.
type Pose struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Z     float64 `json:"z"`
	Yaw   float64 `json:"yaw"`
	Pitch float64 `json:"pitch"`
}

// Player 房间内的一名玩家
type Player struct {
	ID          string
	Name        string
	Role        Role
	Pose        Pose
	Hand        []*deck.Instance
	ToolBroken  bool
	Suspicion   float64 // clamped to [0,1]
	Score       int     // cumulative gold, persists across rounds
	PathsPlaced int
	Actions     int
}

// HasCard returns the hand index of the given instance id, or -1.
func (p *Player) HasCard(instanceID string) int {
	for i, c := range p.Hand {
		if c.ID == instanceID {
			return i
		}
	}
	return -1
}

// TakeCard removes and returns the instance at the given hand index.
func (p *Player) TakeCard(i int) *deck.Instance {
	c := p.Hand[i]
	p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
	return c
}

// AdjustSuspicion shifts the suspicion score by delta, clamping to [0,1].
func (p *Player) AdjustSuspicion(delta float64) {
	p.Suspicion += delta
	if p.Suspicion < 0 {
		p.Suspicion = 0
	}
	if p.Suspicion > 1 {
		p.Suspicion = 1
	}
}

// Efficiency 通道牌占行动数的比例
func (p *Player) Efficiency() float64 {
	if p.Actions == 0 {
		return 0
	}
	return float64(p.PathsPlaced) / float64(p.Actions)
}

// SaboteurQuota is the deterministic saboteur count for n players:
// 0 for n<3, 1 for 3-4, 2 for 5-6, 3 for n>=7.
func SaboteurQuota(n int) int {
	switch {
	case n < 3:
		return 0
	case n <= 4:
		return 1
	case n <= 6:
		return 2
	default:
		return 3
	}
}

// ShuffleRoles builds the role list for n players (quota saboteurs, the rest
// miners) and randomly permutes it before positional assignment.
func ShuffleRoles(rng *rand.Rand, n int) []Role {
	roles := make([]Role, n)
	quota := SaboteurQuota(n)
	for i := range roles {
		if i < quota {
			roles[i] = RoleSaboteur
		} else {
			roles[i] = RoleMiner
		}
	}
	rng.Shuffle(n, func(i, j int) {
		roles[i], roles[j] = roles[j], roles[i]
	})
	return roles
}
