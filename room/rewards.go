// room/rewards.go
package room

import "github.com/wfunc/tunnelrats/player"

// Settlement records how a round resolved: the winning team, the winners in
// deal order and each winner's award. Only miner wins carry a placer.
type Settlement struct {
	Team    player.Role
	Winners []string
	Awards  map[string]int
	Placer  string
}

// resolve settles the round for the winning team. Exactly one resolution
// happens per round; later triggers are no-ops until a restart.
func (r *Room) resolve(team player.Role, placerID string) {
	if r.roundEnded {
		return
	}
	r.roundEnded = true

	s := &Settlement{Team: team, Awards: make(map[string]int), Placer: placerID}
	if team == player.RoleMiner {
		r.settleMiners(s, placerID)
	} else {
		r.settleSaboteurs(s)
	}
	for id, award := range s.Awards {
		r.players[id].Score += award
	}
	r.settlement = s
}

// settleMiners deals one pseudo-random reward in [1,3] per connected player,
// round-robin over the miners only, starting from the winning placer and
// wrapping through join order.
func (r *Room) settleMiners(s *Settlement, placerID string) {
	start := 0
	for i, id := range r.order {
		if id == placerID {
			start = i
			break
		}
	}

	var miners []string
	for i := 0; i < len(r.order); i++ {
		id := r.order[(start+i)%len(r.order)]
		if r.players[id].Role == player.RoleMiner {
			miners = append(miners, id)
		}
	}
	s.Winners = miners
	if len(miners) == 0 {
		return
	}

	for i := 0; i < len(r.order); i++ {
		s.Awards[miners[i%len(miners)]] += r.rng.Intn(3) + 1
	}
}

// settleSaboteurs hands every saboteur the same flat award: 4 gold for a
// lone saboteur, 3 for two or three, 2 for four or more.
func (r *Room) settleSaboteurs(s *Settlement) {
	var saboteurs []string
	for _, id := range r.order {
		if r.players[id].Role == player.RoleSaboteur {
			saboteurs = append(saboteurs, id)
		}
	}
	s.Winners = saboteurs

	award := 2
	switch len(saboteurs) {
	case 1:
		award = 4
	case 2, 3:
		award = 3
	}
	for _, id := range saboteurs {
		s.Awards[id] = award
	}
}
