package player

import (
	"math/rand"
	"testing"

	"github.com/wfunc/tunnelrats/deck"
)

func TestSaboteurQuota(t *testing.T) {
	cases := []struct{ n, want int }{
		{0, 0}, {1, 0}, {2, 0},
		{3, 1}, {4, 1},
		{5, 2}, {6, 2},
		{7, 3}, {8, 3}, {11, 3},
	}
	for _, tc := range cases {
		if got := SaboteurQuota(tc.n); got != tc.want {
			t.Errorf("SaboteurQuota(%d) = %d, want %d", tc.n, got, tc.want)
		}
	}
}

func TestShuffleRoles_Counts(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for n := 1; n <= 9; n++ {
		roles := ShuffleRoles(rng, n)
		if len(roles) != n {
			t.Fatalf("Expected %d roles, got %d", n, len(roles))
		}
		saboteurs := 0
		for _, role := range roles {
			if role == RoleSaboteur {
				saboteurs++
			}
		}
		if saboteurs != SaboteurQuota(n) {
			t.Errorf("n=%d: expected %d saboteurs, got %d", n, SaboteurQuota(n), saboteurs)
		}
	}
}

func TestShuffleRoles_ThreeAndSevenPlayers(t *testing.T) {
	rng := rand.New(rand.NewSource(2))

	roles := ShuffleRoles(rng, 3)
	miners := 0
	for _, role := range roles {
		if role == RoleMiner {
			miners++
		}
	}
	if miners != 2 {
		t.Errorf("Three players should have exactly 2 miners, got %d", miners)
	}

	roles = ShuffleRoles(rng, 7)
	saboteurs := 0
	for _, role := range roles {
		if role == RoleSaboteur {
			saboteurs++
		}
	}
	if saboteurs != 3 {
		t.Errorf("Seven players should have exactly 3 saboteurs, got %d", saboteurs)
	}
}

func TestAdjustSuspicion_Clamps(t *testing.T) {
	p := &Player{}

	p.AdjustSuspicion(-0.5)
	if p.Suspicion != 0 {
		t.Errorf("Suspicion should floor at 0, got %f", p.Suspicion)
	}

	p.AdjustSuspicion(0.7)
	p.AdjustSuspicion(0.7)
	if p.Suspicion != 1 {
		t.Errorf("Suspicion should cap at 1, got %f", p.Suspicion)
	}
}

func TestHandOperations(t *testing.T) {
	p := &Player{Hand: []*deck.Instance{
		{ID: "a", Key: "path_ew"},
		{ID: "b", Key: "rockfall"},
	}}

	if idx := p.HasCard("b"); idx != 1 {
		t.Errorf("Expected card b at index 1, got %d", idx)
	}
	if idx := p.HasCard("missing"); idx != -1 {
		t.Errorf("Expected -1 for a missing card, got %d", idx)
	}

	inst := p.TakeCard(0)
	if inst.ID != "a" || len(p.Hand) != 1 || p.Hand[0].ID != "b" {
		t.Error("TakeCard should remove exactly the indexed card")
	}
}

func TestEfficiency(t *testing.T) {
	p := &Player{}
	if p.Efficiency() != 0 {
		t.Error("Efficiency with no actions should be 0")
	}

	p.Actions = 4
	p.PathsPlaced = 3
	if got := p.Efficiency(); got != 0.75 {
		t.Errorf("Expected efficiency 0.75, got %f", got)
	}
}
