package deck

import (
	"math/rand"
	"testing"

	"github.com/wfunc/tunnelrats/card"
)

func TestBuild_Size(t *testing.T) {
	d := Build(rand.New(rand.NewSource(1)))
	if d.Remaining() != card.DeckSize {
		t.Errorf("Expected %d cards after build, got %d", card.DeckSize, d.Remaining())
	}
}

func TestBuild_MultisetMatchesTemplate(t *testing.T) {
	d := Build(rand.New(rand.NewSource(2)))

	counts := make(map[string]int)
	seen := make(map[string]bool)
	for {
		inst := d.Draw()
		if inst == nil {
			break
		}
		counts[inst.Key]++
		if seen[inst.ID] {
			t.Errorf("Duplicate instance id %s", inst.ID)
		}
		seen[inst.ID] = true
	}

	for _, entry := range card.DeckTemplate {
		if counts[entry.Key] != entry.Count {
			t.Errorf("Expected %d copies of %s, got %d", entry.Count, entry.Key, counts[entry.Key])
		}
	}
}

func TestDraw_Accounting(t *testing.T) {
	d := Build(rand.New(rand.NewSource(3)))

	drawn := 0
	for i := 0; i < 10; i++ {
		if d.Draw() == nil {
			t.Fatal("Deck should not be empty after 10 draws")
		}
		drawn++
		if d.Remaining()+drawn != card.DeckSize {
			t.Fatalf("remaining + drawn should stay %d, got %d", card.DeckSize, d.Remaining()+drawn)
		}
	}
}

func TestDraw_EmptyReturnsNil(t *testing.T) {
	d := Build(rand.New(rand.NewSource(4)))
	for d.Remaining() > 0 {
		d.Draw()
	}
	if d.Draw() != nil {
		t.Error("Drawing from an empty deck should return nil")
	}
}

func TestBuild_SeededShuffleIsDeterministic(t *testing.T) {
	a := Build(rand.New(rand.NewSource(7)))
	b := Build(rand.New(rand.NewSource(7)))

	for a.Remaining() > 0 {
		ca, cb := a.Draw(), b.Draw()
		if ca.Key != cb.Key {
			t.Fatal("Same seed should produce the same shuffle order")
		}
	}
}
