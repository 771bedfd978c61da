// deck/deck.go
package deck

import (
	"math/rand"

	"github.com/google/uuid"
	"github.com/wfunc/tunnelrats/card"
)

// Instance 一张已发牌实例，任何时刻只存在于牌库、某个玩家手牌或弃牌堆之一
type Instance struct {
	ID       string `json:"id"`
	Key      string `json:"key"`
	Rotation int    `json:"rotation"` // quarter turns, 0-3
}

// Definition resolves the static definition backing this instance.
func (i *Instance) Definition() (card.Definition, bool) {
	def, ok := card.Catalog[i.Key]
	return def, ok
}

// Deck is an ordered stack of card instances. Cards are drawn from the top
// end only; running empty is a normal round-ending condition, not an error.
type Deck struct {
	cards []*Instance
}

// Build expands the fixed template into fresh instances and Fisher-Yates
// shuffles them with the given source.
func Build(rng *rand.Rand) *Deck {
	cards := make([]*Instance, 0, card.DeckSize)
	for _, entry := range card.DeckTemplate {
		for i := 0; i < entry.Count; i++ {
			cards = append(cards, &Instance{
				ID:  uuid.New().String(),
				Key: entry.Key,
			})
		}
	}

	for i := len(cards) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}

	return &Deck{cards: cards}
}

// Draw removes and returns the top card, or nil when the deck is empty.
func (d *Deck) Draw() *Instance {
	if len(d.cards) == 0 {
		return nil
	}
	top := d.cards[len(d.cards)-1]
	d.cards = d.cards[:len(d.cards)-1]
	return top
}

// Remaining 剩余牌数
func (d *Deck) Remaining() int {
	return len(d.cards)
}
