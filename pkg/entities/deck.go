package entities

import (
	"math/rand"
	"time"
)

// Deck is an ordered run of cards drawn from the top (the end of the slice).
// A deck belongs to exactly one game while that game is live.
type Deck struct {
	Cards []Card
}

// NewDeck builds the canonical 52-card deck, one of each (suit, rank) pair,
// in suit-major, rank-minor order.
func NewDeck() *Deck {
	cards := make([]Card, 0, 52)
	for _, suit := range Suits {
		for _, rank := range Ranks {
			cards = append(cards, NewCard(suit, rank))
		}
	}
	return &Deck{Cards: cards}
}

// Shuffled returns a Fisher-Yates shuffled copy of the deck. The receiver is
// left untouched so the canonical deck can serve as a reusable template.
func (d *Deck) Shuffled() *Deck {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	cards := make([]Card, len(d.Cards))
	copy(cards, d.Cards)

	for i := len(cards) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}
	return &Deck{Cards: cards}
}

// NewShuffledDeck builds and shuffles a fresh 52-card deck.
func NewShuffledDeck() *Deck {
	return NewDeck().Shuffled()
}

// Draw removes and returns the top card. Drawing from an empty deck is a
// programmer error: a single 52-card deck always outlasts one blackjack hand.
func (d *Deck) Draw() Card {
	if len(d.Cards) == 0 {
		panic("entities: draw from empty deck")
	}
	card := d.Cards[len(d.Cards)-1]
	d.Cards = d.Cards[:len(d.Cards)-1]
	return card
}

// Remaining returns the number of cards left in the deck.
func (d *Deck) Remaining() int {
	return len(d.Cards)
}
