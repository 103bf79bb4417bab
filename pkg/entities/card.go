package entities

import (
	"fmt"
	"strconv"
)

// Suit represents a card suit

type Suit string

const (
	Clubs    Suit = "CLUBS"
	Diamonds Suit = "DIAMONDS"
	Hearts   Suit = "HEARTS"
	Spades   Suit = "SPADES"
)

// Rank represents a card rank

type Rank string

const (
	Two   Rank = "2"
	Three Rank = "3"
	Four  Rank = "4"
	Five  Rank = "5"
	Six   Rank = "6"
	Seven Rank = "7"
	Eight Rank = "8"
	Nine  Rank = "9"
	Ten   Rank = "10"
	Jack  Rank = "J"
	Queen Rank = "Q"
	King  Rank = "K"
	Ace   Rank = "A"
)

// Suits and Ranks define the canonical deck order: suit-major, rank-minor.
var (
	Suits = []Suit{Clubs, Diamonds, Hearts, Spades}
	Ranks = []Rank{Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King, Ace}
)

// Card is an immutable playing card. Value is fixed when the deck is built:
// face value for number cards, 10 for J/Q/K, 11 for an ace (softened to 1
// during scoring as needed).
type Card struct {
	Suit  Suit
	Rank  Rank
	Value int
}

// NewCard creates a card with its blackjack value assigned from the rank.
func NewCard(suit Suit, rank Rank) Card {
	return Card{
		Suit:  suit,
		Rank:  rank,
		Value: rankValue(rank),
	}
}

func rankValue(rank Rank) int {
	switch rank {
	case Ace:
		return 11
	case Jack, Queen, King:
		return 10
	default:
		v, _ := strconv.Atoi(string(rank))
		return v
	}
}

// IsAce reports whether the card is an ace.
func (c Card) IsAce() bool {
	return c.Rank == Ace
}

// String returns the string representation of the card.
func (c Card) String() string {
	return fmt.Sprintf("%s of %s", c.Rank, c.Suit)
}
