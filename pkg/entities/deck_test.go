package entities

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type DeckTestSuite struct {
	suite.Suite
}

func TestDeckSuite(t *testing.T) {
	suite.Run(t, new(DeckTestSuite))
}

func (s *DeckTestSuite) TestNewDeck() {
	deck := NewDeck()

	s.NotNil(deck, "Deck should not be nil")
	s.Len(deck.Cards, 52, "Deck should have 52 cards")

	// Verify every (suit, rank) pair appears exactly once
	seen := make(map[Card]int)
	for _, card := range deck.Cards {
		seen[Card{Suit: card.Suit, Rank: card.Rank, Value: card.Value}]++
	}
	s.Len(seen, 52, "All 52 cards should be distinct")
	for card, count := range seen {
		s.Equal(1, count, "Card should appear exactly once: %s", card)
	}

	// Canonical order is suit-major, rank-minor
	s.Equal(NewCard(Clubs, Two), deck.Cards[0])
	s.Equal(NewCard(Spades, Ace), deck.Cards[51])
}

func (s *DeckTestSuite) TestCardValues() {
	deck := NewDeck()

	for _, card := range deck.Cards {
		switch card.Rank {
		case Ace:
			s.Equal(11, card.Value, "Ace should be worth 11: %s", card)
		case Jack, Queen, King:
			s.Equal(10, card.Value, "Face card should be worth 10: %s", card)
		default:
			s.GreaterOrEqual(card.Value, 2)
			s.LessOrEqual(card.Value, 10)
		}
	}
}

func (s *DeckTestSuite) TestShuffledIsBijection() {
	template := NewDeck()
	shuffled := template.Shuffled()

	s.Len(shuffled.Cards, 52, "Shuffle should preserve length")

	counts := make(map[Card]int)
	for _, card := range shuffled.Cards {
		counts[card]++
	}
	for _, card := range template.Cards {
		counts[card]--
	}
	for card, count := range counts {
		s.Equal(0, count, "Shuffle should preserve the card multiset: %s", card)
	}
}

func (s *DeckTestSuite) TestShuffledLeavesTemplateUntouched() {
	template := NewDeck()
	before := make([]Card, len(template.Cards))
	copy(before, template.Cards)

	_ = template.Shuffled()

	s.Equal(before, template.Cards, "Template deck order should survive a shuffle")
}

func (s *DeckTestSuite) TestDrawPopsTopCard() {
	deck := NewDeck()
	top := deck.Cards[len(deck.Cards)-1]

	drawn := deck.Draw()

	s.Equal(top, drawn, "Draw should return the top card")
	s.Equal(51, deck.Remaining(), "Draw should remove one card")
}

func (s *DeckTestSuite) TestDrawFromEmptyDeckPanics() {
	deck := &Deck{}
	s.Panics(func() { deck.Draw() }, "Drawing from an empty deck should panic")
}
