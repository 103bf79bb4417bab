package entities

// Hand is a scored card sequence. Derived fields are rebuilt from scratch
// every time a card is added, never patched incrementally, so they cannot
// go stale against the cards.
type Hand struct {
	Cards       []Card
	Score       int
	IsBust      bool
	IsBlackjack bool
}

// ScoreCards sums card values counting every ace as 11, then downgrades aces
// to 1 one at a time while the total exceeds 21. This yields the standard
// soft/hard ace semantics. Blackjack is a two-card 21.
func ScoreCards(cards []Card) (score int, isBust, isBlackjack bool) {
	aces := 0
	for _, c := range cards {
		score += c.Value
		if c.IsAce() {
			aces++
		}
	}

	for score > 21 && aces > 0 {
		score -= 10
		aces--
	}

	return score, score > 21, len(cards) == 2 && score == 21
}

// NewHand evaluates cards into a full Hand record.
func NewHand(cards []Card) *Hand {
	score, bust, blackjack := ScoreCards(cards)
	return &Hand{
		Cards:       cards,
		Score:       score,
		IsBust:      bust,
		IsBlackjack: blackjack,
	}
}
