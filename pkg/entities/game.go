package entities

import "time"

// GameState tracks where a blackjack hand is in its lifecycle. Betting
// happens caller-side before a game record exists; dealing is resolved
// during creation; game-over is terminal.
type GameState string

const (
	StateDealing    GameState = "DEALING"
	StatePlayerTurn GameState = "PLAYER_TURN"
	StateDealerTurn GameState = "DEALER_TURN"
	StateGameOver   GameState = "GAME_OVER"
)

// GameResult is the terminal outcome of a hand.
type GameResult string

const (
	ResultPlayerWin       GameResult = "PLAYER_WIN"
	ResultDealerWin       GameResult = "DEALER_WIN"
	ResultPush            GameResult = "PUSH"
	ResultPlayerBlackjack GameResult = "PLAYER_BLACKJACK"
)

// IsWin returns true if this result pays the player.
func (r GameResult) IsWin() bool {
	return r == ResultPlayerWin || r == ResultPlayerBlackjack
}

// String returns the string representation of the result.
func (r GameResult) String() string {
	return string(r)
}

// Conclusion carries the result and payout of a settled hand. A Game holds
// nil until its state reaches StateGameOver, so in-progress games have no
// result or payout to misread.
type Conclusion struct {
	Result GameResult
	Payout int64
}

// Game is the aggregate root for one blackjack hand. It is owned by the
// session store, keyed by ID, and mutated only by the blackjack service.
type Game struct {
	ID         string
	UserID     string
	PlayerHand *Hand
	DealerHand *Hand
	Deck       *Deck
	Bet        int64
	State      GameState
	Conclusion *Conclusion
	StartedAt  time.Time
}

// Concluded reports whether the hand has been settled.
func (g *Game) Concluded() bool {
	return g.State == StateGameOver
}
