package entities

import "time"

// GameType identifies which game a history record belongs to.
type GameType string

const (
	GameTypeBlackjack GameType = "blackjack"
	GameTypeHeart     GameType = "heart-game"
)

// RecordResult is the outcome stored in game history.
type RecordResult string

const (
	RecordWin  RecordResult = "win"
	RecordLoss RecordResult = "loss"
	RecordTie  RecordResult = "tie"
)

// GameRecord is one append-only row of a user's game history.
type GameRecord struct {
	ID            string
	UserID        string
	GameType      GameType
	Result        RecordResult
	Score         int
	OpponentScore int
	Duration      int64 // seconds from start to settlement
	ChipsWon      int64
	ChipsLost     int64
	CreatedAt     time.Time
}

// GameStats aggregates a user's history.
type GameStats struct {
	TotalGames int
	Wins       int
	Losses     int
	Ties       int
	ChipsWon   int64
	ChipsLost  int64
}
