package history

import (
	"time"

	"github.com/goldfelt/casino/pkg/entities"
)

// ESGameRecord represents a game history document in Elasticsearch
type ESGameRecord struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	GameType      string    `json:"game_type"`
	Result        string    `json:"result"`
	Score         int       `json:"score"`
	OpponentScore int       `json:"opponent_score"`
	Duration      int64     `json:"duration"`
	ChipsWon      int64     `json:"chips_won"`
	ChipsLost     int64     `json:"chips_lost"`
	CreatedAt     time.Time `json:"created_at"`
}

func toESRecord(record *entities.GameRecord) ESGameRecord {
	return ESGameRecord{
		ID:            record.ID,
		UserID:        record.UserID,
		GameType:      string(record.GameType),
		Result:        string(record.Result),
		Score:         record.Score,
		OpponentScore: record.OpponentScore,
		Duration:      record.Duration,
		ChipsWon:      record.ChipsWon,
		ChipsLost:     record.ChipsLost,
		CreatedAt:     record.CreatedAt,
	}
}
