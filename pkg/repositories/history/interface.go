package history

import (
	"context"

	"github.com/goldfelt/casino/pkg/entities"
)

// Repository defines storage operations for game history. Records are
// append-only; nothing updates or deletes them.
type Repository interface {
	// SaveRecord appends a game record
	SaveRecord(ctx context.Context, record *entities.GameRecord) error

	// UserRecords retrieves a user's records, newest first. An empty
	// gameType matches all games.
	UserRecords(ctx context.Context, userID string, gameType entities.GameType, limit int) ([]*entities.GameRecord, error)

	// Close closes any resources used by the repository
	Close() error
}
