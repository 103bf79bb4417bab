package session

import (
	"context"
	"errors"

	"github.com/goldfelt/casino/pkg/entities"
)

// ErrGameNotFound is returned when no live game exists for the given ID.
var ErrGameNotFound = errors.New("game not found")

// Store holds live games for the duration of a hand. It is the single source
// of truth for in-flight game state; nothing here survives a restart and no
// automatic eviction takes place, so callers delete settled games themselves.
type Store interface {
	// Put inserts or replaces the game keyed by its ID
	Put(ctx context.Context, game *entities.Game) error

	// Get returns the live game or ErrGameNotFound
	Get(ctx context.Context, gameID string) (*entities.Game, error)

	// Delete removes the game; deleting an unknown ID is a no-op
	Delete(ctx context.Context, gameID string) error
}
