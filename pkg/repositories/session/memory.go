package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/goldfelt/casino/pkg/entities"
)

// MemoryStore implements Store with a mutex-guarded map. Tests instantiate
// isolated stores; nothing is shared at package level.
type MemoryStore struct {
	mu    sync.RWMutex
	games map[string]*entities.Game
}

// NewMemoryStore creates an empty in-memory session store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		games: make(map[string]*entities.Game),
	}
}

// Put inserts or replaces a game keyed by its ID
func (s *MemoryStore) Put(ctx context.Context, game *entities.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.games[game.ID] = game
	return nil
}

// Get returns the live game or ErrGameNotFound
func (s *MemoryStore) Get(ctx context.Context, gameID string) (*entities.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	game, exists := s.games[gameID]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	return game, nil
}

// Delete removes a game from the store
func (s *MemoryStore) Delete(ctx context.Context, gameID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.games, gameID)
	return nil
}

// Len returns the number of live games
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.games)
}
