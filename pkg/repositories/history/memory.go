package history

import (
	"context"
	"sync"

	"github.com/goldfelt/casino/pkg/entities"
)

// MemoryRepository implements Repository with in-memory storage
type MemoryRepository struct {
	mu sync.RWMutex
	// Map of userID to records, oldest first
	records map[string][]*entities.GameRecord
}

// NewMemoryRepository creates a new in-memory history repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		records: make(map[string][]*entities.GameRecord),
	}
}

// SaveRecord appends a game record
func (r *MemoryRepository) SaveRecord(ctx context.Context, record *entities.GameRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	recordCopy := *record
	r.records[record.UserID] = append(r.records[record.UserID], &recordCopy)
	return nil
}

// UserRecords retrieves a user's records, newest first
func (r *MemoryRepository) UserRecords(ctx context.Context, userID string, gameType entities.GameType, limit int) ([]*entities.GameRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if limit < 0 {
		limit = 0
	}

	stored := r.records[userID]
	result := make([]*entities.GameRecord, 0, limit)
	for i := len(stored) - 1; i >= 0 && len(result) < limit; i-- {
		if gameType != "" && stored[i].GameType != gameType {
			continue
		}
		recordCopy := *stored[i]
		result = append(result, &recordCopy)
	}
	return result, nil
}

// Close is a no-op for the memory repository
func (r *MemoryRepository) Close() error {
	return nil
}
