package wallet

import (
	"context"
	"sync"
	"time"

	"github.com/goldfelt/casino/pkg/entities"
)

// MemoryRepository implements Repository using in-memory storage
type MemoryRepository struct {
	wallets      map[string]*entities.Wallet
	transactions map[string][]*entities.Transaction
	mu           sync.RWMutex
}

// NewMemoryRepository creates a new in-memory wallet repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		wallets:      make(map[string]*entities.Wallet),
		transactions: make(map[string][]*entities.Transaction),
	}
}

// GetWallet retrieves a wallet by user ID
func (r *MemoryRepository) GetWallet(ctx context.Context, userID string) (*entities.Wallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wallet, exists := r.wallets[userID]
	if !exists {
		return nil, ErrWalletNotFound
	}

	// Return a copy to prevent concurrent modification
	walletCopy := *wallet
	return &walletCopy, nil
}

// SaveWallet creates or updates a wallet
func (r *MemoryRepository) SaveWallet(ctx context.Context, wallet *entities.Wallet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	wallet.UpdatedAt = time.Now()

	walletCopy := *wallet
	r.wallets[wallet.UserID] = &walletCopy
	return nil
}

// UpdateBalance atomically applies delta to a wallet's balance
func (r *MemoryRepository) UpdateBalance(ctx context.Context, userID string, delta int64) (*entities.Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	wallet, exists := r.wallets[userID]
	if !exists {
		return nil, ErrWalletNotFound
	}
	if wallet.Balance+delta < 0 {
		return nil, ErrInsufficientBalance
	}

	wallet.Balance += delta
	wallet.UpdatedAt = time.Now()

	walletCopy := *wallet
	return &walletCopy, nil
}

// AddTransaction records a new transaction
func (r *MemoryRepository) AddTransaction(ctx context.Context, transaction *entities.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	txCopy := *transaction
	r.transactions[transaction.UserID] = append(r.transactions[transaction.UserID], &txCopy)
	return nil
}

// GetTransactions retrieves recent transactions for a user, newest first
func (r *MemoryRepository) GetTransactions(ctx context.Context, userID string, limit int) ([]*entities.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if limit < 0 {
		limit = 0
	}

	stored := r.transactions[userID]
	result := make([]*entities.Transaction, 0, limit)
	for i := len(stored) - 1; i >= 0 && len(result) < limit; i-- {
		txCopy := *stored[i]
		result = append(result, &txCopy)
	}
	return result, nil
}

// Close is a no-op for the memory repository
func (r *MemoryRepository) Close() error {
	return nil
}
