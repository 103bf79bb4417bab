package wallet

import (
	"context"
	"errors"

	"github.com/goldfelt/casino/pkg/entities"
)

var (
	// ErrWalletNotFound is returned when no wallet exists for the user.
	ErrWalletNotFound = errors.New("wallet not found")

	// ErrInsufficientBalance is returned by UpdateBalance when applying the
	// delta would take the balance below zero.
	ErrInsufficientBalance = errors.New("insufficient balance")
)

//go:generate mockgen -source=interface.go -destination=mock/repository.go -package=mock_wallet

// Repository defines storage operations for wallets and their transactions
type Repository interface {
	// GetWallet retrieves a wallet by user ID
	GetWallet(ctx context.Context, userID string) (*entities.Wallet, error)

	// SaveWallet creates or updates a wallet
	SaveWallet(ctx context.Context, wallet *entities.Wallet) error

	// UpdateBalance atomically applies delta to a wallet's balance and
	// returns the updated wallet. Concurrent updates never lose a movement.
	// Fails with ErrInsufficientBalance if the result would be negative.
	UpdateBalance(ctx context.Context, userID string, delta int64) (*entities.Wallet, error)

	// AddTransaction records a new transaction
	AddTransaction(ctx context.Context, transaction *entities.Transaction) error

	// GetTransactions retrieves recent transactions for a user, newest first
	GetTransactions(ctx context.Context, userID string, limit int) ([]*entities.Transaction, error)

	// Close closes any resources used by the repository
	Close() error
}
