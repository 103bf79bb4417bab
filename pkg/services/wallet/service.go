package wallet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goldfelt/casino/pkg/entities"
	walletRepo "github.com/goldfelt/casino/pkg/repositories/wallet"
)

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidAmount     = errors.New("amount must be positive")
)

const (
	// DefaultStartingBalance is granted to a wallet created on first use.
	DefaultStartingBalance = 1000

	// DefaultTransactionLimit caps a transaction page when the caller asks
	// for none.
	DefaultTransactionLimit = 50
)

// Service is the balance ledger: it owns every chip movement and records a
// transaction row for each one. Game logic never touches balances directly;
// the request layer debits bets and credits payouts through this service.
type Service struct {
	repo            walletRepo.Repository
	logger          *zap.Logger
	startingBalance int64
}

// NewService creates a wallet service over the given repository.
func NewService(repo walletRepo.Repository, logger *zap.Logger, startingBalance int64) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if startingBalance <= 0 {
		startingBalance = DefaultStartingBalance
	}
	return &Service{
		repo:            repo,
		logger:          logger,
		startingBalance: startingBalance,
	}
}

// GetOrCreateWallet retrieves a wallet, creating one with the starting
// balance if it doesn't exist. The second return reports creation.
func (s *Service) GetOrCreateWallet(ctx context.Context, userID string) (*entities.Wallet, bool, error) {
	wallet, err := s.repo.GetWallet(ctx, userID)
	if err == nil {
		return wallet, false, nil
	}
	if !errors.Is(err, walletRepo.ErrWalletNotFound) {
		return nil, false, err
	}

	newWallet := &entities.Wallet{
		UserID:    userID,
		Balance:   s.startingBalance,
		UpdatedAt: time.Now(),
	}
	if err := s.repo.SaveWallet(ctx, newWallet); err != nil {
		return nil, false, err
	}

	s.logger.Info("wallet created",
		zap.String("user_id", userID),
		zap.Int64("balance", newWallet.Balance))
	return newWallet, true, nil
}

// GetBalance returns the current balance, creating the wallet if needed.
func (s *Service) GetBalance(ctx context.Context, userID string) (int64, error) {
	wallet, _, err := s.GetOrCreateWallet(ctx, userID)
	if err != nil {
		return 0, err
	}
	return wallet.Balance, nil
}

// Credit adds chips to a user's wallet and records the transaction. The
// balance change is a single atomic delta in the repository, so concurrent
// movements for the same user never lose a credit.
func (s *Service) Credit(ctx context.Context, userID string, amount int64, txType entities.TransactionType, referenceID, description string) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	if _, _, err := s.GetOrCreateWallet(ctx, userID); err != nil {
		return err
	}

	wallet, err := s.repo.UpdateBalance(ctx, userID, amount)
	if err != nil {
		return err
	}

	return s.record(ctx, wallet, amount, txType, referenceID, description)
}

// Debit removes chips from a user's wallet if the balance covers the amount.
// The funds check and the withdrawal are one atomic repository operation.
func (s *Service) Debit(ctx context.Context, userID string, amount int64, txType entities.TransactionType, referenceID, description string) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	current, _, err := s.GetOrCreateWallet(ctx, userID)
	if err != nil {
		return err
	}

	wallet, err := s.repo.UpdateBalance(ctx, userID, -amount)
	if err != nil {
		if errors.Is(err, walletRepo.ErrInsufficientBalance) {
			return fmt.Errorf("%w: balance %d, needed %d", ErrInsufficientFunds, current.Balance, amount)
		}
		return err
	}

	return s.record(ctx, wallet, -amount, txType, referenceID, description)
}

// SetBalance overwrites a user's balance, recording the delta as an
// adjustment.
func (s *Service) SetBalance(ctx context.Context, userID string, balance int64, description string) error {
	if balance < 0 {
		return ErrInvalidAmount
	}

	wallet, _, err := s.GetOrCreateWallet(ctx, userID)
	if err != nil {
		return err
	}

	delta := balance - wallet.Balance
	wallet.Balance = balance
	if err := s.repo.SaveWallet(ctx, wallet); err != nil {
		return err
	}

	return s.record(ctx, wallet, delta, entities.TransactionTypeAdjustment, "", description)
}

// Transactions returns a user's most recent transactions. limit <= 0 falls
// back to DefaultTransactionLimit.
func (s *Service) Transactions(ctx context.Context, userID string, limit int) ([]*entities.Transaction, error) {
	if limit <= 0 {
		limit = DefaultTransactionLimit
	}
	return s.repo.GetTransactions(ctx, userID, limit)
}

func (s *Service) record(ctx context.Context, wallet *entities.Wallet, amount int64, txType entities.TransactionType, referenceID, description string) error {
	transaction := &entities.Transaction{
		ID:           uuid.New().String(),
		UserID:       wallet.UserID,
		Amount:       amount,
		Type:         txType,
		ReferenceID:  referenceID,
		Description:  description,
		Timestamp:    time.Now(),
		BalanceAfter: wallet.Balance,
	}

	if err := s.repo.AddTransaction(ctx, transaction); err != nil {
		return err
	}

	s.logger.Debug("transaction recorded",
		zap.String("user_id", wallet.UserID),
		zap.Int64("amount", amount),
		zap.String("type", string(txType)),
		zap.Int64("balance_after", wallet.Balance))
	return nil
}
