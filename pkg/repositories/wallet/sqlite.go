package wallet

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goldfelt/casino/pkg/entities"
	_ "github.com/mattn/go-sqlite3"
)

// SQLite table schemas
const (
	createWalletsTableSQL = `
	CREATE TABLE IF NOT EXISTS wallets (
		user_id TEXT PRIMARY KEY,
		balance INTEGER NOT NULL DEFAULT 0,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`

	createTransactionsTableSQL = `
	CREATE TABLE IF NOT EXISTS transactions (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		amount INTEGER NOT NULL,
		type TEXT NOT NULL,
		reference_id TEXT,
		description TEXT,
		timestamp TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		balance_after INTEGER NOT NULL,
		FOREIGN KEY (user_id) REFERENCES wallets(user_id)
	)`

	createTransactionIndexesSQL = `
	CREATE INDEX IF NOT EXISTS idx_transactions_user_id ON transactions(user_id);
	CREATE INDEX IF NOT EXISTS idx_transactions_timestamp ON transactions(timestamp DESC)
	`
)

// SQLiteRepository implements Repository using SQLite
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite repository at dbPath
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("error creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	for _, stmt := range []string{createWalletsTableSQL, createTransactionsTableSQL, createTransactionIndexesSQL} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("error creating wallet schema: %w", err)
		}
	}

	return &SQLiteRepository{db: db}, nil
}

// GetWallet retrieves a wallet by user ID
func (r *SQLiteRepository) GetWallet(ctx context.Context, userID string) (*entities.Wallet, error) {
	query := `SELECT user_id, balance, updated_at FROM wallets WHERE user_id = ?`

	var wallet entities.Wallet
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&wallet.UserID,
		&wallet.Balance,
		&wallet.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrWalletNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error querying wallet: %w", err)
	}

	return &wallet, nil
}

// SaveWallet creates or updates a wallet
func (r *SQLiteRepository) SaveWallet(ctx context.Context, wallet *entities.Wallet) error {
	wallet.UpdatedAt = time.Now()

	query := `
	INSERT INTO wallets (user_id, balance, updated_at) VALUES (?, ?, ?)
	ON CONFLICT(user_id) DO UPDATE SET balance = excluded.balance, updated_at = excluded.updated_at`

	if _, err := r.db.ExecContext(ctx, query, wallet.UserID, wallet.Balance, wallet.UpdatedAt); err != nil {
		return fmt.Errorf("error saving wallet: %w", err)
	}
	return nil
}

// UpdateBalance atomically applies delta to a wallet's balance. The guard and
// the update happen in one statement, so concurrent movements for the same
// user serialize inside SQLite instead of racing a read-modify-write.
func (r *SQLiteRepository) UpdateBalance(ctx context.Context, userID string, delta int64) (*entities.Wallet, error) {
	now := time.Now()

	query := `
	UPDATE wallets SET balance = balance + ?, updated_at = ?
	WHERE user_id = ? AND balance + ? >= 0
	RETURNING balance`

	var balance int64
	err := r.db.QueryRowContext(ctx, query, delta, now, userID, delta).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		// Either no wallet, or the delta would overdraw it.
		if _, getErr := r.GetWallet(ctx, userID); getErr != nil {
			return nil, getErr
		}
		return nil, ErrInsufficientBalance
	}
	if err != nil {
		return nil, fmt.Errorf("error updating balance: %w", err)
	}

	return &entities.Wallet{UserID: userID, Balance: balance, UpdatedAt: now}, nil
}

// AddTransaction records a new transaction
func (r *SQLiteRepository) AddTransaction(ctx context.Context, transaction *entities.Transaction) error {
	query := `
	INSERT INTO transactions (id, user_id, amount, type, reference_id, description, timestamp, balance_after)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		transaction.ID,
		transaction.UserID,
		transaction.Amount,
		string(transaction.Type),
		transaction.ReferenceID,
		transaction.Description,
		transaction.Timestamp,
		transaction.BalanceAfter,
	)
	if err != nil {
		return fmt.Errorf("error inserting transaction: %w", err)
	}
	return nil
}

// GetTransactions retrieves recent transactions for a user, newest first
func (r *SQLiteRepository) GetTransactions(ctx context.Context, userID string, limit int) ([]*entities.Transaction, error) {
	query := `
	SELECT id, user_id, amount, type, reference_id, description, timestamp, balance_after
	FROM transactions WHERE user_id = ? ORDER BY timestamp DESC LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*entities.Transaction
	for rows.Next() {
		var tx entities.Transaction
		var txType string
		if err := rows.Scan(
			&tx.ID,
			&tx.UserID,
			&tx.Amount,
			&txType,
			&tx.ReferenceID,
			&tx.Description,
			&tx.Timestamp,
			&tx.BalanceAfter,
		); err != nil {
			return nil, fmt.Errorf("error scanning transaction: %w", err)
		}
		tx.Type = entities.TransactionType(txType)
		transactions = append(transactions, &tx)
	}

	return transactions, rows.Err()
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}
