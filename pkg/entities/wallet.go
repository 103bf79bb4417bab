package entities

import (
	"time"
)

// Wallet represents a player's chip balance
type Wallet struct {
	UserID    string    // Owning user ID
	Balance   int64     // Current balance in chips
	UpdatedAt time.Time // When the wallet was last updated
}

// TransactionType represents the type of wallet transaction
type TransactionType string

const (
	TransactionTypeBet        TransactionType = "BET"
	TransactionTypePayout     TransactionType = "PAYOUT"
	TransactionTypeReward     TransactionType = "REWARD"
	TransactionTypeAdjustment TransactionType = "ADJUSTMENT"
)

// Transaction represents a single wallet transaction
type Transaction struct {
	ID           string          // Unique identifier
	UserID       string          // User associated with the transaction
	Amount       int64           // Amount (positive for credits, negative for debits)
	Type         TransactionType // Type of transaction
	ReferenceID  string          // Optional reference (e.g., game ID for bets)
	Description  string          // Human-readable description
	Timestamp    time.Time       // When the transaction occurred
	BalanceAfter int64           // Balance after this transaction
}
