package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goldfelt/casino/pkg/entities"
	_ "github.com/mattn/go-sqlite3"
)

const (
	createHistoryTableSQL = `
	CREATE TABLE IF NOT EXISTS game_history (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		game_type TEXT NOT NULL,
		result TEXT NOT NULL,
		score INTEGER NOT NULL,
		opponent_score INTEGER NOT NULL,
		duration INTEGER NOT NULL,
		chips_won INTEGER NOT NULL,
		chips_lost INTEGER NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`

	createHistoryIndexesSQL = `
	CREATE INDEX IF NOT EXISTS idx_game_history_user_id ON game_history(user_id);
	CREATE INDEX IF NOT EXISTS idx_game_history_created_at ON game_history(created_at DESC)
	`
)

// SQLiteRepository implements Repository using SQLite
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite history repository at dbPath
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("error creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	for _, stmt := range []string{createHistoryTableSQL, createHistoryIndexesSQL} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("error creating history schema: %w", err)
		}
	}

	return &SQLiteRepository{db: db}, nil
}

// SaveRecord appends a game record
func (r *SQLiteRepository) SaveRecord(ctx context.Context, record *entities.GameRecord) error {
	query := `
	INSERT INTO game_history (id, user_id, game_type, result, score, opponent_score, duration, chips_won, chips_lost, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		record.ID,
		record.UserID,
		string(record.GameType),
		string(record.Result),
		record.Score,
		record.OpponentScore,
		record.Duration,
		record.ChipsWon,
		record.ChipsLost,
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("error inserting game record: %w", err)
	}
	return nil
}

// UserRecords retrieves a user's records, newest first
func (r *SQLiteRepository) UserRecords(ctx context.Context, userID string, gameType entities.GameType, limit int) ([]*entities.GameRecord, error) {
	query := `
	SELECT id, user_id, game_type, result, score, opponent_score, duration, chips_won, chips_lost, created_at
	FROM game_history WHERE user_id = ?`
	args := []any{userID}

	if gameType != "" {
		query += ` AND game_type = ?`
		args = append(args, string(gameType))
	}
	query += ` ORDER BY created_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying game history: %w", err)
	}
	defer rows.Close()

	var records []*entities.GameRecord
	for rows.Next() {
		var rec entities.GameRecord
		var recGameType, recResult string
		if err := rows.Scan(
			&rec.ID,
			&rec.UserID,
			&recGameType,
			&recResult,
			&rec.Score,
			&rec.OpponentScore,
			&rec.Duration,
			&rec.ChipsWon,
			&rec.ChipsLost,
			&rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning game record: %w", err)
		}
		rec.GameType = entities.GameType(recGameType)
		rec.Result = entities.RecordResult(recResult)
		records = append(records, &rec)
	}

	return records, rows.Err()
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}
