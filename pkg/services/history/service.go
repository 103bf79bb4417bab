package history

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goldfelt/casino/pkg/entities"
	historyRepo "github.com/goldfelt/casino/pkg/repositories/history"
)

var ErrInvalidRecord = errors.New("invalid game record")

// DefaultHistoryLimit caps a history page when the caller asks for none.
const DefaultHistoryLimit = 50

// Service records finished games and serves per-user history and stats.
type Service struct {
	repo   historyRepo.Repository
	logger *zap.Logger
}

// NewService creates a history service over the given repository.
func NewService(repo historyRepo.Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// Record appends a game record, filling in ID and timestamp when absent.
func (s *Service) Record(ctx context.Context, record *entities.GameRecord) error {
	if record.UserID == "" || record.GameType == "" || record.Result == "" {
		return ErrInvalidRecord
	}

	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	if err := s.repo.SaveRecord(ctx, record); err != nil {
		return err
	}

	s.logger.Debug("game recorded",
		zap.String("user_id", record.UserID),
		zap.String("game_type", string(record.GameType)),
		zap.String("result", string(record.Result)))
	return nil
}

// UserHistory returns a user's records, newest first. gameType may be empty
// to match all games; limit <= 0 falls back to DefaultHistoryLimit.
func (s *Service) UserHistory(ctx context.Context, userID string, gameType entities.GameType, limit int) ([]*entities.GameRecord, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return s.repo.UserRecords(ctx, userID, gameType, limit)
}

// UserStats aggregates a user's full history.
func (s *Service) UserStats(ctx context.Context, userID string) (*entities.GameStats, error) {
	// High enough to cover any realistic account; history is append-only and
	// per-user, not unbounded system-wide.
	records, err := s.repo.UserRecords(ctx, userID, "", 10000)
	if err != nil {
		return nil, err
	}

	stats := &entities.GameStats{TotalGames: len(records)}
	for _, rec := range records {
		switch rec.Result {
		case entities.RecordWin:
			stats.Wins++
		case entities.RecordLoss:
			stats.Losses++
		case entities.RecordTie:
			stats.Ties++
		}
		stats.ChipsWon += rec.ChipsWon
		stats.ChipsLost += rec.ChipsLost
	}
	return stats, nil
}

// BlackjackRecord maps a concluded blackjack game onto a history record.
// It must only be called once the game has a conclusion.
func BlackjackRecord(game *entities.Game) *entities.GameRecord {
	record := &entities.GameRecord{
		UserID:        game.UserID,
		GameType:      entities.GameTypeBlackjack,
		Score:         game.PlayerHand.Score,
		OpponentScore: game.DealerHand.Score,
		Duration:      int64(time.Since(game.StartedAt).Seconds()),
	}

	switch result := game.Conclusion.Result; {
	case result == entities.ResultPush:
		record.Result = entities.RecordTie
	case result.IsWin():
		record.Result = entities.RecordWin
	default:
		record.Result = entities.RecordLoss
	}

	if payout := game.Conclusion.Payout; payout > game.Bet {
		record.ChipsWon = payout - game.Bet
	} else if payout == 0 {
		record.ChipsLost = game.Bet
	}
	return record
}
