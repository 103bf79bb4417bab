package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/goldfelt/casino/pkg/entities"
	"github.com/goldfelt/casino/pkg/repositories/session"
	"github.com/goldfelt/casino/pkg/services/blackjack"
	"github.com/goldfelt/casino/pkg/services/heart"
	"github.com/goldfelt/casino/pkg/services/history"
	"github.com/goldfelt/casino/pkg/services/wallet"
)

type startRequest struct {
	UserID string `json:"user_id"`
	Bet    int64  `json:"bet"`
}

type actionRequest struct {
	GameID string `json:"game_id"`
}

func (s *Server) handleStartBlackjack(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UserID == "" {
		s.writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	if req.Bet <= 0 {
		s.writeError(w, http.StatusBadRequest, "bet must be positive")
		return
	}

	ctx := r.Context()
	if err := s.wallets.Debit(ctx, req.UserID, req.Bet, entities.TransactionTypeBet, "", "Blackjack bet"); err != nil {
		if errors.Is(err, wallet.ErrInsufficientFunds) {
			s.writeError(w, http.StatusConflict, "insufficient funds")
			return
		}
		s.writeInternalError(w, err)
		return
	}

	game, err := s.blackjack.StartGame(ctx, req.UserID, req.Bet)
	if err != nil {
		// Return the stake; the game never started.
		s.refund(ctx, req.UserID, req.Bet, "", "Blackjack bet refund")
		if errors.Is(err, blackjack.ErrInvalidBet) {
			s.writeError(w, http.StatusBadRequest, "bet must be positive")
			return
		}
		s.writeInternalError(w, err)
		return
	}

	s.settle(ctx, game)
	s.writeJSON(w, http.StatusCreated, newGameView(game))
}

func (s *Server) handleHit(w http.ResponseWriter, r *http.Request) {
	s.handleAction(w, r, s.blackjack.Hit)
}

func (s *Server) handleStand(w http.ResponseWriter, r *http.Request) {
	s.handleAction(w, r, s.blackjack.Stand)
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request, action func(context.Context, string) (*entities.Game, error)) {
	var req actionRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.GameID == "" {
		s.writeError(w, http.StatusBadRequest, "game_id is required")
		return
	}

	ctx := r.Context()
	game, err := action(ctx, req.GameID)
	if err != nil {
		if errors.Is(err, blackjack.ErrInvalidState) {
			s.writeError(w, http.StatusConflict, err.Error())
			return
		}
		s.writeInternalError(w, err)
		return
	}

	s.settle(ctx, game)
	s.writeJSON(w, http.StatusOK, newGameView(game))
}

func (s *Server) handleDoubleDown(w http.ResponseWriter, r *http.Request) {
	var req actionRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.GameID == "" {
		s.writeError(w, http.StatusBadRequest, "game_id is required")
		return
	}

	ctx := r.Context()
	current, err := s.blackjack.GetGame(ctx, req.GameID)
	if err != nil {
		s.writeError(w, http.StatusNotFound, "game not found")
		return
	}

	// The doubled half of the bet leaves the wallet before the extra card is
	// drawn, mirroring the opening debit.
	extra := current.Bet
	if err := s.wallets.Debit(ctx, current.UserID, extra, entities.TransactionTypeBet, current.ID, "Blackjack double down"); err != nil {
		if errors.Is(err, wallet.ErrInsufficientFunds) {
			s.writeError(w, http.StatusConflict, "insufficient funds")
			return
		}
		s.writeInternalError(w, err)
		return
	}

	game, err := s.blackjack.DoubleDown(ctx, req.GameID)
	if err != nil {
		s.refund(ctx, current.UserID, extra, current.ID, "Blackjack double down refund")
		if errors.Is(err, blackjack.ErrInvalidState) {
			s.writeError(w, http.StatusConflict, err.Error())
			return
		}
		s.writeInternalError(w, err)
		return
	}

	s.settle(ctx, game)
	s.writeJSON(w, http.StatusOK, newGameView(game))
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	gameID := r.URL.Query().Get("id")
	if gameID == "" {
		s.writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	game, err := s.blackjack.GetGame(r.Context(), gameID)
	if err != nil {
		if errors.Is(err, session.ErrGameNotFound) {
			s.writeError(w, http.StatusNotFound, "game not found")
			return
		}
		s.writeInternalError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, newGameView(game))
}

func (s *Server) handleDeleteGame(w http.ResponseWriter, r *http.Request) {
	gameID := r.URL.Query().Get("id")
	if gameID == "" {
		s.writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	if err := s.blackjack.DeleteGame(r.Context(), gameID); err != nil {
		s.writeInternalError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		s.writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	balance, err := s.wallets.GetBalance(r.Context(), userID)
	if err != nil {
		s.writeInternalError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"user_id": userID,
		"balance": balance,
	})
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		s.writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			s.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	transactions, err := s.wallets.Transactions(r.Context(), userID, limit)
	if err != nil {
		s.writeInternalError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, transactions)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		s.writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			s.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	gameType := entities.GameType(r.URL.Query().Get("game_type"))
	records, err := s.histories.UserHistory(r.Context(), userID, gameType, limit)
	if err != nil {
		s.writeInternalError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		s.writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	stats, err := s.histories.UserStats(r.Context(), userID)
	if err != nil {
		s.writeInternalError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleHeartPuzzle(w http.ResponseWriter, r *http.Request) {
	puzzle, err := s.hearts.FetchPuzzle(r.Context())
	if err != nil {
		s.writeError(w, http.StatusBadGateway, "unable to fetch puzzle")
		return
	}
	s.writeJSON(w, http.StatusOK, puzzle)
}

type heartCheckRequest struct {
	UserID   string `json:"user_id"`
	Solution int    `json:"solution"`
	Answer   int    `json:"answer"`
	Duration int64  `json:"duration"`
}

type heartCheckResponse struct {
	Correct bool  `json:"correct"`
	Reward  int64 `json:"reward"`
}

func (s *Server) handleHeartCheck(w http.ResponseWriter, r *http.Request) {
	var req heartCheckRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UserID == "" {
		s.writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	ctx := r.Context()
	correct := s.hearts.ValidateSolution(&heart.Puzzle{Solution: req.Solution}, req.Answer)

	record := &entities.GameRecord{
		UserID:        req.UserID,
		GameType:      entities.GameTypeHeart,
		Score:         req.Answer,
		OpponentScore: req.Solution,
		Duration:      req.Duration,
	}

	resp := heartCheckResponse{Correct: correct}
	if correct {
		resp.Reward = s.hearts.Reward()
		record.Result = entities.RecordWin
		record.ChipsWon = resp.Reward
		if err := s.wallets.Credit(ctx, req.UserID, resp.Reward, entities.TransactionTypeReward, "", "Heart puzzle reward"); err != nil {
			s.writeInternalError(w, err)
			return
		}
	} else {
		record.Result = entities.RecordLoss
	}

	if err := s.histories.Record(ctx, record); err != nil {
		s.logger.Warn("failed to record heart game", zap.Error(err))
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// settle completes the caller-side obligations for a concluded game: credit
// the payout, append history, and drop the session. In-progress games pass
// through untouched.
func (s *Server) settle(ctx context.Context, game *entities.Game) {
	if !game.Concluded() {
		return
	}

	if payout := game.Conclusion.Payout; payout > 0 {
		if err := s.wallets.Credit(ctx, game.UserID, payout, entities.TransactionTypePayout, game.ID, "Blackjack payout"); err != nil {
			s.logger.Error("failed to credit payout",
				zap.String("game_id", game.ID),
				zap.Int64("payout", payout),
				zap.Error(err))
		}
	}

	if err := s.histories.Record(ctx, history.BlackjackRecord(game)); err != nil {
		s.logger.Warn("failed to record game history",
			zap.String("game_id", game.ID),
			zap.Error(err))
	}

	if err := s.blackjack.DeleteGame(ctx, game.ID); err != nil {
		s.logger.Warn("failed to delete settled game",
			zap.String("game_id", game.ID),
			zap.Error(err))
	}
}

func (s *Server) refund(ctx context.Context, userID string, amount int64, referenceID, description string) {
	if err := s.wallets.Credit(ctx, userID, amount, entities.TransactionTypeAdjustment, referenceID, description); err != nil {
		s.logger.Error("failed to refund bet",
			zap.String("user_id", userID),
			zap.Int64("amount", amount),
			zap.Error(err))
	}
}
