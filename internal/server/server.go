package server

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/goldfelt/casino/pkg/services/blackjack"
	"github.com/goldfelt/casino/pkg/services/heart"
	"github.com/goldfelt/casino/pkg/services/history"
	"github.com/goldfelt/casino/pkg/services/wallet"
)

// Server is the HTTP face of the casino. It is the "caller" the game core
// expects: it debits bets before starting or doubling, credits payouts, and
// appends the history record once a game concludes. The services never call
// each other.
type Server struct {
	blackjack *blackjack.Service
	wallets   *wallet.Service
	histories *history.Service
	hearts    *heart.Service
	logger    *zap.Logger
	http      *http.Server
}

// New wires the services into an HTTP server listening on addr.
func New(addr string, bj *blackjack.Service, wallets *wallet.Service, histories *history.Service, hearts *heart.Service, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		blackjack: bj,
		wallets:   wallets,
		histories: histories,
		hearts:    hearts,
		logger:    logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/blackjack/start", s.handleStartBlackjack)
	mux.HandleFunc("POST /api/blackjack/hit", s.handleHit)
	mux.HandleFunc("POST /api/blackjack/stand", s.handleStand)
	mux.HandleFunc("POST /api/blackjack/double", s.handleDoubleDown)
	mux.HandleFunc("GET /api/blackjack/game", s.handleGetGame)
	mux.HandleFunc("DELETE /api/blackjack/game", s.handleDeleteGame)
	mux.HandleFunc("GET /api/wallet/balance", s.handleBalance)
	mux.HandleFunc("GET /api/wallet/transactions", s.handleTransactions)
	mux.HandleFunc("GET /api/history", s.handleHistory)
	mux.HandleFunc("GET /api/history/stats", s.handleStats)
	mux.HandleFunc("GET /api/heart/puzzle", s.handleHeartPuzzle)
	mux.HandleFunc("POST /api/heart/check", s.handleHeartCheck)

	s.http = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler exposes the route table; tests mount it on httptest servers.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Start blocks serving HTTP until Shutdown or a listener error.
func (s *Server) Start() error {
	s.logger.Info("http server listening", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
