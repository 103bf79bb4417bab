package blackjack

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/qmuntal/stateless"
	"go.uber.org/zap"

	"github.com/goldfelt/casino/pkg/entities"
	"github.com/goldfelt/casino/pkg/repositories/session"
)

var (
	// ErrInvalidState covers every caller protocol violation: acting on an
	// unknown game, acting out of turn order, or doubling down with more
	// than two cards. There is nothing to retry; the caller misused the API.
	ErrInvalidState = errors.New("invalid action for current game state")

	// ErrInvalidBet rejects non-positive bets at game start.
	ErrInvalidBet = errors.New("bet must be positive")
)

// dealerStandScore is the total at which the dealer stops drawing. The house
// rule here makes no soft-17 distinction; only the best score is checked.
const dealerStandScore = 17

// Service drives blackjack hands from deal to settlement. Game state lives
// in the injected session store; the service adds per-game locking so that
// actions against one game are observed and applied in program order. The
// service itself performs no I/O: balances and history are the caller's job
// once it sees a concluded game.
type Service struct {
	store   session.Store
	ids     IDGenerator
	logger  *zap.Logger
	newDeck func() *entities.Deck

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// Option customizes a Service.
type Option func(*Service)

// WithDeckSource overrides the deck factory. Tests use it to deal known
// cards; the default draws a freshly shuffled 52-card deck per game.
func WithDeckSource(fn func() *entities.Deck) Option {
	return func(s *Service) { s.newDeck = fn }
}

// WithIDGenerator overrides the game ID generator.
func WithIDGenerator(ids IDGenerator) Option {
	return func(s *Service) { s.ids = ids }
}

// NewService creates a blackjack service over the given session store.
func NewService(store session.Store, logger *zap.Logger, opts ...Option) *Service {
	if store == nil {
		panic("blackjack: store cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Service{
		store:   store,
		ids:     UUIDGenerator{},
		logger:  logger,
		newDeck: entities.NewShuffledDeck,
		locks:   make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StartGame shuffles a fresh deck, deals two cards to the player and two to
// the dealer, and either settles immediately (opening blackjack) or hands
// the turn to the player. The bet is the caller's to debit before calling.
func (s *Service) StartGame(ctx context.Context, userID string, bet int64) (*entities.Game, error) {
	if bet <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBet, bet)
	}

	deck := s.newDeck()
	playerCards := []entities.Card{deck.Draw(), deck.Draw()}
	dealerCards := []entities.Card{deck.Draw(), deck.Draw()}

	game := &entities.Game{
		ID:         s.ids.NewGameID(userID),
		UserID:     userID,
		PlayerHand: entities.NewHand(playerCards),
		DealerHand: entities.NewHand(dealerCards),
		Deck:       deck,
		Bet:        bet,
		State:      entities.StateDealing,
		StartedAt:  time.Now(),
	}

	m := newTurnMachine(game)
	switch {
	case game.PlayerHand.IsBlackjack && game.DealerHand.IsBlackjack:
		if err := m.FireCtx(ctx, triggerResolve); err != nil {
			return nil, err
		}
		game.Conclusion = &entities.Conclusion{Result: entities.ResultPush, Payout: bet}
	case game.PlayerHand.IsBlackjack:
		if err := m.FireCtx(ctx, triggerResolve); err != nil {
			return nil, err
		}
		// blackjack pays 3:2, floored
		game.Conclusion = &entities.Conclusion{Result: entities.ResultPlayerBlackjack, Payout: bet * 5 / 2}
	default:
		if err := m.FireCtx(ctx, triggerDeal); err != nil {
			return nil, err
		}
	}

	if err := s.store.Put(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to store game: %w", err)
	}

	s.logger.Debug("game started",
		zap.String("game_id", game.ID),
		zap.String("user_id", userID),
		zap.Int64("bet", bet),
		zap.String("state", string(game.State)))
	return game, nil
}

// Hit draws one card to the player's hand. A bust settles the game for the
// dealer; otherwise the player keeps the turn.
func (s *Service) Hit(ctx context.Context, gameID string) (*entities.Game, error) {
	unlock := s.lockGame(gameID)
	defer unlock()

	game, err := s.loadGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	m := newTurnMachine(game)
	if err := m.FireCtx(ctx, triggerHit); err != nil {
		return nil, fmt.Errorf("%w: hit in %s", ErrInvalidState, game.State)
	}

	game.PlayerHand = entities.NewHand(append(game.PlayerHand.Cards, game.Deck.Draw()))
	if game.PlayerHand.IsBust {
		if err := m.FireCtx(ctx, triggerBust); err != nil {
			return nil, err
		}
		game.Conclusion = &entities.Conclusion{Result: entities.ResultDealerWin, Payout: 0}
		s.logger.Debug("player bust",
			zap.String("game_id", game.ID),
			zap.Int("score", game.PlayerHand.Score))
	}

	if err := s.store.Put(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to store game: %w", err)
	}
	return game, nil
}

// Stand ends the player's turn: the dealer draws to 17 or better and the
// hands are compared.
func (s *Service) Stand(ctx context.Context, gameID string) (*entities.Game, error) {
	unlock := s.lockGame(gameID)
	defer unlock()

	game, err := s.loadGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	m := newTurnMachine(game)
	if err := m.FireCtx(ctx, triggerStand); err != nil {
		return nil, fmt.Errorf("%w: stand in %s", ErrInvalidState, game.State)
	}

	if err := s.settleAgainstDealer(ctx, m, game); err != nil {
		return nil, err
	}

	if err := s.store.Put(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to store game: %w", err)
	}
	return game, nil
}

// DoubleDown doubles the bet on a two-card hand in exchange for exactly one
// more card, then forces resolution. The caller debits the extra bet.
func (s *Service) DoubleDown(ctx context.Context, gameID string) (*entities.Game, error) {
	unlock := s.lockGame(gameID)
	defer unlock()

	game, err := s.loadGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	m := newTurnMachine(game)
	if err := m.FireCtx(ctx, triggerDoubleDown); err != nil {
		return nil, fmt.Errorf("%w: double down needs player turn and a two-card hand", ErrInvalidState)
	}

	game.Bet *= 2
	game.PlayerHand = entities.NewHand(append(game.PlayerHand.Cards, game.Deck.Draw()))

	if game.PlayerHand.IsBust {
		if err := m.FireCtx(ctx, triggerResolve); err != nil {
			return nil, err
		}
		game.Conclusion = &entities.Conclusion{Result: entities.ResultDealerWin, Payout: 0}
	} else if err := s.settleAgainstDealer(ctx, m, game); err != nil {
		return nil, err
	}

	if err := s.store.Put(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to store game: %w", err)
	}
	return game, nil
}

// GetGame returns the live game or session.ErrGameNotFound.
func (s *Service) GetGame(ctx context.Context, gameID string) (*entities.Game, error) {
	return s.store.Get(ctx, gameID)
}

// DeleteGame removes a game from the session store.
func (s *Service) DeleteGame(ctx context.Context, gameID string) error {
	if err := s.store.Delete(ctx, gameID); err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.locks, gameID)
	s.mu.Unlock()
	return nil
}

// settleAgainstDealer plays the dealer's forced draws and settles the hand.
// The game must be in dealer-turn with a non-busted player hand.
func (s *Service) settleAgainstDealer(ctx context.Context, m *stateless.StateMachine, game *entities.Game) error {
	for game.DealerHand.Score < dealerStandScore {
		game.DealerHand = entities.NewHand(append(game.DealerHand.Cards, game.Deck.Draw()))
	}

	if err := m.FireCtx(ctx, triggerResolve); err != nil {
		return err
	}

	switch {
	case game.DealerHand.IsBust:
		game.Conclusion = &entities.Conclusion{Result: entities.ResultPlayerWin, Payout: game.Bet * 2}
	case game.PlayerHand.Score > game.DealerHand.Score:
		game.Conclusion = &entities.Conclusion{Result: entities.ResultPlayerWin, Payout: game.Bet * 2}
	case game.PlayerHand.Score < game.DealerHand.Score:
		game.Conclusion = &entities.Conclusion{Result: entities.ResultDealerWin, Payout: 0}
	default:
		game.Conclusion = &entities.Conclusion{Result: entities.ResultPush, Payout: game.Bet}
	}

	s.logger.Debug("game settled",
		zap.String("game_id", game.ID),
		zap.String("result", game.Conclusion.Result.String()),
		zap.Int64("payout", game.Conclusion.Payout),
		zap.Int("player_score", game.PlayerHand.Score),
		zap.Int("dealer_score", game.DealerHand.Score))
	return nil
}

// loadGame fetches a game, folding an unknown ID into ErrInvalidState: per
// the protocol, acting on a missing game is caller misuse, not a lookup API.
func (s *Service) loadGame(ctx context.Context, gameID string) (*entities.Game, error) {
	game, err := s.store.Get(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("%w: unknown game %q", ErrInvalidState, gameID)
	}
	return game, nil
}

// lockGame takes the per-game mutex, creating it on first use. Operations on
// distinct games never contend.
func (s *Service) lockGame(gameID string) func() {
	s.mu.Lock()
	l, ok := s.locks[gameID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[gameID] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}
