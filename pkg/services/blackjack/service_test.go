package blackjack

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goldfelt/casino/pkg/entities"
	"github.com/goldfelt/casino/pkg/repositories/session"
)

// riggedDeck yields draws in the given order. Draw pops the top (last)
// card, so the first draw goes at the end of the slice.
func riggedDeck(draws ...entities.Card) *entities.Deck {
	cards := make([]entities.Card, len(draws))
	for i, c := range draws {
		cards[len(draws)-1-i] = c
	}
	return &entities.Deck{Cards: cards}
}

func card(rank entities.Rank) entities.Card {
	return entities.NewCard(entities.Spades, rank)
}

// seqIDs mints predictable game IDs for assertions.
type seqIDs struct {
	n int
}

func (g *seqIDs) NewGameID(userID string) string {
	g.n++
	return fmt.Sprintf("%s-%d", userID, g.n)
}

// newTestService deals the given draws: two to the player, two to the
// dealer, then in order as the hand plays out.
func newTestService(draws ...entities.Card) *Service {
	return NewService(session.NewMemoryStore(), nil,
		WithDeckSource(func() *entities.Deck { return riggedDeck(draws...) }),
		WithIDGenerator(&seqIDs{}))
}

func TestStartGameEntersPlayerTurn(t *testing.T) {
	ctx := context.Background()
	// player 10+9, dealer 10+8: no blackjacks
	svc := newTestService(card(entities.Ten), card(entities.Nine), card(entities.Ten), card(entities.Eight))

	game, err := svc.StartGame(ctx, "user1", 10)
	require.NoError(t, err)

	assert.Equal(t, "user1-1", game.ID)
	assert.Equal(t, entities.StatePlayerTurn, game.State)
	assert.Nil(t, game.Conclusion, "In-progress game should have no conclusion")
	assert.Equal(t, 19, game.PlayerHand.Score)
	assert.Equal(t, 18, game.DealerHand.Score)
	assert.Equal(t, int64(10), game.Bet)
}

func TestStartGamePlayerBlackjack(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(card(entities.Ace), card(entities.King), card(entities.Five), card(entities.Nine))

	game, err := svc.StartGame(ctx, "user1", 10)
	require.NoError(t, err)

	assert.Equal(t, entities.StateGameOver, game.State)
	require.NotNil(t, game.Conclusion)
	assert.Equal(t, entities.ResultPlayerBlackjack, game.Conclusion.Result)
	assert.Equal(t, int64(25), game.Conclusion.Payout, "Blackjack pays floor(bet*2.5)")
}

func TestStartGamePlayerBlackjackPayoutFloors(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(card(entities.Ace), card(entities.King), card(entities.Five), card(entities.Nine))

	game, err := svc.StartGame(ctx, "user1", 15)
	require.NoError(t, err)

	require.NotNil(t, game.Conclusion)
	assert.Equal(t, int64(37), game.Conclusion.Payout, "15*2.5=37.5 floors to 37")
}

func TestStartGameBothBlackjackIsPush(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(card(entities.Ace), card(entities.King), card(entities.Ace), card(entities.Queen))

	game, err := svc.StartGame(ctx, "user1", 10)
	require.NoError(t, err)

	assert.Equal(t, entities.StateGameOver, game.State)
	require.NotNil(t, game.Conclusion)
	assert.Equal(t, entities.ResultPush, game.Conclusion.Result)
	assert.Equal(t, int64(10), game.Conclusion.Payout, "Push returns the stake")
}

func TestStartGameDealerBlackjackAloneDoesNotResolve(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(card(entities.Ten), card(entities.Nine), card(entities.Ace), card(entities.King))

	game, err := svc.StartGame(ctx, "user1", 10)
	require.NoError(t, err)

	// The dealer's blackjack only surfaces at showdown
	assert.Equal(t, entities.StatePlayerTurn, game.State)
	assert.Nil(t, game.Conclusion)
}

func TestStartGameRejectsNonPositiveBet(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	for _, bet := range []int64{0, -5} {
		_, err := svc.StartGame(ctx, "user1", bet)
		assert.ErrorIs(t, err, ErrInvalidBet)
	}
}

func TestHitKeepsTurnWhileUnderTwentyOne(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(
		card(entities.Ten), card(entities.Six), // player 16
		card(entities.Ten), card(entities.Seven), // dealer 17
		card(entities.Two), // hit -> 18
	)

	game, err := svc.StartGame(ctx, "user1", 10)
	require.NoError(t, err)

	game, err = svc.Hit(ctx, game.ID)
	require.NoError(t, err)

	assert.Equal(t, entities.StatePlayerTurn, game.State)
	assert.Equal(t, 18, game.PlayerHand.Score)
	assert.Len(t, game.PlayerHand.Cards, 3)
	assert.Nil(t, game.Conclusion)
}

func TestHitBustSettlesForDealer(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(
		card(entities.Ten), card(entities.Six), // player 16
		card(entities.Ten), card(entities.Seven), // dealer 17
		card(entities.King), // hit -> 26, bust
	)

	game, err := svc.StartGame(ctx, "user1", 10)
	require.NoError(t, err)

	game, err = svc.Hit(ctx, game.ID)
	require.NoError(t, err)

	assert.Equal(t, entities.StateGameOver, game.State)
	assert.True(t, game.PlayerHand.IsBust)
	require.NotNil(t, game.Conclusion)
	assert.Equal(t, entities.ResultDealerWin, game.Conclusion.Result)
	assert.Equal(t, int64(0), game.Conclusion.Payout)

	// The settled game rejects any further action
	_, err = svc.Hit(ctx, game.ID)
	assert.ErrorIs(t, err, ErrInvalidState)
	_, err = svc.Stand(ctx, game.ID)
	assert.ErrorIs(t, err, ErrInvalidState)
	_, err = svc.DoubleDown(ctx, game.ID)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestStandDealerDrawsToSeventeen(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(
		card(entities.Ten), card(entities.Nine), // player 19
		card(entities.Ten), card(entities.Six), // dealer 16, must draw
		card(entities.Ace), // dealer -> 17, stands
	)

	game, err := svc.StartGame(ctx, "user1", 10)
	require.NoError(t, err)

	game, err = svc.Stand(ctx, game.ID)
	require.NoError(t, err)

	assert.Equal(t, entities.StateGameOver, game.State)
	assert.Equal(t, 17, game.DealerHand.Score)
	require.NotNil(t, game.Conclusion)
	assert.Equal(t, entities.ResultPlayerWin, game.Conclusion.Result)
	assert.Equal(t, int64(20), game.Conclusion.Payout, "Win pays bet*2")
}

func TestStandDealerBust(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(
		card(entities.Ten), card(entities.Six), // player 16
		card(entities.Ten), card(entities.Six), // dealer 16, must draw
		card(entities.King), // dealer -> 26, bust
	)

	game, err := svc.StartGame(ctx, "user1", 10)
	require.NoError(t, err)

	game, err = svc.Stand(ctx, game.ID)
	require.NoError(t, err)

	assert.True(t, game.DealerHand.IsBust)
	require.NotNil(t, game.Conclusion)
	assert.Equal(t, entities.ResultPlayerWin, game.Conclusion.Result)
	assert.Equal(t, int64(20), game.Conclusion.Payout)
}

func TestStandDealerWinsOnHigherScore(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(
		card(entities.Ten), card(entities.Eight), // player 18
		card(entities.Ten), card(entities.Nine), // dealer 19, stands
	)

	game, err := svc.StartGame(ctx, "user1", 10)
	require.NoError(t, err)

	game, err = svc.Stand(ctx, game.ID)
	require.NoError(t, err)

	require.NotNil(t, game.Conclusion)
	assert.Equal(t, entities.ResultDealerWin, game.Conclusion.Result)
	assert.Equal(t, int64(0), game.Conclusion.Payout)
}

func TestStandEqualScoresPush(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(
		card(entities.Ten), card(entities.Queen), // player 20
		card(entities.Jack), card(entities.King), // dealer 20, stands
	)

	game, err := svc.StartGame(ctx, "user1", 10)
	require.NoError(t, err)

	game, err = svc.Stand(ctx, game.ID)
	require.NoError(t, err)

	require.NotNil(t, game.Conclusion)
	assert.Equal(t, entities.ResultPush, game.Conclusion.Result)
	assert.Equal(t, int64(10), game.Conclusion.Payout, "Push returns the stake")
}

func TestDoubleDownDrawsOneCardAndResolves(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(
		card(entities.Five), card(entities.Six), // player 11
		card(entities.Ten), card(entities.Seven), // dealer 17, stands
		card(entities.Ten), // double down -> 21
	)

	game, err := svc.StartGame(ctx, "user1", 10)
	require.NoError(t, err)

	game, err = svc.DoubleDown(ctx, game.ID)
	require.NoError(t, err)

	assert.Equal(t, entities.StateGameOver, game.State)
	assert.Equal(t, int64(20), game.Bet, "Double down doubles the bet")
	assert.Len(t, game.PlayerHand.Cards, 3, "Double down draws exactly one card")
	require.NotNil(t, game.Conclusion)
	assert.Equal(t, entities.ResultPlayerWin, game.Conclusion.Result)
	assert.Equal(t, int64(40), game.Conclusion.Payout, "Payout uses the doubled bet")
}

func TestDoubleDownBust(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(
		card(entities.Ten), card(entities.Six), // player 16
		card(entities.Ten), card(entities.Seven), // dealer 17
		card(entities.King), // double down -> 26, bust
	)

	game, err := svc.StartGame(ctx, "user1", 10)
	require.NoError(t, err)

	game, err = svc.DoubleDown(ctx, game.ID)
	require.NoError(t, err)

	assert.Equal(t, entities.StateGameOver, game.State)
	assert.Equal(t, int64(20), game.Bet)
	require.NotNil(t, game.Conclusion)
	assert.Equal(t, entities.ResultDealerWin, game.Conclusion.Result)
	assert.Equal(t, int64(0), game.Conclusion.Payout)
}

func TestDoubleDownRequiresTwoCardHand(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(
		card(entities.Five), card(entities.Six), // player 11
		card(entities.Ten), card(entities.Seven), // dealer 17
		card(entities.Two), // hit -> 13, 3 cards
	)

	game, err := svc.StartGame(ctx, "user1", 10)
	require.NoError(t, err)

	game, err = svc.Hit(ctx, game.ID)
	require.NoError(t, err)

	_, err = svc.DoubleDown(ctx, game.ID)
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Equal(t, int64(10), game.Bet, "Failed double down must not touch the bet")
}

func TestActionsOnUnknownGame(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	_, err := svc.Hit(ctx, "missing")
	assert.ErrorIs(t, err, ErrInvalidState)
	_, err = svc.Stand(ctx, "missing")
	assert.ErrorIs(t, err, ErrInvalidState)
	_, err = svc.DoubleDown(ctx, "missing")
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestGetGameAndDeleteGame(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(card(entities.Ten), card(entities.Nine), card(entities.Ten), card(entities.Eight))

	game, err := svc.StartGame(ctx, "user1", 10)
	require.NoError(t, err)

	loaded, err := svc.GetGame(ctx, game.ID)
	require.NoError(t, err)
	assert.Equal(t, game.ID, loaded.ID)

	_, err = svc.GetGame(ctx, "missing")
	assert.ErrorIs(t, err, session.ErrGameNotFound)

	require.NoError(t, svc.DeleteGame(ctx, game.ID))
	_, err = svc.GetGame(ctx, game.ID)
	assert.ErrorIs(t, err, session.ErrGameNotFound)
}

func TestConcurrentGamesDoNotShareDecks(t *testing.T) {
	ctx := context.Background()
	store := session.NewMemoryStore()
	svc := NewService(store, nil, WithIDGenerator(&seqIDs{}))

	first, err := svc.StartGame(ctx, "user1", 10)
	require.NoError(t, err)
	second, err := svc.StartGame(ctx, "user2", 10)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.NotSame(t, first.Deck, second.Deck, "Each game owns its own deck")
	assert.Equal(t, 48, first.Deck.Remaining())
	assert.Equal(t, 48, second.Deck.Remaining())
}
