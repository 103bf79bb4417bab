package server

import (
	"github.com/goldfelt/casino/pkg/entities"
)

type cardView struct {
	Suit  string `json:"suit"`
	Rank  string `json:"rank"`
	Value int    `json:"value"`
}

type handView struct {
	Cards       []cardView `json:"cards"`
	Score       int        `json:"score"`
	IsBust      bool       `json:"is_bust"`
	IsBlackjack bool       `json:"is_blackjack"`
}

type gameView struct {
	GameID     string   `json:"game_id"`
	State      string   `json:"state"`
	Bet        int64    `json:"bet"`
	PlayerHand handView `json:"player_hand"`
	DealerHand handView `json:"dealer_hand"`
	Result     string   `json:"result,omitempty"`
	Payout     *int64   `json:"payout,omitempty"`
}

func newCardViews(cards []entities.Card) []cardView {
	views := make([]cardView, 0, len(cards))
	for _, c := range cards {
		views = append(views, cardView{
			Suit:  string(c.Suit),
			Rank:  string(c.Rank),
			Value: c.Value,
		})
	}
	return views
}

func newHandView(hand *entities.Hand) handView {
	return handView{
		Cards:       newCardViews(hand.Cards),
		Score:       hand.Score,
		IsBust:      hand.IsBust,
		IsBlackjack: hand.IsBlackjack,
	}
}

// newGameView renders a game for the client. Until the hand is settled, only
// the dealer's up card is exposed; the hole card stays face down.
func newGameView(game *entities.Game) gameView {
	view := gameView{
		GameID:     game.ID,
		State:      string(game.State),
		Bet:        game.Bet,
		PlayerHand: newHandView(game.PlayerHand),
	}

	if game.Concluded() {
		view.DealerHand = newHandView(game.DealerHand)
		view.Result = game.Conclusion.Result.String()
		payout := game.Conclusion.Payout
		view.Payout = &payout
	} else {
		upCard := game.DealerHand.Cards[:1]
		view.DealerHand = newHandView(entities.NewHand(upCard))
	}
	return view
}
