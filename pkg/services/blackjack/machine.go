package blackjack

import (
	"context"

	"github.com/qmuntal/stateless"

	"github.com/goldfelt/casino/pkg/entities"
)

const (
	triggerDeal       = "Deal"
	triggerHit        = "Hit"
	triggerStand      = "Stand"
	triggerDoubleDown = "DoubleDown"
	triggerBust       = "Bust"
	triggerResolve    = "Resolve"
)

// newTurnMachine builds the turn state machine for one game. The machine
// uses external storage backed by Game.State, so it is a rule table over the
// game record rather than a second copy of its state: firing an unpermitted
// trigger fails without touching the game.
func newTurnMachine(g *entities.Game) *stateless.StateMachine {
	m := stateless.NewStateMachineWithExternalStorage(
		func(_ context.Context) (stateless.State, error) {
			return g.State, nil
		},
		func(_ context.Context, state stateless.State) error {
			g.State = state.(entities.GameState)
			return nil
		},
		stateless.FiringImmediate,
	)

	m.Configure(entities.StateDealing).
		Permit(triggerDeal, entities.StatePlayerTurn).
		// immediate settlement when the opening deal contains a blackjack
		Permit(triggerResolve, entities.StateGameOver)

	m.Configure(entities.StatePlayerTurn).
		PermitReentry(triggerHit).
		Permit(triggerBust, entities.StateGameOver).
		Permit(triggerStand, entities.StateDealerTurn).
		Permit(triggerDoubleDown, entities.StateDealerTurn, func(_ context.Context, _ ...any) bool {
			return len(g.PlayerHand.Cards) == 2
		})

	m.Configure(entities.StateDealerTurn).
		Permit(triggerResolve, entities.StateGameOver)

	// StateGameOver is terminal: no configuration, nothing leaves it.

	return m
}
