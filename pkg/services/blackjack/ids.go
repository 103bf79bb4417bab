package blackjack

import "github.com/google/uuid"

// IDGenerator mints game identifiers. It is injected into the service so
// game identity does not depend on wall-clock time and tests can pin IDs.
type IDGenerator interface {
	NewGameID(userID string) string
}

// UUIDGenerator prefixes a random UUID with the owning user's ID, keeping
// IDs unique under any call rate while staying greppable per user.
type UUIDGenerator struct{}

// NewGameID returns a fresh game identifier for the user.
func (UUIDGenerator) NewGameID(userID string) string {
	return userID + "-" + uuid.NewString()
}
