// internal/game/errors.go
package game

import (
	"errors"
	"fmt"
)

// The engine surfaces every rejection as one of four categories so the
// transport can map them to client-facing codes without string matching.

// ErrRoomNotFound is returned when a room id has no live instance.
var ErrRoomNotFound = errors.New("room not found")

// ErrSeatNotFound is returned when a seat index is outside 0..2 or vacant.
var ErrSeatNotFound = errors.New("seat not found")

// ValidationError rejects an action whose content is illegal in the current
// situation: wrong turn, cards not held, unclassifiable set, a play that does
// not beat the table, or a pass where a play is required. The room state is
// unchanged.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("illegal action: %s", e.Reason)
}

func validationf(format string, args ...interface{}) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// PhaseError rejects an action kind that is never legal in the room's current
// phase, e.g. a play during bidding. The room state is unchanged.
type PhaseError struct {
	Phase Phase
	Kind  string
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("action %q not allowed in phase %s", e.Kind, e.Phase)
}

// InvariantError reports internal bookkeeping corruption (card conservation
// broken). It is never propagated as live state: the engine voids the current
// hand into a safe WAITING transition and reports the violation to the caller
// as fatal for that hand only.
type InvariantError struct {
	Detail string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("invariant violation: %s", e.Detail)
}
