// internal/models/action.go
package models

// ActionKind discriminates the three things a seat can do. The engine does not
// know or care whether an action came from a human client, a bot, or the
// timeout scheduler; they all arrive through the same interface.
type ActionKind string

const (
	ActionBid  ActionKind = "bid"
	ActionPlay ActionKind = "play"
	ActionPass ActionKind = "pass"
)

// Action captures one seat's proposed move.
type Action struct {
	Kind ActionKind `json:"kind"`

	// Bid is the proposed bid value for ActionBid (0 means pass on bidding).
	Bid int `json:"bid,omitempty"`

	// Cards is the exact multiset to play for ActionPlay.
	Cards []Card `json:"cards,omitempty"`
}
