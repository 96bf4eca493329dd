// internal/models/room_rules.go
package models

// RoomRules captures the room-time configuration: bidding ceiling, stakes and
// timers. Rulesets vary between communities, so none of these are constants in
// the engine.
type RoomRules struct {
	// MaxBid is the bidding ceiling; reaching it ends bidding immediately.
	MaxBid int `json:"maxBid"`

	// BaseScore multiplies the winning bid before any doublings.
	BaseScore int `json:"baseScore"`

	// SpringMultiplier is applied once when the losing side played no cards
	// for the entire hand. 1 disables the bonus.
	SpringMultiplier int `json:"springMultiplier"`

	// TurnTimerSec is how many seconds the transport scheduler waits before
	// injecting a forced pass or minimum bid (0 => no timer). The engine
	// itself has no concept of wall-clock time.
	TurnTimerSec int `json:"turnTimerSec"`
}

// DefaultRoomRules is the common three-ceiling ruleset.
func DefaultRoomRules() RoomRules {
	return RoomRules{
		MaxBid:           3,
		BaseScore:        1,
		SpringMultiplier: 2,
		TurnTimerSec:     30,
	}
}
