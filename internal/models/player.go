package models

import (
	"github.com/coder/websocket"
	"github.com/google/uuid"
)

// Role is a seat's side for the current hand.
type Role int

const (
	RolePeasant Role = iota
	RoleLandlord
)

func (r Role) String() string {
	if r == RoleLandlord {
		return "landlord"
	}
	return "peasant"
}

// Seat is one of the three fixed positions at a table. Seat state outlives a
// hand: the occupant and cumulative score persist, hand-scoped fields are
// cleared between hands.
type Seat struct {
	UserID uuid.UUID `json:"user_id"`
	Name   string    `json:"name"`

	Hand      []Card `json:"-"` // never serialized; exposed via snapshots only
	Role      Role   `json:"role"`
	Connected bool   `json:"connected"`

	// Score is the cumulative delta across hands in this room.
	Score int `json:"score"`

	// PlayedThisHand is set once the seat plays any cards; drives spring
	// detection at scoring time.
	PlayedThisHand bool `json:"-"`

	Conn *websocket.Conn `json:"-"`

	User *User `json:"-"`
}

// HoldsAll reports whether the seat's hand contains every card in cards,
// respecting multiplicity (the same physical card cannot be played twice).
func (s *Seat) HoldsAll(cards []Card) bool {
	held := make(map[Card]int, len(s.Hand))
	for _, c := range s.Hand {
		held[c]++
	}
	for _, c := range cards {
		if held[c] == 0 {
			return false
		}
		held[c]--
	}
	return true
}

// RemoveCards deletes each card in cards from the hand exactly once. The
// caller must have verified HoldsAll first; missing cards are ignored.
func (s *Seat) RemoveCards(cards []Card) {
	for _, c := range cards {
		for i, h := range s.Hand {
			if h == c {
				s.Hand = append(s.Hand[:i], s.Hand[i+1:]...)
				break
			}
		}
	}
}
