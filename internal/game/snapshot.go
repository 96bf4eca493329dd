// internal/game/snapshot.go
package game

import (
	"github.com/google/uuid"

	"github.com/fanxiao/doudizhu/internal/models"
)

// SeatSnapshot is one seat's state from the perspective of a requesting seat:
// hand contents are revealed only to their owner, everyone else sees counts.
type SeatSnapshot struct {
	Seat          int           `json:"seat"`
	UserID        uuid.UUID     `json:"user_id"`
	Name          string        `json:"name"`
	Role          string        `json:"role"`
	Connected     bool          `json:"connected"`
	HandSize      int           `json:"hand_size"`
	Hand          []models.Card `json:"hand,omitempty"` // only for the viewer
	Score         int           `json:"score"`
	IsCurrentTurn bool          `json:"isCurrentTurn"`
}

// RoomSnapshot is a read-only, internally consistent view of a room suitable
// for broadcast. It reflects the state immediately before or after an
// accepted action, never a partially applied one.
type RoomSnapshot struct {
	RoomID       uuid.UUID        `json:"room_id"`
	Phase        string           `json:"phase"`
	HandNum      int              `json:"hand_num"`
	Seats        []SeatSnapshot   `json:"seats"`
	Turn         int              `json:"turn"`
	Bid          int              `json:"bid"`
	LandlordSeat int              `json:"landlord_seat"`
	LastPlay     *PlayRef         `json:"last_play,omitempty"`
	Bottom       []models.Card    `json:"bottom,omitempty"` // once revealed
	BombCount    int              `json:"bomb_count"`
	Rules        models.RoomRules `json:"rules"`
}

// Snapshot generates the room view for the given seat. Pass a negative seat
// for a spectator view with no hand revealed.
func (r *Room) Snapshot(forSeat int) RoomSnapshot {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	snap := RoomSnapshot{
		RoomID:       r.ID,
		Phase:        r.Phase.String(),
		HandNum:      r.HandNum,
		Turn:         r.Turn,
		Bid:          r.HighestBid,
		LandlordSeat: r.LandlordSeat,
		LastPlay:     r.LastPlay,
		BombCount:    r.BombCount,
		Rules:        r.Rules,
	}

	if r.BottomRevealed {
		snap.Bottom = append([]models.Card(nil), r.Bottom...)
	}

	for i, s := range r.Seats {
		if s == nil {
			continue
		}
		ss := SeatSnapshot{
			Seat:          i,
			UserID:        s.UserID,
			Name:          s.Name,
			Role:          s.Role.String(),
			Connected:     s.Connected,
			HandSize:      len(s.Hand),
			Score:         s.Score,
			IsCurrentTurn: i == r.Turn && (r.Phase == PhaseBidding || r.Phase == PhasePlaying),
		}
		if i == forSeat {
			ss.Hand = append([]models.Card(nil), s.Hand...)
		}
		snap.Seats = append(snap.Seats, ss)
	}
	return snap
}
