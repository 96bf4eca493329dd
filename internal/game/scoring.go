// internal/game/scoring.go
package game

import (
	"time"

	"github.com/google/uuid"
)

// Side identifies the winning (or losing) camp of a hand.
type Side int

const (
	SideLandlord Side = iota
	SidePeasants
)

func (s Side) String() string {
	if s == SideLandlord {
		return "landlord"
	}
	return "peasants"
}

// ScoreResult is the outcome of one completed hand before it is applied to
// seat totals.
type ScoreResult struct {
	WinnerSide Side
	Multiplier int
	Score      int
	Spring     bool
	// Deltas is indexed by seat; the landlord stakes double.
	Deltas [3]int
}

// scoreHand computes the hand outcome: score = bid x base x 2^bombs, doubled
// again by the spring bonus when the losing side never played a card.
// Assumes lock held and a landlord assigned.
func (r *Room) scoreHand(winnerSeat int) ScoreResult {
	res := ScoreResult{WinnerSide: SidePeasants}
	if winnerSeat == r.LandlordSeat {
		res.WinnerSide = SideLandlord
	}

	res.Multiplier = 1
	for i := 0; i < r.BombCount; i++ {
		res.Multiplier *= 2
	}

	// Spring: the losing side played zero cards for the whole hand.
	res.Spring = true
	for i, s := range r.Seats {
		onLosingSide := (res.WinnerSide == SideLandlord) != (i == r.LandlordSeat)
		if onLosingSide && s.PlayedThisHand {
			res.Spring = false
			break
		}
	}
	if res.Spring && r.Rules.SpringMultiplier > 1 {
		res.Multiplier *= r.Rules.SpringMultiplier
	}

	res.Score = r.HighestBid * r.Rules.BaseScore * res.Multiplier

	for i := range r.Seats {
		stake := res.Score
		if i == r.LandlordSeat {
			stake *= 2
		}
		won := (res.WinnerSide == SideLandlord) == (i == r.LandlordSeat)
		if won {
			res.Deltas[i] = stake
		} else {
			res.Deltas[i] = -stake
		}
	}
	return res
}

// SeatResult is one seat's line in a finalized hand record.
type SeatResult struct {
	Seat   int       `json:"seat"`
	UserID uuid.UUID `json:"user_id"`
	Name   string    `json:"name"`
	Role   string    `json:"role"`
	Delta  int       `json:"delta"`
}

// HandRecord is the single finalized record emitted per completed (or voided)
// hand for the persistence collaborator. The engine performs no storage I/O.
type HandRecord struct {
	RoomID       uuid.UUID     `json:"room_id"`
	HandNum      int           `json:"hand_num"`
	Seats        [3]SeatResult `json:"seats"`
	Voided       bool          `json:"voided"`
	WinnerSide   string        `json:"winner_side,omitempty"`
	LandlordSeat int           `json:"landlord_seat"`
	Bid          int           `json:"bid"`
	Multiplier   int           `json:"multiplier"`
	Score        int           `json:"score"`
	Duration     time.Duration `json:"duration"`
	Timestamp    time.Time     `json:"timestamp"`
}

// buildHandRecord captures the hand result before hand state is cleared.
// A nil result marks a voided hand; no outcome or deltas are reported.
// Assumes lock held.
func (r *Room) buildHandRecord(result *ScoreResult) HandRecord {
	rec := HandRecord{
		RoomID:       r.ID,
		HandNum:      r.HandNum,
		Voided:       result == nil,
		LandlordSeat: r.LandlordSeat,
		Bid:          r.HighestBid,
		Duration:     time.Since(r.handStarted),
		Timestamp:    time.Now(),
	}
	if result != nil {
		rec.WinnerSide = result.WinnerSide.String()
		rec.Multiplier = result.Multiplier
		rec.Score = result.Score
	}
	for i, s := range r.Seats {
		if s == nil {
			continue
		}
		rec.Seats[i] = SeatResult{
			Seat:   i,
			UserID: s.UserID,
			Name:   s.Name,
			Role:   s.Role.String(),
		}
		if result != nil {
			rec.Seats[i].Delta = result.Deltas[i]
		}
	}
	return rec
}
