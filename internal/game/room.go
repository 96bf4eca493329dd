// internal/game/room.go
package game

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fanxiao/doudizhu/internal/models"
)

// Phase is the room's position in the hand lifecycle. DEALING and SCORING are
// transient: dealing completes synchronously into BIDDING, and scoring
// completes synchronously back into WAITING, so callers only ever observe
// WAITING, BIDDING and PLAYING.
type Phase int

const (
	PhaseWaiting Phase = iota
	PhaseDealing
	PhaseBidding
	PhasePlaying
	PhaseScoring
)

var phaseNames = [...]string{"waiting", "dealing", "bidding", "playing", "scoring"}

func (p Phase) String() string {
	if p >= 0 && int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return "unknown"
}

// RoomEventType is an enum-like type for broadcasting room activity.
type RoomEventType string

const (
	EventDeal       RoomEventType = "room_deal"
	EventBid        RoomEventType = "room_bid"
	EventRedeal     RoomEventType = "room_redeal"
	EventLandlord   RoomEventType = "room_landlord"
	EventPlay       RoomEventType = "room_play"
	EventPass       RoomEventType = "room_pass"
	EventTrickClear RoomEventType = "room_trick_clear"
	EventTurn       RoomEventType = "room_turn"
	EventHandEnd    RoomEventType = "room_hand_end"
	EventHandVoid   RoomEventType = "room_hand_void"
)

// RoomEvent holds data about one observable room transition, broadcast to all
// clients in a consistent format.
type RoomEvent struct {
	Type    RoomEventType          `json:"type"`
	Seat    *int                   `json:"seat,omitempty"`
	Pattern *Pattern               `json:"pattern,omitempty"`
	Payload map[string]interface{} `json:"payload,omitempty"`
}

// PlayRef is the last accepted play: its classified pattern and owning seat.
type PlayRef struct {
	Pattern Pattern `json:"pattern"`
	Seat    int     `json:"seat"`
}

// Room holds the entire state for one three-seat table. All mutation goes
// through SubmitAction or the seat-management methods, each of which takes the
// room mutex, so concurrent callers addressing the same room are serialized
// while independent rooms proceed freely.
type Room struct {
	ID    uuid.UUID
	Rules models.RoomRules

	Seats [3]*models.Seat
	Phase Phase

	Bottom         []models.Card
	bottomClaimed  bool
	BottomRevealed bool

	// Turn is the acting seat for BIDDING and PLAYING.
	Turn int

	HighestBid    int
	HighestBidder int // -1 until a non-zero bid lands
	passesNoBid   int // seats that passed before any non-zero bid
	passesOnBid   int // consecutive passes since the highest bid

	LandlordSeat int // -1 outside a hand
	LastPlay     *PlayRef
	BombCount    int

	discarded   int // cards played out of hands this hand
	HandNum     int
	bidStart    int // first bidder for the next deal
	handStarted time.Time

	Mu sync.Mutex

	// BroadcastFn is used to send events to all players. If nil, no broadcast
	// is done.
	BroadcastFn func(ev RoomEvent)

	// OnHandEnd receives the finalized record of each completed hand. The
	// engine performs no storage I/O itself.
	OnHandEnd func(rec HandRecord)
}

// NewRoom builds an empty WAITING room with the given ruleset.
func NewRoom(rules models.RoomRules) *Room {
	id, _ := uuid.NewRandom()
	return &Room{
		ID:            id,
		Rules:         rules,
		Phase:         PhaseWaiting,
		HighestBidder: -1,
		LandlordSeat:  -1,
	}
}

// fireEvent broadcasts an event to all connected players. Assumes lock held.
func (r *Room) fireEvent(ev RoomEvent) {
	if r.BroadcastFn != nil {
		r.BroadcastFn(ev)
	}
}

// JoinSeat places a user into the lowest vacant seat and returns its index.
// A user already seated reclaims their seat (reconnect); a duplicate display
// name or a full table is rejected.
func (r *Room) JoinSeat(userID uuid.UUID, name string) (int, error) {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	for i, s := range r.Seats {
		if s != nil && s.UserID == userID {
			s.Connected = true
			return i, nil
		}
	}
	for _, s := range r.Seats {
		if s != nil && s.Name == name {
			return 0, validationf("name %q already taken in this room", name)
		}
	}
	for i, s := range r.Seats {
		if s == nil {
			r.Seats[i] = &models.Seat{UserID: userID, Name: name, Connected: true}
			return i, nil
		}
	}
	return 0, validationf("room is full")
}

// LeaveSeat marks the seat disconnected. The seat, its hand and its score
// survive; the room is never torn down mid-hand.
func (r *Room) LeaveSeat(seat int) error {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	s, err := r.seat(seat)
	if err != nil {
		return err
	}
	s.Connected = false
	s.Conn = nil
	return nil
}

// Reconnect marks the seat active again.
func (r *Room) Reconnect(seat int) error {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	s, err := r.seat(seat)
	if err != nil {
		return err
	}
	s.Connected = true
	return nil
}

func (r *Room) seat(i int) (*models.Seat, error) {
	if i < 0 || i >= len(r.Seats) || r.Seats[i] == nil {
		return nil, fmt.Errorf("%w: seat %d", ErrSeatNotFound, i)
	}
	return r.Seats[i], nil
}

// Occupied returns how many seats hold a player.
func (r *Room) Occupied() int {
	n := 0
	for _, s := range r.Seats {
		if s != nil {
			n++
		}
	}
	return n
}

// StartHand fires the WAITING -> DEALING transition. It requires all three
// seats occupied and deals straight through into BIDDING.
func (r *Room) StartHand() error {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	if r.Phase != PhaseWaiting {
		return &PhaseError{Phase: r.Phase, Kind: "start"}
	}
	if r.Occupied() < len(r.Seats) {
		return validationf("need 3 seated players, have %d", r.Occupied())
	}
	r.deal()
	return nil
}

// deal generates and partitions a fresh deck, then opens bidding. Assumes
// lock held and all seats occupied.
func (r *Room) deal() {
	r.Phase = PhaseDealing

	hands, bottom := Partition(NewShuffledDeck())
	for i, s := range r.Seats {
		s.Hand = hands[i]
		s.Role = models.RolePeasant
		s.PlayedThisHand = false
	}
	r.Bottom = bottom
	r.bottomClaimed = false
	r.BottomRevealed = false
	r.LastPlay = nil
	r.BombCount = 0
	r.discarded = 0
	r.HighestBid = 0
	r.HighestBidder = -1
	r.passesNoBid = 0
	r.passesOnBid = 0
	r.LandlordSeat = -1
	r.HandNum++
	r.handStarted = time.Now()

	r.Turn = r.bidStart
	r.Phase = PhaseBidding

	r.fireEvent(RoomEvent{Type: EventDeal, Payload: map[string]interface{}{
		"hand":      r.HandNum,
		"firstBid":  r.bidStart,
		"handSizes": []int{HandSize, HandSize, HandSize},
	}})
}

// SubmitAction routes one seat's proposed move into the state machine. Any
// rejection leaves the room unchanged.
func (r *Room) SubmitAction(seat int, act models.Action) error {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	if _, err := r.seat(seat); err != nil {
		return err
	}

	switch act.Kind {
	case models.ActionBid:
		return r.submitBid(seat, act.Bid)
	case models.ActionPlay:
		return r.submitPlay(seat, act.Cards)
	case models.ActionPass:
		return r.submitPass(seat)
	default:
		return validationf("unknown action kind %q", act.Kind)
	}
}

// submitBid handles one bidding turn. Assumes lock held.
func (r *Room) submitBid(seat, bid int) error {
	if r.Phase != PhaseBidding {
		return &PhaseError{Phase: r.Phase, Kind: string(models.ActionBid)}
	}
	if seat != r.Turn {
		return validationf("not seat %d's turn", seat)
	}
	if bid < 0 || bid > r.Rules.MaxBid {
		return validationf("bid %d outside 0..%d", bid, r.Rules.MaxBid)
	}
	if bid != 0 && bid <= r.HighestBid {
		return validationf("bid %d does not raise current bid %d", bid, r.HighestBid)
	}

	s := &seat
	if bid == 0 {
		r.fireEvent(RoomEvent{Type: EventBid, Seat: s, Payload: map[string]interface{}{"bid": 0}})
		if r.HighestBidder < 0 {
			r.passesNoBid++
			if r.passesNoBid == len(r.Seats) {
				// Nobody wants the hand: void it and re-deal.
				r.fireEvent(RoomEvent{Type: EventRedeal})
				r.deal()
				return nil
			}
		} else {
			r.passesOnBid++
			if r.passesOnBid == len(r.Seats)-1 {
				r.finishBidding()
				return nil
			}
		}
		r.advanceTurn()
		return nil
	}

	r.HighestBid = bid
	r.HighestBidder = seat
	r.passesOnBid = 0
	r.fireEvent(RoomEvent{Type: EventBid, Seat: s, Payload: map[string]interface{}{"bid": bid}})

	if bid == r.Rules.MaxBid {
		r.finishBidding()
		return nil
	}
	r.advanceTurn()
	return nil
}

// finishBidding crowns the highest bidder, hands over the bottom and opens
// play. Assumes lock held and HighestBidder >= 0.
func (r *Room) finishBidding() {
	r.LandlordSeat = r.HighestBidder
	landlord := r.Seats[r.LandlordSeat]
	landlord.Role = models.RoleLandlord

	landlord.Hand = append(landlord.Hand, r.Bottom...)
	models.SortCards(landlord.Hand)
	r.bottomClaimed = true
	r.BottomRevealed = true

	r.Phase = PhasePlaying
	r.Turn = r.LandlordSeat
	r.LastPlay = nil

	seat := r.LandlordSeat
	r.fireEvent(RoomEvent{Type: EventLandlord, Seat: &seat, Payload: map[string]interface{}{
		"bid":    r.HighestBid,
		"bottom": r.Bottom,
	}})
}

// submitPlay validates and applies one play. Assumes lock held.
func (r *Room) submitPlay(seat int, cards []models.Card) error {
	if r.Phase != PhasePlaying {
		return &PhaseError{Phase: r.Phase, Kind: string(models.ActionPlay)}
	}
	if seat != r.Turn {
		return validationf("not seat %d's turn", seat)
	}
	if len(cards) == 0 {
		return validationf("empty play")
	}

	s := r.Seats[seat]
	if !s.HoldsAll(cards) {
		return validationf("seat %d does not hold all submitted cards", seat)
	}

	pattern := Classify(cards)
	if !pattern.IsValid() {
		return validationf("cards do not form a playable pattern")
	}
	if r.LastPlay != nil && !pattern.Beats(r.LastPlay.Pattern) {
		return validationf("%s does not beat the table's %s", pattern.Type, r.LastPlay.Pattern.Type)
	}

	// Accepted: from here on the mutation must be atomic.
	s.RemoveCards(pattern.Cards)
	s.PlayedThisHand = true
	r.discarded += pattern.Count
	if pattern.IsBombLike() {
		r.BombCount++
	}
	r.LastPlay = &PlayRef{Pattern: pattern, Seat: seat}

	sp := &seat
	r.fireEvent(RoomEvent{Type: EventPlay, Seat: sp, Pattern: &pattern, Payload: map[string]interface{}{
		"remaining": len(s.Hand),
	}})

	if err := r.checkConservation(); err != nil {
		r.voidHand(err)
		return err
	}

	if len(s.Hand) == 0 {
		r.finishHand(seat)
		return nil
	}

	r.advanceTurn()
	return nil
}

// submitPass handles a pass during play. Passing is never legal when the seat
// is leading a fresh trick. Assumes lock held.
func (r *Room) submitPass(seat int) error {
	if r.Phase != PhasePlaying {
		return &PhaseError{Phase: r.Phase, Kind: string(models.ActionPass)}
	}
	if seat != r.Turn {
		return validationf("not seat %d's turn", seat)
	}
	if r.LastPlay == nil {
		return validationf("cannot pass when leading the trick")
	}

	sp := &seat
	r.fireEvent(RoomEvent{Type: EventPass, Seat: sp})
	r.advanceTurn()
	return nil
}

// advanceTurn moves to the next seat clockwise and closes the trick if the
// turn returns to the last play's owner. Assumes lock held.
func (r *Room) advanceTurn() {
	r.Turn = (r.Turn + 1) % len(r.Seats)
	if r.Phase == PhasePlaying && r.LastPlay != nil && r.Turn == r.LastPlay.Seat {
		r.LastPlay = nil
		r.fireEvent(RoomEvent{Type: EventTrickClear})
	}
	turn := r.Turn
	r.fireEvent(RoomEvent{Type: EventTurn, Seat: &turn})
}

// checkConservation verifies the card-count invariant: cards in hands plus
// the unclaimed bottom plus everything played out must always total 54.
// Assumes lock held.
func (r *Room) checkConservation() error {
	total := r.discarded
	if !r.bottomClaimed {
		total += len(r.Bottom)
	}
	for _, s := range r.Seats {
		if s != nil {
			total += len(s.Hand)
		}
	}
	if total != DeckSize {
		return &InvariantError{Detail: fmt.Sprintf("card count %d != %d", total, DeckSize)}
	}
	return nil
}

// voidHand aborts the current hand without scoring: corrupted state never
// reaches another component. Seats and cumulative scores persist and the room
// returns to WAITING. Assumes lock held.
func (r *Room) voidHand(cause error) {
	r.fireEvent(RoomEvent{Type: EventHandVoid, Payload: map[string]interface{}{
		"reason": cause.Error(),
	}})
	if r.OnHandEnd != nil {
		r.OnHandEnd(r.buildHandRecord(nil))
	}
	r.resetHandState()
}

// finishHand scores a completed hand (SCORING) and returns the room to
// WAITING. Assumes lock held.
func (r *Room) finishHand(winnerSeat int) {
	r.Phase = PhaseScoring

	result := r.scoreHand(winnerSeat)
	for i, s := range r.Seats {
		s.Score += result.Deltas[i]
	}

	winner := winnerSeat
	r.fireEvent(RoomEvent{Type: EventHandEnd, Seat: &winner, Payload: map[string]interface{}{
		"winnerSide": result.WinnerSide.String(),
		"score":      result.Score,
		"multiplier": result.Multiplier,
		"spring":     result.Spring,
		"deltas":     result.Deltas,
	}})

	if r.OnHandEnd != nil {
		r.OnHandEnd(r.buildHandRecord(&result))
	}

	// Next hand's bidding opens at this hand's landlord.
	r.bidStart = r.LandlordSeat
	r.resetHandState()
}

// resetHandState clears hand-scoped state and re-enters WAITING. Seats, their
// occupants and cumulative scores persist. Assumes lock held.
func (r *Room) resetHandState() {
	for _, s := range r.Seats {
		if s != nil {
			s.Hand = nil
			s.Role = models.RolePeasant
			s.PlayedThisHand = false
		}
	}
	r.Bottom = nil
	r.bottomClaimed = false
	r.BottomRevealed = false
	r.LastPlay = nil
	r.HighestBid = 0
	r.HighestBidder = -1
	r.passesNoBid = 0
	r.passesOnBid = 0
	r.LandlordSeat = -1
	r.discarded = 0
	r.Phase = PhaseWaiting
}

// SynthesizeForcedAction builds the default action an external scheduler
// injects for the acting seat: the minimum bid during bidding, a pass during
// play, and the seat's lowest single when a pass is disallowed because the
// seat must lead. The engine never calls this on its own; timeouts and
// disconnect handling live outside.
func (r *Room) SynthesizeForcedAction() (models.Action, bool) {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	switch r.Phase {
	case PhaseBidding:
		return models.Action{Kind: models.ActionBid, Bid: 0}, true
	case PhasePlaying:
		if r.LastPlay != nil {
			return models.Action{Kind: models.ActionPass}, true
		}
		s := r.Seats[r.Turn]
		if s == nil || len(s.Hand) == 0 {
			return models.Action{}, false
		}
		low := s.Hand[0]
		for _, c := range s.Hand[1:] {
			if c.Rank.Value() < low.Rank.Value() {
				low = c
			}
		}
		return models.Action{Kind: models.ActionPlay, Cards: []models.Card{low}}, true
	default:
		return models.Action{}, false
	}
}

// CurrentSeat returns the acting seat and whether it is disconnected, for the
// transport's forced-action scheduler.
func (r *Room) CurrentSeat() (seat int, disconnected bool, active bool) {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	if r.Phase != PhaseBidding && r.Phase != PhasePlaying {
		return 0, false, false
	}
	s := r.Seats[r.Turn]
	return r.Turn, s != nil && !s.Connected, true
}
