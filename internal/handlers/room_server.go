// internal/handlers/room_server.go
package handlers

import (
	"context"
	"encoding/json"
	"time"

	"github.com/coder/websocket"
	"github.com/sirupsen/logrus"

	"github.com/fanxiao/doudizhu/internal/cache"
	"github.com/fanxiao/doudizhu/internal/game"
	"github.com/fanxiao/doudizhu/internal/models"
)

// RoomServer owns the live room registry and everything the rule engine
// deliberately does not: WebSocket fan-out, turn timers, disconnect handling
// and hand-record publication. The engine only ever sees SubmitAction calls;
// it cannot tell a scheduler-forced move from a human one.
type RoomServer struct {
	Store  *game.RoomStore
	Logger *logrus.Logger

	// IdleTimeout is how long an empty WAITING room survives before the
	// reaper removes it from the registry.
	IdleTimeout time.Duration
}

func NewRoomServer(logger *logrus.Logger) *RoomServer {
	return &RoomServer{
		Store:       game.NewRoomStore(),
		Logger:      logger,
		IdleTimeout: 10 * time.Minute,
	}
}

// CreateRoom builds a room with its callbacks wired and its turn clock
// running, and registers it.
func (s *RoomServer) CreateRoom(rules models.RoomRules) *game.Room {
	r := s.Store.CreateRoom(rules)
	r.BroadcastFn = s.makeBroadcastFn(r)
	r.OnHandEnd = s.makeHandEndFn(r)
	go s.runRoomClock(r)
	return r
}

// makeBroadcastFn returns the room's event fan-out. The engine invokes it
// while holding the room lock, so the closure reads seat connections directly
// and defers all network writes to a goroutine.
func (s *RoomServer) makeBroadcastFn(r *game.Room) func(ev game.RoomEvent) {
	return func(ev game.RoomEvent) {
		var conns []*websocket.Conn
		for _, seat := range r.Seats {
			if seat != nil && seat.Connected && seat.Conn != nil {
				conns = append(conns, seat.Conn)
			}
		}
		if len(conns) == 0 {
			return
		}

		data, err := json.Marshal(ev)
		if err != nil {
			s.Logger.Errorf("failed to marshal event %s for room %s: %v", ev.Type, r.ID, err)
			return
		}

		go func() {
			for _, c := range conns {
				ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
				if err := c.Write(ctx, websocket.MessageText, data); err != nil {
					s.Logger.Warnf("failed to write event to client in room %s: %v", r.ID, err)
				}
				cancel()
			}
		}()
	}
}

// makeHandEndFn publishes each finalized hand record to the historian queue.
// Called with the room lock held; the publish happens off-thread so scoring
// never waits on Redis.
func (s *RoomServer) makeHandEndFn(r *game.Room) func(rec game.HandRecord) {
	return func(rec game.HandRecord) {
		if cache.Rdb == nil {
			return
		}
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := cache.PublishHandRecord(ctx, rec); err != nil {
				s.Logger.Errorf("failed to publish hand record for room %s: %v", r.ID, err)
			}
		}()
	}
}

// pushSnapshots sends every connected seat its own view of the room, plus
// nothing to spectators (they poll the HTTP state endpoint).
func (s *RoomServer) pushSnapshots(r *game.Room) {
	var conns [3]*websocket.Conn
	r.Mu.Lock()
	for i, seat := range r.Seats {
		if seat != nil && seat.Connected {
			conns[i] = seat.Conn
		}
	}
	r.Mu.Unlock()

	for i, c := range conns {
		if c == nil {
			continue
		}
		snap := r.Snapshot(i)
		msg := map[string]interface{}{"type": "room_snapshot", "room": snap}
		go func(c *websocket.Conn) {
			sendWsMessage(context.Background(), c, msg, s.Logger)
		}(c)
	}
}

// roomClockTick is one second; forced actions land on the first tick after
// the deadline, not at millisecond precision.
const roomClockTick = time.Second

// runRoomClock drives everything time-based for one room: the per-turn
// deadline, immediate resolution for disconnected seats, and the idle-room
// reaper. It exits when the room leaves the registry.
func (s *RoomServer) runRoomClock(r *game.Room) {
	ticker := time.NewTicker(roomClockTick)
	defer ticker.Stop()

	type turnKey struct {
		phase   game.Phase
		turn    int
		handNum int
	}
	var (
		lastKey  turnKey
		deadline time.Time
		idleAt   time.Time
	)

	for range ticker.C {
		if _, ok := s.Store.GetRoom(r.ID); !ok {
			return
		}

		r.Mu.Lock()
		key := turnKey{phase: r.Phase, turn: r.Turn, handNum: r.HandNum}
		waiting := r.Phase == game.PhaseWaiting
		connected := 0
		for _, seat := range r.Seats {
			if seat != nil && seat.Connected {
				connected++
			}
		}
		timerSec := r.Rules.TurnTimerSec
		r.Mu.Unlock()

		// Reap rooms that sit empty in WAITING for too long.
		if waiting && connected == 0 {
			if idleAt.IsZero() {
				idleAt = time.Now()
			} else if time.Since(idleAt) > s.IdleTimeout {
				s.Logger.Infof("reaping idle room %s", r.ID)
				s.Store.DeleteRoom(r.ID)
				return
			}
			continue
		}
		idleAt = time.Time{}

		seat, disconnected, active := r.CurrentSeat()
		if !active {
			lastKey = turnKey{}
			continue
		}
		if key != lastKey {
			lastKey = key
			deadline = time.Now().Add(time.Duration(timerSec) * time.Second)
		}

		timedOut := timerSec > 0 && time.Now().After(deadline)
		if !disconnected && !timedOut {
			continue
		}

		act, ok := r.SynthesizeForcedAction()
		if !ok {
			continue
		}
		// The turn may have moved between the peek and the submit; a stale
		// forced action is rejected by the engine like any other.
		if err := r.SubmitAction(seat, act); err != nil {
			s.Logger.Debugf("forced action rejected in room %s: %v", r.ID, err)
			continue
		}
		s.Logger.WithFields(logrus.Fields{
			"room":         r.ID,
			"seat":         seat,
			"action":       act.Kind,
			"disconnected": disconnected,
		}).Info("injected forced action")
		s.pushSnapshots(r)
	}
}
