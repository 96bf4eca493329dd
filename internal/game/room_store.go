// internal/game/room_store.go
package game

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/fanxiao/doudizhu/internal/models"
)

// RoomStore owns the id -> room mapping. The store mutex guards only the map;
// each room serializes its own mutations, so actions addressed to different
// rooms proceed concurrently.
type RoomStore struct {
	mu    sync.Mutex
	rooms map[uuid.UUID]*Room
}

func NewRoomStore() *RoomStore {
	return &RoomStore{
		rooms: make(map[uuid.UUID]*Room),
	}
}

// CreateRoom builds and registers a new room. At most one live instance can
// exist per identifier.
func (s *RoomStore) CreateRoom(rules models.RoomRules) *Room {
	r := NewRoom(rules)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[r.ID] = r
	return r
}

// AddRoom registers an existing room, rejecting a duplicate identifier.
func (s *RoomStore) AddRoom(r *Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.rooms[r.ID]; exists {
		return fmt.Errorf("room %s already registered", r.ID)
	}
	s.rooms[r.ID] = r
	return nil
}

// GetRoom returns the live room for id.
func (s *RoomStore) GetRoom(id uuid.UUID) (*Room, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[id]
	return r, ok
}

// DeleteRoom removes a room from the registry. Callers only do this once all
// seats are vacant.
func (s *RoomStore) DeleteRoom(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, id)
}

// ListRooms returns all live rooms in no particular order.
func (s *RoomStore) ListRooms() []*Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Room, 0, len(s.rooms))
	for _, r := range s.rooms {
		out = append(out, r)
	}
	return out
}

// JoinRoom seats a user in the addressed room.
func (s *RoomStore) JoinRoom(roomID uuid.UUID, userID uuid.UUID, name string) (int, error) {
	r, ok := s.GetRoom(roomID)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrRoomNotFound, roomID)
	}
	return r.JoinSeat(userID, name)
}

// LeaveRoom marks the seat disconnected; the room itself persists.
func (s *RoomStore) LeaveRoom(roomID uuid.UUID, seat int) error {
	r, ok := s.GetRoom(roomID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrRoomNotFound, roomID)
	}
	return r.LeaveSeat(seat)
}

// SubmitAction routes an action into the addressed room under that room's
// exclusive-access guarantee.
func (s *RoomStore) SubmitAction(roomID uuid.UUID, seat int, act models.Action) error {
	r, ok := s.GetRoom(roomID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrRoomNotFound, roomID)
	}
	return r.SubmitAction(seat, act)
}

// Snapshot returns a consistent view of the addressed room for one seat.
func (s *RoomStore) Snapshot(roomID uuid.UUID, forSeat int) (RoomSnapshot, error) {
	r, ok := s.GetRoom(roomID)
	if !ok {
		return RoomSnapshot{}, fmt.Errorf("%w: %s", ErrRoomNotFound, roomID)
	}
	return r.Snapshot(forSeat), nil
}
