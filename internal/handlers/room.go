// internal/handlers/room.go
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/fanxiao/doudizhu/internal/database"
	"github.com/fanxiao/doudizhu/internal/models"
)

type createRoomRequest struct {
	MaxBid           *int `json:"max_bid,omitempty"`
	BaseScore        *int `json:"base_score,omitempty"`
	SpringMultiplier *int `json:"spring_multiplier,omitempty"`
	TurnTimerSec     *int `json:"turn_timer_sec,omitempty"`
}

// CreateRoomHandler opens a new table. Absent fields fall back to the default
// ruleset; the full effective rules come back with the room id.
func CreateRoomHandler(rs *RoomServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		rules := models.DefaultRoomRules()
		if r.Body != nil {
			var req createRoomRequest
			// An empty body is fine; only malformed JSON is rejected.
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
				http.Error(w, "invalid payload", http.StatusBadRequest)
				return
			}
			if req.MaxBid != nil && *req.MaxBid > 0 {
				rules.MaxBid = *req.MaxBid
			}
			if req.BaseScore != nil && *req.BaseScore > 0 {
				rules.BaseScore = *req.BaseScore
			}
			if req.SpringMultiplier != nil && *req.SpringMultiplier > 0 {
				rules.SpringMultiplier = *req.SpringMultiplier
			}
			if req.TurnTimerSec != nil && *req.TurnTimerSec >= 0 {
				rules.TurnTimerSec = *req.TurnTimerSec
			}
		}

		room := rs.CreateRoom(rules)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"room_id": room.ID,
			"rules":   rules,
		})
	}
}

type joinRoomRequest struct {
	RoomID uuid.UUID `json:"room_id"`
}

// JoinRoomHandler seats the requesting user (creating a guest account when
// needed) and returns their seat index. The WebSocket connection at
// /room/ws/{room_id} re-resolves the same seat by user id.
func JoinRoomHandler(rs *RoomServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req joinRoomRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid payload", http.StatusBadRequest)
			return
		}

		userID, err := EnsureEphemeralUser(w, r)
		if err != nil {
			http.Error(w, "authentication failed", http.StatusForbidden)
			return
		}

		seat, err := rs.Store.JoinRoom(req.RoomID, userID, displayName(r.Context(), userID))
		if err != nil {
			http.Error(w, err.Error(), httpStatusFor(err))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"room_id": req.RoomID,
			"seat":    seat,
		})
	}
}

// httpStatusFor maps engine rejections onto HTTP statuses for the REST
// surface.
func httpStatusFor(err error) int {
	switch engineErrorCode(err) {
	case "room_not_found", "seat_not_found":
		return http.StatusNotFound
	case "illegal_action", "phase_mismatch":
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// roomSummary is one row in the room list.
type roomSummary struct {
	RoomID   uuid.UUID `json:"room_id"`
	Phase    string    `json:"phase"`
	Occupied int       `json:"occupied"`
	HandNum  int       `json:"hand_num"`
}

// ListRoomsHandler lists every live room with its phase and seat count.
func ListRoomsHandler(rs *RoomServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rooms := rs.Store.ListRooms()
		out := make([]roomSummary, 0, len(rooms))
		for _, room := range rooms {
			snap := room.Snapshot(-1)
			out = append(out, roomSummary{
				RoomID:   snap.RoomID,
				Phase:    snap.Phase,
				Occupied: len(snap.Seats),
				HandNum:  snap.HandNum,
			})
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(out)
	}
}

// RoomStateHandler returns the spectator view of one room:
// GET /room/state/{room_id}.
func RoomStateHandler(rs *RoomServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roomID, ok := parseTrailingUUID(w, r.URL.Path, "/room/state/")
		if !ok {
			return
		}
		snap, err := rs.Store.Snapshot(roomID, -1)
		if err != nil {
			http.Error(w, "room not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(snap)
	}
}

// RoomHistoryHandler returns recent finished hands for one room:
// GET /room/history/{room_id}?limit=50.
func RoomHistoryHandler(rs *RoomServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roomID, ok := parseTrailingUUID(w, r.URL.Path, "/room/history/")
		if !ok {
			return
		}
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		records, err := database.RoomHistory(r.Context(), roomID, limit)
		if err != nil {
			http.Error(w, "failed to load history", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(records)
	}
}

// LeaderboardHandler returns the top players by total score:
// GET /stats/leaderboard?limit=20.
func LeaderboardHandler(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	stats, err := database.Leaderboard(r.Context(), limit)
	if err != nil {
		http.Error(w, "failed to load leaderboard", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}

// PlayerStatsHandler returns one user's cumulative record:
// GET /stats/player/{user_id}.
func PlayerStatsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseTrailingUUID(w, r.URL.Path, "/stats/player/")
	if !ok {
		return
	}
	stats, err := database.GetPlayerStats(r.Context(), userID)
	if err != nil {
		http.Error(w, "failed to load stats", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}

// parseTrailingUUID pulls the UUID path segment after prefix, writing a 400
// on failure.
func parseTrailingUUID(w http.ResponseWriter, path, prefix string) (uuid.UUID, bool) {
	idStr := strings.TrimPrefix(path, prefix)
	if i := strings.IndexByte(idStr, '/'); i >= 0 {
		idStr = idStr[:i]
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}
