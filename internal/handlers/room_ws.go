// internal/handlers/room_ws.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/fanxiao/doudizhu/internal/database"
	"github.com/fanxiao/doudizhu/internal/game"
	"github.com/fanxiao/doudizhu/internal/models"
)

// roomMessage is the envelope for incoming WebSocket messages at the table.
type roomMessage struct {
	Type string `json:"type"`

	// Bid carries the amount for "bid" messages, 0 meaning pass.
	Bid int `json:"bid,omitempty"`

	// Cards carries the submitted set for "play" messages.
	Cards []models.Card `json:"cards,omitempty"`
}

// RoomWSHandler upgrades the HTTP connection to WebSocket for one room. It
// authenticates the user (creating an ephemeral guest when needed), seats
// them, sends the initial snapshot and runs the read loop until disconnect.
func RoomWSHandler(logger *logrus.Logger, rs *RoomServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Extract room ID from URL path: /room/ws/{room_id}
		idStr := strings.TrimPrefix(r.URL.Path, "/room/ws/")
		if i := strings.IndexByte(idStr, '/'); i >= 0 {
			idStr = idStr[:i]
		}
		roomID, err := uuid.Parse(idStr)
		if err != nil {
			http.Error(w, "invalid room_id (/room/ws/{room_id})", http.StatusBadRequest)
			return
		}

		room, ok := rs.Store.GetRoom(roomID)
		if !ok {
			http.Error(w, "room not found", http.StatusNotFound)
			return
		}

		// Authenticate before the upgrade so a rejected user gets a proper
		// HTTP status instead of a close frame.
		userID, err := EnsureEphemeralUser(w, r)
		if err != nil {
			logger.Warnf("authentication failed for room %s: %v", roomID, err)
			http.Error(w, "authentication failed", http.StatusForbidden)
			return
		}

		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{"doudizhu"},
			OriginPatterns: []string{"*"}, // Adjust for production security.
		})
		if err != nil {
			logger.Warnf("websocket accept error for room %s: %v", roomID, err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "handler exit")

		if c.Subprotocol() != "doudizhu" {
			c.Close(BadSubprotocolError, "client must use the 'doudizhu' subprotocol")
			return
		}

		name := displayName(r.Context(), userID)
		seat, err := room.JoinSeat(userID, name)
		if err != nil {
			logger.Warnf("user %s cannot join room %s: %v", userID, roomID, err)
			c.Close(SeatRejectedError, err.Error())
			return
		}

		room.Mu.Lock()
		room.Seats[seat].Conn = c
		room.Mu.Unlock()

		logger.WithFields(logrus.Fields{
			"room": roomID,
			"user": userID,
			"seat": seat,
		}).Info("player seated")

		// The joiner gets their own view immediately; everyone else learns
		// about the (re)connection through refreshed snapshots.
		rs.pushSnapshots(room)

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		readRoomMessages(ctx, c, rs, room, seat, logger)

		if err := room.LeaveSeat(seat); err != nil {
			logger.Warnf("leave seat %d in room %s: %v", seat, roomID, err)
		}
		logger.Infof("seat %d disconnected from room %s", seat, roomID)
		rs.pushSnapshots(room)
	}
}

// displayName resolves the seat label for a user: their username when known,
// a guest tag otherwise.
func displayName(ctx context.Context, userID uuid.UUID) string {
	if database.DB != nil {
		if u, err := database.GetUserByID(ctx, userID); err == nil && u.Username != "" && u.Username != "Guest" {
			return u.Username
		}
	}
	return "Guest-" + userID.String()[:8]
}

// readRoomMessages reads and routes client messages until the connection
// closes or the context is cancelled.
func readRoomMessages(ctx context.Context, c *websocket.Conn, rs *RoomServer, room *game.Room, seat int, logger *logrus.Logger) {
	for {
		msgType, data, err := c.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				logger.Infof("websocket closed normally for seat %d in room %s", seat, room.ID)
			} else if ctx.Err() != nil {
				logger.Infof("websocket context canceled for seat %d in room %s", seat, room.ID)
			} else {
				logger.Warnf("websocket read error for seat %d in room %s: %v", seat, room.ID, err)
			}
			return
		}
		if msgType != websocket.MessageText {
			continue
		}

		var msg roomMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			sendWsError(ctx, c, "bad_json", "invalid JSON", logger)
			continue
		}

		switch msg.Type {
		case "bid":
			rs.submitAndReport(ctx, c, room, seat, models.Action{Kind: models.ActionBid, Bid: msg.Bid}, logger)
		case "play":
			rs.submitAndReport(ctx, c, room, seat, models.Action{Kind: models.ActionPlay, Cards: msg.Cards}, logger)
		case "pass":
			rs.submitAndReport(ctx, c, room, seat, models.Action{Kind: models.ActionPass}, logger)

		case "start":
			if err := room.StartHand(); err != nil {
				sendWsError(ctx, c, engineErrorCode(err), err.Error(), logger)
				continue
			}
			rs.pushSnapshots(room)

		case "snapshot":
			snap := room.Snapshot(seat)
			sendWsMessage(ctx, c, map[string]interface{}{"type": "room_snapshot", "room": snap}, logger)

		case "ping":
			sendWsMessage(ctx, c, map[string]string{"type": "pong"}, logger)

		default:
			sendWsError(ctx, c, "unknown_type", fmt.Sprintf("unknown message type %q", msg.Type), logger)
		}

		select {
		case <-ctx.Done():
			return
		default:
		}
	}
}

// submitAndReport pushes one action into the engine and either fans out fresh
// snapshots or reports the rejection to the acting client only.
func (s *RoomServer) submitAndReport(ctx context.Context, c *websocket.Conn, room *game.Room, seat int, act models.Action, logger *logrus.Logger) {
	if err := room.SubmitAction(seat, act); err != nil {
		// An invariant violation voids the hand: every client needs the
		// post-void state, not just the actor.
		var ierr *game.InvariantError
		if errors.As(err, &ierr) {
			logger.Errorf("hand voided in room %s: %v", room.ID, err)
			s.pushSnapshots(room)
		}
		sendWsError(ctx, c, engineErrorCode(err), err.Error(), logger)
		return
	}
	s.pushSnapshots(room)
}
