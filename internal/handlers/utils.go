package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/sirupsen/logrus"

	"github.com/fanxiao/doudizhu/internal/game"
)

// extractTokenFromCookie extracts the auth_token value from a "Cookie" header,
// or returns empty if not found.
func extractTokenFromCookie(cookieHeader string) string {
	return extractCookieToken(cookieHeader, "auth_token")
}

// extractCookieToken extracts a named cookie value from "Cookie" header, or returns empty if not found.
func extractCookieToken(cookieHeader, cookieName string) string {
	parts := strings.Split(cookieHeader, cookieName+"=")
	if len(parts) < 2 {
		return ""
	}
	token := parts[1]
	if idx := strings.Index(token, ";"); idx != -1 {
		token = token[:idx]
	}
	return token
}

// engineErrorCode maps an engine rejection to a stable client-facing code.
// The transport never string-matches error text.
func engineErrorCode(err error) string {
	var verr *game.ValidationError
	var perr *game.PhaseError
	var ierr *game.InvariantError
	switch {
	case errors.Is(err, game.ErrRoomNotFound):
		return "room_not_found"
	case errors.Is(err, game.ErrSeatNotFound):
		return "seat_not_found"
	case errors.As(err, &verr):
		return "illegal_action"
	case errors.As(err, &perr):
		return "phase_mismatch"
	case errors.As(err, &ierr):
		return "hand_voided"
	default:
		return "internal_error"
	}
}

// sendWsMessage marshals a message and sends it to the WebSocket client with a
// write timeout.
func sendWsMessage(ctx context.Context, c *websocket.Conn, message interface{}, logger *logrus.Logger) {
	if c == nil {
		return
	}
	msgBytes, err := json.Marshal(message)
	if err != nil {
		logger.Errorf("error marshaling websocket message: %v", err)
		return
	}

	writeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := c.Write(writeCtx, websocket.MessageText, msgBytes); err != nil {
		status := websocket.CloseStatus(err)
		if status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway {
			logger.Warnf("error writing websocket message: %v", err)
		}
		// Let the read loop handle connection closure detection.
	}
}

// sendWsError sends a structured error message to the client.
func sendWsError(ctx context.Context, c *websocket.Conn, code, message string, logger *logrus.Logger) {
	sendWsMessage(ctx, c, map[string]interface{}{
		"type":    "error",
		"code":    code,
		"message": message,
	}, logger)
}
