// internal/handlers/room_ws_test.go
package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/fanxiao/doudizhu/internal/auth"
	"github.com/fanxiao/doudizhu/internal/game"
	"github.com/fanxiao/doudizhu/internal/models"
)

// newWSTestServer stands up one room behind the WebSocket handler.
func newWSTestServer(t *testing.T) (*httptest.Server, *game.Room) {
	t.Helper()
	auth.Init() // ephemeral keys, no DB needed
	logger := logrus.New()
	rs := NewRoomServer(logger)
	room := rs.CreateRoom(models.DefaultRoomRules())
	srv := httptest.NewServer(RoomWSHandler(logger, rs))
	t.Cleanup(srv.Close)
	return srv, room
}

func wsURL(srv *httptest.Server, roomID uuid.UUID) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/room/ws/" + roomID.String()
}

// guestCookie carries a valid token so the handler never touches the DB.
func guestCookie(t *testing.T) http.Header {
	t.Helper()
	token, err := auth.CreateJWT(uuid.New().String())
	require.NoError(t, err)
	h := http.Header{}
	h.Set("Cookie", "auth_token="+token)
	return h
}

func TestRoomWSClosesOnMissingSubprotocol(t *testing.T) {
	srv, room := newWSTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Dial without offering the required subprotocol.
	c, _, err := websocket.Dial(ctx, wsURL(srv, room.ID), &websocket.DialOptions{
		HTTPHeader: guestCookie(t),
	})
	require.NoError(t, err)
	defer c.Close(websocket.StatusNormalClosure, "")

	_, _, err = c.Read(ctx)
	require.Error(t, err)
	require.Equal(t, websocket.StatusCode(BadSubprotocolError), websocket.CloseStatus(err))
}

func TestRoomWSClosesWhenRoomFull(t *testing.T) {
	srv, room := newWSTestServer(t)
	for _, name := range []string{"alice", "bob", "cara"} {
		_, err := room.JoinSeat(uuid.New(), name)
		require.NoError(t, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c, _, err := websocket.Dial(ctx, wsURL(srv, room.ID), &websocket.DialOptions{
		Subprotocols: []string{"doudizhu"},
		HTTPHeader:   guestCookie(t),
	})
	require.NoError(t, err)
	defer c.Close(websocket.StatusNormalClosure, "")

	_, _, err = c.Read(ctx)
	require.Error(t, err)
	require.Equal(t, websocket.StatusCode(SeatRejectedError), websocket.CloseStatus(err))
}
