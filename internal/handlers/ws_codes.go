// internal/handlers/ws_codes.go
package handlers

// Custom WebSocket close codes used within the room handlers. These provide
// more specific reasons for closure than standard codes. Authentication and
// room lookup happen before the upgrade, so those rejections travel as plain
// HTTP statuses instead of close frames.
const (
	BadSubprotocolError = 3000 // Client connected with an unsupported subprotocol.
	SeatRejectedError   = 3001 // Room was full or the display name was already seated.
)
