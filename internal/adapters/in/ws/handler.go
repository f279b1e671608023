// Package ws bridges WebSocket connections into the notification hub.
// Each accepted connection becomes a hub session; inbound frames carry
// authentication, delivery acknowledgments, and heartbeat replies.
package ws

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"dispatch/internal/notifier"
	"dispatch/internal/pkg/errs"
)

const (
	writeWait      = 10 * time.Second
	maxMessageSize = 4096
)

// Handler upgrades HTTP requests to WebSocket connections and pumps
// inbound frames into the notification hub.
type Handler struct {
	hub      *notifier.Hub
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

// NewHandler creates a WebSocket handler bound to the given hub.
func NewHandler(hub *notifier.Hub, logger *slog.Logger) (*Handler, error) {
	if hub == nil {
		return nil, errs.NewValueIsRequiredError("hub")
	}
	if logger == nil {
		return nil, errs.NewValueIsRequiredError("logger")
	}

	return &Handler{
		hub:    hub,
		logger: logger.With("component", "ws_handler"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Device clients connect from native apps, not browsers.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}, nil
}

// Handle serves GET /ws. The connection is registered with the hub
// immediately; the client must authenticate before it receives anything
// beyond its welcome message.
func (h *Handler) Handle(ctx echo.Context) error {
	conn, err := h.upgrader.Upgrade(ctx.Response(), ctx.Request(), nil)
	if err != nil {
		return err
	}

	transport := newConnTransport(conn)
	sessionID, err := h.hub.Register(transport)
	if err != nil {
		_ = conn.Close()
		return err
	}

	h.logger.Info("connection accepted", "sessionId", sessionID, "remote", conn.RemoteAddr().String())

	go h.readPump(sessionID, conn)
	return nil
}

// inboundFrame is the client-to-server wire format.
type inboundFrame struct {
	Type       string `json:"type"`
	Credential string `json:"credential"`
	StaffID    string `json:"staffId"`
	MessageID  string `json:"messageId"`
}

// readPump consumes client frames until the connection drops, then removes
// the session from the hub. The pump outlives the HTTP handler, so it runs
// on its own context rather than the request's.
func (h *Handler) readPump(sessionID string, conn *websocket.Conn) {
	defer h.hub.Disconnect(sessionID)

	conn.SetReadLimit(maxMessageSize)

	for {
		var frame inboundFrame
		if err := conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("connection dropped", "sessionId", sessionID, "error", err)
			}
			return
		}

		h.hub.Touch(sessionID)

		switch frame.Type {
		case "auth":
			err := h.hub.Authenticate(context.Background(), sessionID, frame.Credential, frame.StaffID)
			if err != nil {
				h.logger.Warn("authentication rejected", "sessionId", sessionID, "error", err)
				return
			}
		case "ack":
			if !h.hub.Ack(sessionID, frame.MessageID) {
				h.logger.Debug("stale acknowledgment", "sessionId", sessionID, "messageId", frame.MessageID)
			}
		case "heartbeat_ack":
			// Touch above already refreshed the session.
		default:
			h.logger.Debug("unknown frame type", "sessionId", sessionID, "type", frame.Type)
		}
	}
}
