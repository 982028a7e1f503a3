package ws

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"retro-chat/services"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The login token gates entry, not the origin; the terminal client is
	// served from arbitrary hosts.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler upgrades HTTP requests to websocket connections and wires each one
// into the chat engine.
type Handler struct {
	log        *slog.Logger
	chat       services.IChatService
	sendBuffer int
}

func NewHandler(log *slog.Logger, chat services.IChatService, sendBuffer int) *Handler {
	return &Handler{log: log, chat: chat, sendBuffer: sendBuffer}
}

func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	sock, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "err", err)
		return
	}

	connectionID := uuid.NewString()
	conn := NewConn(connectionID, sock, h.chat, h.log, h.sendBuffer)
	h.chat.Attach(connectionID, conn)
	h.log.Debug("connection established", "connection_id", connectionID, "remote", r.RemoteAddr)

	// The request context dies when this handler returns; the pumps outlive
	// it on the hijacked connection.
	go conn.WritePump()
	go conn.ReadPump(context.Background())
}
