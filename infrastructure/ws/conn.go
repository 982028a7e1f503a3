// Package ws adapts websocket connections to the chat engine: each
// connection is one EventSink plus a pair of read/write pumps.
package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"retro-chat/domain/event"
	"retro-chat/services"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// Conn is one websocket connection seen from the engine. It implements
// contract.EventSink; outbound events go through a buffered channel so the
// engine never waits on a slow client.
type Conn struct {
	id        string
	sock      *websocket.Conn
	send      chan event.Outbound
	done      chan struct{}
	log       *slog.Logger
	chat      services.IChatService
	closeOnce sync.Once
}

func NewConn(id string, sock *websocket.Conn, chat services.IChatService,
	log *slog.Logger, sendBuffer int) *Conn {
	return &Conn{
		id:   id,
		sock: sock,
		send: make(chan event.Outbound, sendBuffer),
		done: make(chan struct{}),
		log:  log,
		chat: chat,
	}
}

func (c *Conn) ID() string { return c.id }

// Consume implements contract.EventSink. It never blocks: when the write
// buffer is full the event is dropped and the slow client misses it. A
// closed connection refuses events outright; the send channel itself is
// never closed because workers may hold the sink past teardown.
func (c *Conn) Consume(_ context.Context, e event.Outbound) error {
	select {
	case <-c.done:
		return fmt.Errorf("connection %s closed", c.id)
	default:
	}
	select {
	case c.send <- e:
		return nil
	default:
		return fmt.Errorf("connection %s write buffer full", c.id)
	}
}

// inboundFrame is the JSON envelope clients send.
type inboundFrame struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type joinPayload struct {
	Username string `json:"username"`
	Token    string `json:"token"`
	Channel  string `json:"channel"`
}

type messagePayload struct {
	Text    string `json:"text"`
	Channel string `json:"channel"`
}

type commandPayload struct {
	Command string `json:"command"`
}

type switchPayload struct {
	NewChannel string `json:"newChannel"`
}

// ReadPump consumes inbound frames until the connection dies, dispatching
// each to the engine. Malformed frames are dropped, never fatal; the engine
// treats missing fields as empty values.
func (c *Conn) ReadPump(ctx context.Context) {
	defer func() {
		c.chat.Disconnect(ctx, c.id)
		c.close()
	}()

	c.sock.SetReadLimit(maxMessageSize)
	_ = c.sock.SetReadDeadline(time.Now().Add(pongWait))
	c.sock.SetPongHandler(func(string) error {
		return c.sock.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.sock.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Debug("websocket read error", "connection_id", c.id, "err", err)
			}
			return
		}

		var frame inboundFrame
		if err := json.Unmarshal(raw, &frame); err != nil {
			c.log.Debug("dropping malformed frame", "connection_id", c.id, "err", err)
			continue
		}
		c.dispatch(ctx, frame)
	}
}

func (c *Conn) dispatch(ctx context.Context, frame inboundFrame) {
	switch frame.Type {
	case "join":
		var p joinPayload
		c.decode(frame.Payload, &p)
		// Join surfaces auth failures to this connection itself; the error
		// return only matters to callers that want to count them.
		_ = c.chat.Join(ctx, c.id, p.Username, p.Token, p.Channel)
	case "message":
		var p messagePayload
		c.decode(frame.Payload, &p)
		_ = c.chat.PostMessage(ctx, c.id, p.Text, p.Channel)
	case "command":
		var p commandPayload
		c.decode(frame.Payload, &p)
		c.chat.RunCommand(ctx, c.id, p.Command)
	case "switch_channel":
		var p switchPayload
		c.decode(frame.Payload, &p)
		c.chat.SwitchChannel(ctx, c.id, p.NewChannel)
	default:
		c.log.Debug("unknown frame type", "connection_id", c.id, "type", frame.Type)
	}
}

// decode fills the payload struct, leaving zero values on malformed input.
func (c *Conn) decode(raw json.RawMessage, into any) {
	if len(raw) == 0 {
		return
	}
	if err := json.Unmarshal(raw, into); err != nil {
		c.log.Debug("dropping malformed payload", "connection_id", c.id, "err", err)
	}
}

// WritePump forwards outbound events to the socket and keeps the connection
// alive with pings.
func (c *Conn) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case <-c.done:
			_ = c.sock.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.sock.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case evt := <-c.send:
			_ = c.sock.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.sock.WriteJSON(evt); err != nil {
				c.log.Debug("websocket write error", "connection_id", c.id, "err", err)
				return
			}
		case <-ticker.C:
			_ = c.sock.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.sock.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Conn) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.sock.Close()
	})
}
