package ws

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/xid"
)

const (
	// Time allowed to write a frame to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong from the peer.
	pongWait = 60 * time.Second
	// Ping period; must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// Maximum inbound frame size. Generous enough for a full snippet edit.
	maxFrameSize = 1 << 20
	// Outbound buffer per connection; beyond this, frames are dropped.
	sendBuffer = 256
)

// Client pairs one websocket connection with the hub. It owns both pump
// goroutines: readPump is the only reader of the connection, writePump the
// only writer — gorilla requires exactly one of each.
type Client struct {
	id     string
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	logger *slog.Logger
}

// NewClient wraps an upgraded connection. Call Run to start the pumps.
func NewClient(hub *Hub, conn *websocket.Conn, logger *slog.Logger) *Client {
	return &Client{
		id:     xid.New().String(),
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		logger: logger,
	}
}

// ID returns the connection's identifier (used as room-membership key).
func (c *Client) ID() string {
	return c.id
}

// Send queues a frame for delivery. Non-blocking: a full buffer means the
// peer is too slow and the frame is dropped (the hub logs it).
func (c *Client) Send(frame Frame) bool {
	data, err := json.Marshal(frame)
	if err != nil {
		return false
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

// Run starts the write pump and blocks in the read pump until the
// connection dies. The caller's goroutine is the read pump.
func (c *Client) Run() {
	go c.writePump()
	c.readPump()
}

// readPump decodes inbound frames and dispatches them to the hub.
func (c *Client) readPump() {
	defer func() {
		c.hub.Disconnect(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxFrameSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debug("websocket read error",
					slog.String("session", c.id),
					slog.String("error", err.Error()),
				)
			}
			return
		}

		var frame Frame
		if err := json.Unmarshal(data, &frame); err != nil {
			// Malformed frames are ignored; the connection stays up.
			c.logger.Warn("ignoring malformed frame", slog.String("session", c.id))
			continue
		}

		switch frame.Event {
		case EventJoin:
			c.hub.Join(c, frame.TextID)
		case EventLeave:
			c.hub.Leave(c, frame.TextID)
		case EventTextUpdate:
			c.hub.TextUpdate(c, frame.TextID, frame.Text, frame.Syntax)
		case EventChatMessage:
			c.hub.ChatMessage(c, frame.TextID, frame.Message, frame.Sender)
		default:
			c.logger.Warn("ignoring unknown event",
				slog.String("session", c.id),
				slog.String("event", frame.Event),
			)
		}
	}
}

// writePump drains the send channel onto the connection and keeps the peer
// alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
