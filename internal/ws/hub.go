// Package ws is the realtime room broker: it groups live websocket
// connections into per-snippet rooms, relays edit and chat frames between
// them, and pokes the snippet's activity clock on every interaction.
package ws

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Session is one live connection as the hub sees it. *Client is the real
// implementation; tests use fakes that record what was sent.
//
// Send must not block: it reports false when the frame couldn't be queued
// (slow consumer, closed connection), and the hub drops the frame for that
// member. At-most-once delivery already allows this, and one stalled reader
// must not hold up the whole room.
type Session interface {
	ID() string
	Send(frame Frame) bool
}

// Toucher refreshes a snippet's activity/expiry. service.TextService
// satisfies it; the hub needs nothing else from the snippet layer.
type Toucher interface {
	Touch(ctx context.Context, id string) error
}

// touchTimeout bounds the store write behind an activity refresh so a slow
// disk can't pile up goroutines.
const touchTimeout = 5 * time.Second

// Hub owns the room membership table. Rooms are created implicitly on the
// first join and removed when the last member leaves — membership is
// derived entirely from live connections, nothing is persisted.
//
// All mutation goes through Join/Leave/Disconnect under the mutex; there is
// no external access to the maps.
type Hub struct {
	mu sync.RWMutex
	// rooms maps a snippet id to the sessions currently viewing it.
	rooms map[string]map[string]Session
	// joined maps a session id to the room it is in. A session is in at
	// most one room; joining another implicitly leaves the first.
	joined map[string]string

	texts  Toucher
	logger *slog.Logger
}

// NewHub creates an empty Hub.
func NewHub(texts Toucher, logger *slog.Logger) *Hub {
	return &Hub{
		rooms:  make(map[string]map[string]Session),
		joined: make(map[string]string),
		texts:  texts,
		logger: logger,
	}
}

// Join adds the session to a room, moving it out of any previous room, and
// refreshes the snippet's activity.
func (h *Hub) Join(s Session, roomID string) {
	if roomID == "" {
		return
	}

	h.mu.Lock()
	if prev, ok := h.joined[s.ID()]; ok && prev != roomID {
		h.removeLocked(s, prev)
	}
	room, ok := h.rooms[roomID]
	if !ok {
		room = make(map[string]Session)
		h.rooms[roomID] = room
	}
	room[s.ID()] = s
	h.joined[s.ID()] = roomID
	h.mu.Unlock()

	h.logger.Debug("session joined room",
		slog.String("session", s.ID()),
		slog.String("room", roomID),
	)
	h.touch(roomID)
}

// Leave removes the session from the given room. No-op if it isn't there.
func (h *Hub) Leave(s Session, roomID string) {
	h.mu.Lock()
	if h.joined[s.ID()] == roomID {
		h.removeLocked(s, roomID)
	}
	h.mu.Unlock()
}

// Disconnect removes the session from whatever room it was in. Called by
// the client when its connection dies; has no other side effects.
func (h *Hub) Disconnect(s Session) {
	h.mu.Lock()
	if roomID, ok := h.joined[s.ID()]; ok {
		h.removeLocked(s, roomID)
	}
	h.mu.Unlock()
}

// removeLocked drops the session from a room and reaps the room when empty.
// Caller holds h.mu.
func (h *Hub) removeLocked(s Session, roomID string) {
	if room, ok := h.rooms[roomID]; ok {
		delete(room, s.ID())
		if len(room) == 0 {
			delete(h.rooms, roomID)
		}
	}
	delete(h.joined, s.ID())
}

// TextUpdate relays an edit to every other member of the room. The sender
// is excluded — its editor already shows the text it just typed, and an
// echo would clobber the caret.
func (h *Hub) TextUpdate(sender Session, roomID, text, syntax string) {
	h.broadcast(roomID, Frame{
		Event:  EventTextUpdated,
		Text:   text,
		Syntax: syntax,
	}, sender.ID())
	h.touch(roomID)
}

// ChatMessage relays a chat line to every member of the room, sender
// included, with a server-stamped timestamp so all clients agree on it.
func (h *Hub) ChatMessage(sender Session, roomID, message, from string) {
	h.broadcast(roomID, Frame{
		Event:     EventChatMessage,
		Message:   message,
		Sender:    from,
		Timestamp: time.Now().UnixMilli(),
	}, "")
	h.touch(roomID)
}

// broadcast sends a frame to the room, skipping excludeID when non-empty.
// Frames that can't be queued are dropped per member, and the drop is
// logged — never propagated.
func (h *Hub) broadcast(roomID string, frame Frame, excludeID string) {
	h.mu.RLock()
	room := h.rooms[roomID]
	members := make([]Session, 0, len(room))
	for id, s := range room {
		if id == excludeID {
			continue
		}
		members = append(members, s)
	}
	h.mu.RUnlock()

	for _, s := range members {
		if !s.Send(frame) {
			h.logger.Warn("dropping frame for slow session",
				slog.String("session", s.ID()),
				slog.String("room", roomID),
				slog.String("event", frame.Event),
			)
		}
	}
}

// touch refreshes the snippet's activity/expiry. Best effort: a failure is
// logged and swallowed so persistence trouble never interrupts the
// broadcast path.
func (h *Hub) touch(roomID string) {
	ctx, cancel := context.WithTimeout(context.Background(), touchTimeout)
	defer cancel()

	if err := h.texts.Touch(ctx, roomID); err != nil {
		h.logger.Error("activity refresh failed",
			slog.String("room", roomID),
			slog.String("error", err.Error()),
		)
	}
}
