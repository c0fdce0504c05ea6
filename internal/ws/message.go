package ws

// Wire protocol for the realtime channel. Frames are JSON objects with an
// "event" discriminator; unused fields are omitted.
//
// Client → server: join, leave, text-update, chat-message.
// Server → client: text-updated (to everyone in the room but the sender),
// chat-message (to everyone in the room, sender included, so all clients
// render the same server-stamped message).
//
// This is a one-way, fire-and-forget contract: no acks, at-most-once
// delivery, and no ordering promise beyond "one sender's frames arrive in
// the order it sent them". Two clients editing at once simply race; the
// last broadcast a client observes wins in its editor.
const (
	EventJoin        = "join"
	EventLeave       = "leave"
	EventTextUpdate  = "text-update"
	EventTextUpdated = "text-updated"
	EventChatMessage = "chat-message"
)

// Frame is the single message shape for both directions.
type Frame struct {
	Event   string `json:"event"`
	TextID  string `json:"textId,omitempty"`
	Text    string `json:"text,omitempty"`
	Syntax  string `json:"syntax,omitempty"`
	Message string `json:"message,omitempty"`
	Sender  string `json:"sender,omitempty"`
	// Timestamp is stamped by the server on outgoing chat messages,
	// milliseconds since the epoch.
	Timestamp int64 `json:"timestamp,omitempty"`
}
