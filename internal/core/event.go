package core

import "time"

// EventKind is a notification the core emits to sessions.
type EventKind int

const (
	// EventRoomMessage delivers a chat message to room subscribers.
	EventRoomMessage EventKind = iota
	// EventKeepAlive is the periodic liveness signal to the client.
	EventKeepAlive
)

// Event is sent to sessions to describe what happened in the system.
type Event struct {
	Kind    EventKind
	Room    string
	Message Message
	SentAt  time.Time // for EventKeepAlive
}
