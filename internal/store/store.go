package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Room represents a chat room.
type Room struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// Message represents a persisted chat message.
//
// Seq is the store-assigned insertion counter. Retrieval order is
// CreatedAt ascending with Seq breaking ties, so messages written in
// the same instant keep their insertion order.
type Message struct {
	ID         string
	Seq        int64
	RoomID     string
	UserID     string
	UserName   string
	Avatar     string
	Type       string
	Text       string
	TeamID     string
	TeamName   string
	TeamAvatar string
	CreatedAt  time.Time
}

// RoomStore handles room persistence.
type RoomStore interface {
	// CreateRoom creates a new room with a fresh id and persists it
	// before returning.
	CreateRoom(ctx context.Context, name string) (*Room, error)

	// GetRoomByID retrieves a room by ID. Returns ErrNotFound if the
	// room does not exist.
	GetRoomByID(ctx context.Context, id string) (*Room, error)

	// ListRooms lists all rooms as a single snapshot.
	ListRooms(ctx context.Context) ([]*Room, error)
}

// MessageStore handles message persistence.
type MessageStore interface {
	// SaveMessage persists a message. The store assigns ID (if empty),
	// Seq and, when CreatedAt is zero, the timestamp.
	SaveMessage(ctx context.Context, msg *Message) error

	// ListMessages retrieves all messages of a room ordered by
	// CreatedAt ascending, insertion order breaking ties. An unknown
	// room yields an empty slice, not an error.
	ListMessages(ctx context.Context, roomID string) ([]*Message, error)
}

// Store aggregates all storage interfaces.
type Store interface {
	RoomStore
	MessageStore

	// Close closes the underlying database connection.
	Close() error
}
