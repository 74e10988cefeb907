package core

import (
	"context"

	"github.com/rs/zerolog"
)

// Hub owns the live session registry and the per-room subscriber sets.
// All mutations and broadcasts are applied on the single goroutine
// running Run, so a fan-out never observes a half-updated subscriber
// set and a session joining after a fan-out never receives that
// message.
type Hub struct {
	log zerolog.Logger

	ops  chan hubOp
	done chan struct{}

	// Owned by the Run goroutine.
	rooms    map[string]*Room
	sessions map[string]*Session
}

type hubOp struct {
	apply   func(*Hub)
	applied chan struct{}
}

// NewHub creates a new hub instance.
func NewHub(logger *zerolog.Logger) *Hub {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Hub{
		log:      *logger,
		ops:      make(chan hubOp),
		done:     make(chan struct{}),
		rooms:    make(map[string]*Room),
		sessions: make(map[string]*Session),
	}
}

// Run processes hub operations until the context is cancelled. It must
// be running for any other hub method to make progress.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case op := <-h.ops:
			op.apply(h)
			close(op.applied)
		case <-ctx.Done():
			return
		}
	}
}

// do submits an operation to the hub goroutine and waits for it to be
// applied. Returns false if the hub has stopped.
func (h *Hub) do(fn func(*Hub)) bool {
	op := hubOp{apply: fn, applied: make(chan struct{})}
	select {
	case h.ops <- op:
	case <-h.done:
		return false
	}
	select {
	case <-op.applied:
		return true
	case <-h.done:
		return false
	}
}

// RegisterSession adds a session to the registry.
func (h *Hub) RegisterSession(s *Session) {
	h.do(func(h *Hub) {
		h.sessions[s.ID] = s
		h.log.Debug().Str("session_id", s.ID).Msg("session registered")
	})
}

// UnregisterSession removes the session from the registry and from
// every room's subscriber set, then closes it. Idempotent: the second
// and later calls for the same session are no-ops.
func (h *Hub) UnregisterSession(s *Session) {
	h.do(func(h *Hub) {
		if _, exists := h.sessions[s.ID]; !exists {
			return
		}
		delete(h.sessions, s.ID)

		for roomID := range s.rooms {
			if room, ok := h.rooms[roomID]; ok {
				room.Remove(s)
				if room.Empty() {
					delete(h.rooms, roomID)
				}
			}
		}
		s.rooms = make(map[string]struct{})

		h.log.Debug().Str("session_id", s.ID).Msg("session unregistered")
	})
	s.Close()
}

// JoinRoom subscribes the session to a room. Joining a room already
// joined is a no-op.
func (h *Hub) JoinRoom(s *Session, roomID string) {
	if roomID == "" {
		return
	}
	h.do(func(h *Hub) {
		if _, exists := h.sessions[s.ID]; !exists {
			return
		}
		room, ok := h.rooms[roomID]
		if !ok {
			room = NewRoom(roomID)
			h.rooms[roomID] = room
		}
		if room.Add(s) {
			s.rooms[roomID] = struct{}{}
			h.log.Debug().Str("session_id", s.ID).Str("room_id", roomID).Msg("session joined room")
		}
	})
}

// LeaveRoom unsubscribes the session from a room. Leaving a room not
// joined is a no-op.
func (h *Hub) LeaveRoom(s *Session, roomID string) {
	h.do(func(h *Hub) {
		room, ok := h.rooms[roomID]
		if !ok {
			return
		}
		if room.Remove(s) {
			delete(s.rooms, roomID)
		}
		if room.Empty() {
			delete(h.rooms, roomID)
		}
	})
}

// Broadcast fans an event out to every session subscribed to the room
// at this instant. A room with no subscribers is a no-op.
func (h *Hub) Broadcast(roomID string, event *Event) {
	h.do(func(h *Hub) {
		if room, ok := h.rooms[roomID]; ok {
			room.Broadcast(event)
		}
	})
}
