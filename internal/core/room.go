package core

// Room is the live subscriber set for one room id. It is owned by the
// hub goroutine; no method is safe for concurrent use.
type Room struct {
	ID       string
	sessions map[*Session]struct{}
}

// NewRoom constructs a room with no subscribers.
func NewRoom(id string) *Room {
	return &Room{
		ID:       id,
		sessions: make(map[*Session]struct{}),
	}
}

// Add inserts a session into the room. Returns true if newly added.
func (r *Room) Add(s *Session) bool {
	if _, exists := r.sessions[s]; exists {
		return false
	}
	r.sessions[s] = struct{}{}
	return true
}

// Remove deletes a session from the room. Returns true if removed.
func (r *Room) Remove(s *Session) bool {
	if _, exists := r.sessions[s]; !exists {
		return false
	}
	delete(r.sessions, s)
	return true
}

// Broadcast sends an event to all subscribed sessions, at most once
// each. Sessions whose event buffer is full are skipped.
func (r *Room) Broadcast(event *Event) {
	for session := range r.sessions {
		select {
		case session.Events <- event:
		default:
			// Drop if slow consumer.
		}
	}
}

// Empty returns true if no sessions are subscribed.
func (r *Room) Empty() bool {
	return len(r.sessions) == 0
}
