package core

import (
	"context"
	"sync"
	"time"
)

// sessionEventBuffer bounds the per-session outbound queue. Broadcasts
// to a session with a full buffer are dropped rather than blocking the
// fan-out.
const sessionEventBuffer = 16

// Session is the server-side state for one live client connection.
type Session struct {
	ID     string
	Events chan *Event

	// rooms is owned by the hub goroutine.
	rooms map[string]struct{}

	mu                  sync.Mutex
	lastHeartbeatSentAt time.Time
	lastHeartbeatAckAt  time.Time

	closeOnce sync.Once
	done      chan struct{}
}

// NewSession constructs a session with an initialized event channel.
func NewSession(id string) *Session {
	return &Session{
		ID:     id,
		Events: make(chan *Event, sessionEventBuffer),
		rooms:  make(map[string]struct{}),
		done:   make(chan struct{}),
	}
}

// RunHeartbeat emits EventKeepAlive on the session's event channel at a
// fixed interval until the context is cancelled or the session closes.
// A tick to a full event channel is dropped; a missed heartbeat never
// closes the connection.
func (s *Session) RunHeartbeat(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			s.mu.Lock()
			s.lastHeartbeatSentAt = now
			s.mu.Unlock()

			select {
			case s.Events <- &Event{Kind: EventKeepAlive, SentAt: now}:
			default:
			}
		case <-ctx.Done():
			return
		case <-s.done:
			return
		}
	}
}

// MarkHeartbeatAck records a client acknowledgment. Acks only feed
// observability; they are not required to keep the connection open.
func (s *Session) MarkHeartbeatAck(t time.Time) {
	s.mu.Lock()
	s.lastHeartbeatAckAt = t
	s.mu.Unlock()
}

// HeartbeatTimes returns the last sent and last acked heartbeat times.
func (s *Session) HeartbeatTimes() (sent, ack time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastHeartbeatSentAt, s.lastHeartbeatAckAt
}

// Close releases session resources. Safe to call more than once; only
// the first call has any effect.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
	})
}

// Closed reports whether the session has been closed.
func (s *Session) Closed() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}
