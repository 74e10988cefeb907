package core

import (
	"context"
	"testing"
	"time"
)

func TestSessionHeartbeat(t *testing.T) {
	session := NewSession("s1")
	defer session.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go session.RunHeartbeat(ctx, 10*time.Millisecond)

	ev := mustEvent(t, session.Events, EventKeepAlive)
	if ev.SentAt.IsZero() {
		t.Fatal("expected keep-alive event to carry a timestamp")
	}

	sent, ack := session.HeartbeatTimes()
	if sent.IsZero() {
		t.Fatal("expected lastHeartbeatSentAt to be recorded")
	}
	if !ack.IsZero() {
		t.Fatal("expected no ack before the client sends one")
	}

	now := time.Now()
	session.MarkHeartbeatAck(now)
	if _, ack := session.HeartbeatTimes(); !ack.Equal(now) {
		t.Fatalf("expected ack time %v, got %v", now, ack)
	}
}

func TestSessionMissedAckKeepsConnection(t *testing.T) {
	session := NewSession("s1")
	defer session.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go session.RunHeartbeat(ctx, 5*time.Millisecond)

	// Several heartbeats without any ack; the session stays open.
	mustEvent(t, session.Events, EventKeepAlive)
	mustEvent(t, session.Events, EventKeepAlive)
	mustEvent(t, session.Events, EventKeepAlive)

	if session.Closed() {
		t.Fatal("missed acks must not close the session")
	}
}

func TestSessionCloseIsIdempotent(t *testing.T) {
	session := NewSession("s1")

	session.Close()
	session.Close()

	if !session.Closed() {
		t.Fatal("expected session to be closed")
	}
}

func TestSessionCloseStopsHeartbeat(t *testing.T) {
	session := NewSession("s1")

	stopped := make(chan struct{})
	go func() {
		session.RunHeartbeat(context.Background(), 5*time.Millisecond)
		close(stopped)
	}()

	session.Close()

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("heartbeat loop did not stop after session close")
	}
}
