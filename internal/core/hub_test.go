package core

import "testing"

func TestHubJoinAndBroadcast(t *testing.T) {
	hub := startHub(t)

	alice := NewSession("a")
	bob := NewSession("b")
	hub.RegisterSession(alice)
	hub.RegisterSession(bob)
	hub.JoinRoom(alice, "general")
	hub.JoinRoom(bob, "general")

	msg := validTextMessage()
	msg.RoomID = "general"
	hub.Broadcast("general", &Event{Kind: EventRoomMessage, Room: "general", Message: msg})

	for _, session := range []*Session{alice, bob} {
		ev := mustEvent(t, session.Events, EventRoomMessage)
		if ev.Message.Text != "hi" || ev.Message.RoomID != "general" {
			t.Fatalf("unexpected message event: %+v", ev)
		}
	}
}

func TestHubRoomIsolation(t *testing.T) {
	hub := startHub(t)

	alice := NewSession("a")
	bob := NewSession("b")
	hub.RegisterSession(alice)
	hub.RegisterSession(bob)
	hub.JoinRoom(alice, "room-a")
	hub.JoinRoom(bob, "room-b")

	msg := validTextMessage()
	msg.RoomID = "room-a"
	hub.Broadcast("room-a", &Event{Kind: EventRoomMessage, Room: "room-a", Message: msg})

	mustEvent(t, alice.Events, EventRoomMessage)
	noEvent(t, bob.Events, EventRoomMessage)
}

func TestHubJoinAfterBroadcastExclusion(t *testing.T) {
	hub := startHub(t)

	alice := NewSession("a")
	hub.RegisterSession(alice)

	msg := validTextMessage()
	hub.Broadcast("r1", &Event{Kind: EventRoomMessage, Room: "r1", Message: msg})

	hub.JoinRoom(alice, "r1")
	noEvent(t, alice.Events, EventRoomMessage)

	// Joined now, so the next fan-out reaches the session.
	hub.Broadcast("r1", &Event{Kind: EventRoomMessage, Room: "r1", Message: msg})
	mustEvent(t, alice.Events, EventRoomMessage)
}

func TestHubJoinIsIdempotent(t *testing.T) {
	hub := startHub(t)

	alice := NewSession("a")
	hub.RegisterSession(alice)
	hub.JoinRoom(alice, "general")
	hub.JoinRoom(alice, "general")

	msg := validTextMessage()
	msg.RoomID = "general"
	hub.Broadcast("general", &Event{Kind: EventRoomMessage, Room: "general", Message: msg})

	mustEvent(t, alice.Events, EventRoomMessage)
	noEvent(t, alice.Events, EventRoomMessage)
}

func TestHubUnregisterIsIdempotent(t *testing.T) {
	hub := startHub(t)

	alice := NewSession("a")
	bob := NewSession("b")
	hub.RegisterSession(alice)
	hub.RegisterSession(bob)
	hub.JoinRoom(alice, "general")
	hub.JoinRoom(bob, "general")

	// Disconnect may be signalled more than once; both calls must
	// leave the same end state.
	hub.UnregisterSession(alice)
	hub.UnregisterSession(alice)

	if !alice.Closed() {
		t.Fatal("expected session to be closed after unregister")
	}

	msg := validTextMessage()
	msg.RoomID = "general"
	hub.Broadcast("general", &Event{Kind: EventRoomMessage, Room: "general", Message: msg})

	mustEvent(t, bob.Events, EventRoomMessage)
	noEvent(t, alice.Events, EventRoomMessage)
}

func TestHubLeaveRoomStopsDelivery(t *testing.T) {
	hub := startHub(t)

	alice := NewSession("a")
	hub.RegisterSession(alice)
	hub.JoinRoom(alice, "general")
	hub.LeaveRoom(alice, "general")

	msg := validTextMessage()
	msg.RoomID = "general"
	hub.Broadcast("general", &Event{Kind: EventRoomMessage, Room: "general", Message: msg})

	noEvent(t, alice.Events, EventRoomMessage)
}
