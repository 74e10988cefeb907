package core

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/steamchat/steamchat-server/internal/store"
)

// DurabilityMode selects how the pipeline orders the durable write
// relative to the live fan-out.
type DurabilityMode string

const (
	// PersistFirst writes the message synchronously and only fans out
	// on success. Everything a subscriber sees is already durable.
	PersistFirst DurabilityMode = "persist-first"
	// BroadcastFirst fans out immediately and writes in the
	// background. Lowest delivery latency; a write failure loses the
	// message from history even though live subscribers saw it.
	BroadcastFirst DurabilityMode = "broadcast-first"
)

// ParseDurabilityMode validates a configured mode string.
func ParseDurabilityMode(s string) (DurabilityMode, error) {
	switch DurabilityMode(s) {
	case PersistFirst, BroadcastFirst:
		return DurabilityMode(s), nil
	default:
		return "", fmt.Errorf("unknown durability mode %q", s)
	}
}

// Pipeline accepts inbound messages, fans them out to the room's live
// subscribers and drives the durable write under the configured
// durability mode. Both the REST path and the WebSocket path submit
// through the same contract.
type Pipeline struct {
	hub          *Hub
	messages     store.MessageStore
	mode         DurabilityMode
	writeTimeout time.Duration
	log          zerolog.Logger

	writes sync.WaitGroup
}

// NewPipeline constructs a pipeline. writeTimeout bounds every
// persistence call.
func NewPipeline(hub *Hub, messages store.MessageStore, mode DurabilityMode, writeTimeout time.Duration, logger *zerolog.Logger) *Pipeline {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Pipeline{
		hub:          hub,
		messages:     messages,
		mode:         mode,
		writeTimeout: writeTimeout,
		log:          *logger,
	}
}

// Mode returns the configured durability mode.
func (p *Pipeline) Mode() DurabilityMode {
	return p.mode
}

// Submit validates the message and runs it through the pipeline.
//
// Under PersistFirst the returned message carries the store-assigned
// ID and the broadcast happens only after a successful write; a
// storage failure aborts the operation with ErrCodeStorageUnavailable
// and nothing is broadcast.
//
// Under BroadcastFirst the message is stamped (the caller-supplied
// CreatedAt is honored when set), fanned out immediately and written
// in the background; the returned message has no ID yet and a later
// write failure is reported through the log only.
func (p *Pipeline) Submit(ctx context.Context, msg *Message) (*Message, error) {
	if err := msg.Validate(); err != nil {
		return nil, err
	}

	switch p.mode {
	case BroadcastFirst:
		return p.submitBroadcastFirst(msg), nil
	default:
		return p.submitPersistFirst(ctx, msg)
	}
}

func (p *Pipeline) submitPersistFirst(ctx context.Context, msg *Message) (*Message, error) {
	rec := toStoreMessage(msg)
	rec.CreatedAt = time.Now().UTC()

	wctx, cancel := context.WithTimeout(ctx, p.writeTimeout)
	defer cancel()

	if err := p.messages.SaveMessage(wctx, rec); err != nil {
		p.log.Error().Err(err).Str("room_id", msg.RoomID).Msg("message write failed")
		return nil, storageUnavailable(err)
	}

	out := fromStoreMessage(rec)
	p.hub.Broadcast(out.RoomID, &Event{Kind: EventRoomMessage, Room: out.RoomID, Message: *out})
	return out, nil
}

func (p *Pipeline) submitBroadcastFirst(msg *Message) *Message {
	out := *msg
	if out.CreatedAt.IsZero() {
		out.CreatedAt = time.Now().UTC()
	}
	out.ID = "" // assigned at persistence time, subscribers see the pre-persist shape

	p.hub.Broadcast(out.RoomID, &Event{Kind: EventRoomMessage, Room: out.RoomID, Message: out})

	p.writes.Add(1)
	go p.writeBehind(out)

	return &out
}

// writeBehind performs the deferred durable write: one attempt plus one
// retry, then give up. The failure is never surfaced to the sender,
// whose submit was already acknowledged.
func (p *Pipeline) writeBehind(msg Message) {
	defer p.writes.Done()

	rec := toStoreMessage(&msg)

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), p.writeTimeout)
		lastErr = p.messages.SaveMessage(ctx, rec)
		cancel()
		if lastErr == nil {
			return
		}
	}

	p.log.Error().
		Err(lastErr).
		Str("room_id", msg.RoomID).
		Str("user_id", msg.UserID).
		Msg("background message write failed, message lost from history")
}

// Drain waits for in-flight background writes to finish, up to the
// context deadline. In-flight writes are never cancelled by client
// disconnects; this is only for process shutdown.
func (p *Pipeline) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		p.writes.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func toStoreMessage(msg *Message) *store.Message {
	return &store.Message{
		ID:         msg.ID,
		RoomID:     msg.RoomID,
		UserID:     msg.UserID,
		UserName:   msg.UserName,
		Avatar:     msg.Avatar,
		Type:       string(msg.Type),
		Text:       msg.Text,
		TeamID:     msg.TeamID,
		TeamName:   msg.TeamName,
		TeamAvatar: msg.TeamAvatar,
		CreatedAt:  msg.CreatedAt,
	}
}

func fromStoreMessage(rec *store.Message) *Message {
	return &Message{
		ID:         rec.ID,
		RoomID:     rec.RoomID,
		UserID:     rec.UserID,
		UserName:   rec.UserName,
		Avatar:     rec.Avatar,
		Type:       MessageType(rec.Type),
		Text:       rec.Text,
		TeamID:     rec.TeamID,
		TeamName:   rec.TeamName,
		TeamAvatar: rec.TeamAvatar,
		CreatedAt:  rec.CreatedAt,
	}
}
