package core

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/steamchat/steamchat-server/internal/store"
)

func mustEvent(t *testing.T, ch <-chan *Event, kind EventKind) *Event {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		select {
		case ev := <-ch:
			if ev == nil {
				continue
			}
			if ev.Kind == kind {
				return ev
			}
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
	t.Fatalf("expected event kind %v not received", kind)
	return nil
}

// noEvent asserts the channel holds no event of the given kind. Usable
// without waiting because hub operations are applied synchronously.
func noEvent(t *testing.T, ch <-chan *Event, kind EventKind) {
	t.Helper()

	for {
		select {
		case ev := <-ch:
			if ev != nil && ev.Kind == kind {
				t.Fatalf("unexpected event: %+v", ev)
			}
		default:
			return
		}
	}
}

// fakeMessageStore implements store.MessageStore in memory with
// injectable failures and an optional gate that stalls writes.
type fakeMessageStore struct {
	mu       sync.Mutex
	saved    []*store.Message
	attempts int
	failures int // number of leading SaveMessage calls to fail

	gate    chan struct{}       // non-nil: SaveMessage blocks until closed
	savedCh chan *store.Message // non-nil: successful saves are announced
}

func newFakeMessageStore() *fakeMessageStore {
	return &fakeMessageStore{savedCh: make(chan *store.Message, 8)}
}

func (f *fakeMessageStore) SaveMessage(ctx context.Context, msg *store.Message) error {
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.attempts++
	if f.attempts <= f.failures {
		return errors.New("store down")
	}

	if msg.ID == "" {
		msg.ID = fmt.Sprintf("m%d", len(f.saved)+1)
	}
	msg.Seq = int64(len(f.saved) + 1)
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}

	cp := *msg
	f.saved = append(f.saved, &cp)
	if f.savedCh != nil {
		select {
		case f.savedCh <- &cp:
		default:
		}
	}
	return nil
}

func (f *fakeMessageStore) ListMessages(_ context.Context, roomID string) ([]*store.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*store.Message
	for _, msg := range f.saved {
		if msg.RoomID == roomID {
			cp := *msg
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].Seq < out[j].Seq
	})
	return out, nil
}

func (f *fakeMessageStore) savedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.saved)
}

func (f *fakeMessageStore) attemptCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.attempts
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal(msg)
}

// startHub runs a hub for the duration of the test.
func startHub(t *testing.T) *Hub {
	t.Helper()

	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)
	return hub
}
