package http

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/steamchat/steamchat-server/internal/config"
	"github.com/steamchat/steamchat-server/internal/core"
	"github.com/steamchat/steamchat-server/internal/store"
	"github.com/steamchat/steamchat-server/internal/store/sqlite"
)

// createTestStore creates an in-memory SQLite store with schema applied.
func createTestStore(t *testing.T) store.Store {
	t.Helper()

	st, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

// startTestServer wires a hub, pipeline and store behind an httptest
// server with the given durability mode and heartbeat interval.
func startTestServer(t *testing.T, mode core.DurabilityMode, heartbeat time.Duration) (*httptest.Server, store.Store) {
	t.Helper()

	st := createTestStore(t)

	hub := core.NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	logger := zerolog.Nop()
	pipeline := core.NewPipeline(hub, st, mode, time.Second, &logger)

	cfg := config.Config{
		Addr:              ":0",
		ReadHeaderTimeout: time.Second,
		ShutdownTimeout:   time.Second,
		HeartbeatInterval: heartbeat,
		WriteTimeout:      time.Second,
		Durability:        string(mode),
	}

	server := NewServer(hub, pipeline, st, &cfg, &logger)
	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)

	return ts, st
}
