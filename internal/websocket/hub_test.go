package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"go-social-api/internal/event"
)

func newTestClient(userID string, project string) *Client {
	return &Client{send: make(chan []byte, 4), userID: userID, project: project}
}

func receive(t *testing.T, c *Client) event.Event {
	t.Helper()

	select {
	case raw := <-c.send:
		var e event.Event
		require.NoError(t, json.Unmarshal(raw, &e))
		return e
	case <-time.After(time.Second):
		t.Fatal("no message delivered")
		return event.Event{}
	}
}

func TestHubBroadcastsWithinProjectOnly(t *testing.T) {
	t.Parallel()

	bus := event.NewBus()
	hub := NewHub(bus)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	alice := newTestClient("alice", "p1")
	bob := newTestClient("bob", "p2")
	require.True(t, hub.Register(ctx, alice))
	require.True(t, hub.Register(ctx, bob))

	bus.Publish(event.New(event.TypePostCreated, "p1", "carol", nil))

	got := receive(t, alice)
	require.Equal(t, event.TypePostCreated, got.Type)
	require.Equal(t, "carol", got.ActorID)

	select {
	case <-bob.send:
		t.Fatal("client in another project received the event")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubUnregisterClosesSend(t *testing.T) {
	t.Parallel()

	hub := NewHub(event.NewBus())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	c := newTestClient("alice", "p1")
	require.True(t, hub.Register(ctx, c))
	hub.Unregister(ctx, c)

	select {
	case _, open := <-c.send:
		require.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("send channel not closed")
	}
}

func TestHubStopClosesClients(t *testing.T) {
	t.Parallel()

	hub := NewHub(event.NewBus())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()

	c := newTestClient("alice", "p1")
	require.True(t, hub.Register(ctx, c))
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("hub did not stop")
	}

	_, open := <-c.send
	require.False(t, open)
}
