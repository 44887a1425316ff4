package ws

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alumnet/alumnet-backend/internal/domain"
	"github.com/alumnet/alumnet-backend/internal/service"
)

var _ service.Notifier = (*Hub)(nil)

func startHub(t *testing.T) *Hub {
	t.Helper()
	h := NewHub(nil)
	h.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	go h.Run()
	t.Cleanup(h.Stop)
	return h
}

func connect(t *testing.T, h *Hub, userID string) *Client {
	t.Helper()
	c := &Client{hub: h, send: make(chan []byte, 4), userID: userID}
	h.Register(c)
	require.Eventually(t, func() bool { return h.Online(userID) > 0 }, time.Second, 5*time.Millisecond)
	return c
}

func receive(t *testing.T, c *Client) domain.RealtimeEvent {
	t.Helper()
	select {
	case raw := <-c.send:
		var ev domain.RealtimeEvent
		require.NoError(t, json.Unmarshal(raw, &ev))
		return ev
	case <-time.After(time.Second):
		t.Fatal("no event delivered")
	}
	return domain.RealtimeEvent{}
}

func TestHub_DeliversOnlyToTarget(t *testing.T) {
	h := startHub(t)
	alice := connect(t, h, "alice")
	bob := connect(t, h, "bob")

	h.Notify("alice", domain.EventMessageCreated, map[string]string{"content": "hi"})

	ev := receive(t, alice)
	assert.Equal(t, domain.EventMessageCreated, ev.Type)
	assert.Equal(t, "alice", ev.UserID)
	assert.Equal(t, 2026, ev.CreatedAt.Year())
	assert.Equal(t, map[string]interface{}{"content": "hi"}, ev.Data)

	select {
	case <-bob.send:
		t.Fatal("event leaked to another user")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_FansOutToEveryConnection(t *testing.T) {
	h := startHub(t)
	first := connect(t, h, "carol")
	second := &Client{hub: h, send: make(chan []byte, 4), userID: "carol"}
	h.Register(second)
	require.Eventually(t, func() bool { return h.Online("carol") == 2 }, time.Second, 5*time.Millisecond)

	h.Notify("carol", domain.EventConnectionAccepted, nil)

	assert.Equal(t, domain.EventConnectionAccepted, receive(t, first).Type)
	assert.Equal(t, domain.EventConnectionAccepted, receive(t, second).Type)
}

func TestHub_UnregisterClosesSend(t *testing.T) {
	h := startHub(t)
	c := connect(t, h, "dave")

	h.unregister <- c
	require.Eventually(t, func() bool { return h.Online("dave") == 0 }, time.Second, 5*time.Millisecond)

	_, open := <-c.send
	assert.False(t, open)
}

func TestHub_IgnoresAnonymousTarget(t *testing.T) {
	h := NewHub(nil)
	h.Notify("", domain.EventMessagesRead, nil)
	assert.Len(t, h.broadcast, 0)
}
