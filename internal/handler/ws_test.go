package handler

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parceldesk/api/internal/store"
)

func syncMessage(t *testing.T, kind string) []byte {
	t.Helper()
	data, err := json.Marshal(map[string]interface{}{
		"type": "sync",
		"data": store.SyncEvent{Kind: kind, Op: "create", Outcome: "fallback"},
	})
	require.NoError(t, err)
	return data
}

func TestDispatchDeliversToClients(t *testing.T) {
	hub := NewSyncHub(nil)
	client := &Client{ID: "c1", Send: make(chan []byte, 1), Hub: hub}
	hub.clients[client] = true

	msg := syncMessage(t, "locations")
	hub.dispatch(msg)

	select {
	case got := <-client.Send:
		assert.Equal(t, msg, got)
	default:
		t.Fatal("client received nothing")
	}
	assert.Equal(t, 1, hub.GetClientCount())
}

func TestDispatchDropsSlowClientWithoutBlocking(t *testing.T) {
	hub := NewSyncHub(nil)
	slow := &Client{ID: "slow", Send: make(chan []byte), Hub: hub}
	fast := &Client{ID: "fast", Send: make(chan []byte, 1), Hub: hub}
	hub.clients[slow] = true
	hub.clients[fast] = true

	msg := syncMessage(t, "locations")
	done := make(chan struct{})
	go func() {
		hub.dispatch(msg)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("dispatch blocked on a slow client")
	}

	assert.Equal(t, 1, hub.GetClientCount())
	assert.False(t, hub.clients[slow])
	// The dropped client's channel is closed so its write pump exits.
	_, open := <-slow.Send
	assert.False(t, open)

	select {
	case <-fast.Send:
	default:
		t.Fatal("fast client lost the message")
	}
}

func TestDispatchHonorsKindFilter(t *testing.T) {
	hub := NewSyncHub(nil)
	zonesOnly := &Client{ID: "z", Send: make(chan []byte, 1), Hub: hub, Kind: "zones"}
	hub.clients[zonesOnly] = true

	hub.dispatch(syncMessage(t, "locations"))
	assert.Empty(t, zonesOnly.Send)

	hub.dispatch(syncMessage(t, "zones"))
	assert.Len(t, zonesOnly.Send, 1)
}
