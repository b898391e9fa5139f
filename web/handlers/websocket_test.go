package handlers

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebSocketHubBroadcast(t *testing.T) {
	hub := NewWebSocketHub(8484)
	go hub.Run()
	defer hub.Stop()

	client := &MockClient{SendChan: make(chan []byte, 10)}
	hub.Register(client)

	hub.Broadcast(map[string]interface{}{
		"type":       "chat",
		"session_id": "alice_2026-01-01",
	})

	select {
	case data := <-client.SendChan:
		var event map[string]interface{}
		require.NoError(t, json.Unmarshal(data, &event))
		assert.Equal(t, "chat", event["type"])
		assert.Equal(t, "alice_2026-01-01", event["session_id"])
	case <-time.After(2 * time.Second):
		t.Fatal("broadcast was not delivered")
	}
}

func TestWebSocketHubDisconnectsSlowClient(t *testing.T) {
	hub := NewWebSocketHub(8484)
	go hub.Run()
	defer hub.Stop()

	// Unbuffered channel: the client can never receive, so the hub drops it.
	client := &MockClient{SendChan: make(chan []byte)}
	hub.Register(client)

	hub.Broadcast(map[string]interface{}{"type": "chat"})

	// The channel is closed when the client is dropped.
	select {
	case _, ok := <-client.SendChan:
		assert.False(t, ok, "send channel should be closed")
	case <-time.After(2 * time.Second):
		t.Fatal("client was not disconnected")
	}
}

func TestWebSocketHubStopClosesClients(t *testing.T) {
	hub := NewWebSocketHub(8484)
	go hub.Run()

	client := &MockClient{SendChan: make(chan []byte, 10)}
	hub.Register(client)

	hub.Stop()

	select {
	case _, ok := <-client.SendChan:
		assert.False(t, ok, "send channel should be closed on stop")
	case <-time.After(2 * time.Second):
		t.Fatal("stop did not close client channels")
	}
}
