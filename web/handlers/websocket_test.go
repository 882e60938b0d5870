package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/thornquist/loreweaver/internal/engine"
	"github.com/thornquist/loreweaver/web/handlers"
)

func TestFeedHub_ValidatesOrigin(t *testing.T) {
	hub := handlers.NewFeedHub()
	defer hub.Stop()

	req := httptest.NewRequest("GET", "/ws", nil)
	req.Header.Set("Origin", "http://evil.com")
	req.Header.Set("Connection", "Upgrade")
	req.Header.Set("Upgrade", "websocket")
	req.Header.Set("Sec-WebSocket-Version", "13")
	req.Header.Set("Sec-WebSocket-Key", "dGhlIHNhbXBsZSBub25jZQ==")

	w := httptest.NewRecorder()
	hub.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Forbidden")
}

func TestFeedHub_AllowsSameHostOrigin(t *testing.T) {
	hub := handlers.NewFeedHub()
	defer hub.Stop()

	// Origin matching the request host passes the origin gate regardless
	// of which port the server is bound to. The upgrade itself still fails
	// against a recorder, but not with a 403.
	req := httptest.NewRequest("GET", "/ws", nil)
	req.Host = "localhost:9999"
	req.Header.Set("Origin", "http://localhost:9999")

	w := httptest.NewRecorder()
	hub.ServeHTTP(w, req)

	assert.NotEqual(t, http.StatusForbidden, w.Code)
}

func TestFeedHub_BroadcastReachesClients(t *testing.T) {
	hub := handlers.NewFeedHub()
	go hub.Run()
	defer hub.Stop()

	received := make(chan []byte, 1)
	mockClient := &handlers.MockClient{
		SendChan: received,
	}

	hub.Register(mockClient)

	// Give the hub time to register the client
	time.Sleep(10 * time.Millisecond)

	hub.Broadcast(engine.Happening{
		Type:      "world_event",
		Payload:   map[string]string{"name": "Dragon Sighting"},
		Timestamp: time.Now(),
	})

	select {
	case msg := <-received:
		assert.Contains(t, string(msg), "world_event")
		assert.Contains(t, string(msg), "Dragon Sighting")
	case <-time.After(1 * time.Second):
		t.Fatal("Timeout waiting for broadcast message")
	}
}

func TestFeedHub_DropsSlowClients(t *testing.T) {
	hub := handlers.NewFeedHub()
	go hub.Run()
	defer hub.Stop()

	// Zero-capacity channel: the first broadcast cannot be delivered.
	slow := &handlers.MockClient{SendChan: make(chan []byte)}
	hub.Register(slow)
	time.Sleep(10 * time.Millisecond)

	hub.Broadcast(engine.Happening{Type: "message", Timestamp: time.Now()})
	time.Sleep(50 * time.Millisecond)

	// The hub closes the send channel when it disconnects a client.
	select {
	case _, open := <-slow.SendChan:
		assert.False(t, open, "expected send channel to be closed")
	case <-time.After(1 * time.Second):
		t.Fatal("Timeout waiting for client disconnect")
	}
}
