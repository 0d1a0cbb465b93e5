package websocket

import (
	"encoding/json"
	"sync"
	"testing"
	"time"
)

func testClient(userID string) *Client {
	return &Client{send: make(chan []byte, 4), UserID: userID}
}

func TestSendToUserDelivers(t *testing.T) {
	hub := NewHub()
	c := testClient("user-a")
	hub.add(c)

	event := Event{Type: "document.completed", DocumentID: "doc-1", Status: "completed", At: time.Now()}
	if !hub.SendToUser("user-a", event) {
		t.Fatal("Expected delivery to a connected user")
	}

	select {
	case msg := <-c.send:
		var got Event
		if err := json.Unmarshal(msg, &got); err != nil {
			t.Fatalf("Payload is not JSON: %v", err)
		}
		if got.Type != "document.completed" || got.DocumentID != "doc-1" {
			t.Errorf("Unexpected event: %+v", got)
		}
	default:
		t.Fatal("No message buffered on the client")
	}
}

func TestSendToUserNoConnection(t *testing.T) {
	hub := NewHub()
	if hub.SendToUser("nobody", Event{Type: "document.uploaded"}) {
		t.Error("Delivery to an unknown user should report false")
	}
}

func TestSendToUserFanOut(t *testing.T) {
	hub := NewHub()
	a1 := testClient("user-a")
	a2 := testClient("user-a")
	b := testClient("user-b")
	hub.add(a1)
	hub.add(a2)
	hub.add(b)

	hub.SendToUser("user-a", Event{Type: "document.deleted", DocumentID: "doc-9"})

	if len(a1.send) != 1 || len(a2.send) != 1 {
		t.Error("Every connection of the user should receive the event")
	}
	if len(b.send) != 0 {
		t.Error("Other users must not receive the event")
	}
}

func TestSendToUserConcurrentDisconnect(t *testing.T) {
	hub := NewHub()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		c := testClient("user-a")
		hub.add(c)

		wg.Add(2)
		go func() {
			defer wg.Done()
			hub.remove(c)
		}()
		go func() {
			defer wg.Done()
			// Must never panic on a channel closed by a racing remove
			hub.SendToUser("user-a", Event{Type: "document.completed", DocumentID: "doc-1"})
		}()
	}
	wg.Wait()
}

func TestRemoveClosesAndPrunes(t *testing.T) {
	hub := NewHub()
	c := testClient("user-a")
	hub.add(c)
	hub.remove(c)

	if hub.SendToUser("user-a", Event{Type: "document.uploaded"}) {
		t.Error("Removed client should no longer receive events")
	}
	if _, ok := <-c.send; ok {
		t.Error("Send channel should be closed on removal")
	}

	// Removing twice must not panic or double-close
	hub.remove(c)
}
