package hub

import (
	"context"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
)

// attach registers a connectionless client so tests can read its queue.
func attach(t *testing.T, h *Hub) *Client {
	t.Helper()
	c := &Client{hub: h, send: make(chan []byte, 8)}
	select {
	case h.register <- c:
	case <-time.After(time.Second):
		t.Fatal("register timed out")
	}
	return c
}

func receive(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case data, ok := <-c.send:
		if !ok {
			t.Fatal("client channel closed")
		}
		var ev struct {
			Type EventType       `json:"type"`
			Data jsoniter.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(data, &ev); err != nil {
			t.Fatalf("decode: %v", err)
		}
		return Event{Type: ev.Type, Data: string(ev.Data)}
	case <-time.After(time.Second):
		t.Fatal("no event received")
	}
	return Event{}
}

func TestHub_Publish(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := New("test")
	go h.Run(ctx)

	a := attach(t, h)
	b := attach(t, h)

	if err := h.Publish(EventStatus, map[string]int{"n": 1}); err != nil {
		t.Fatal(err)
	}

	for _, c := range []*Client{a, b} {
		ev := receive(t, c)
		if ev.Type != EventStatus || ev.Data != `{"n":1}` {
			t.Errorf("got %+v", ev)
		}
	}
}

func TestHub_ReplaysLastEvent(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := New("test")
	go h.Run(ctx)

	h.Publish(EventReminder, "first")
	h.Publish(EventReminder, "second")

	// let the broadcasts drain with nobody attached
	time.Sleep(20 * time.Millisecond)

	c := attach(t, h)
	ev := receive(t, c)
	if ev.Type != EventReminder || ev.Data != `"second"` {
		t.Errorf("replay: got %+v", ev)
	}
}

func TestHub_StopClosesClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	h := New("test")
	go h.Run(ctx)

	c := attach(t, h)
	cancel()

	select {
	case <-h.Done():
	case <-time.After(time.Second):
		t.Fatal("hub did not stop")
	}
	if _, ok := <-c.send; ok {
		t.Error("client channel still open")
	}
	if h.ClientCount() != 0 {
		t.Errorf("clients: got %d, want 0", h.ClientCount())
	}
}
