// Package hub fans status and reminder events out to websocket clients
// using a single goroutine that owns the client set.
package hub

import (
	"context"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/teslashibe/eyeguard/internal/log"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// EventType tags the payload of an Event.
type EventType string

const (
	EventStatus   EventType = "status"
	EventReminder EventType = "reminder"
)

// Event is the envelope written to every client.
type Event struct {
	Type EventType   `json:"type"`
	Data interface{} `json:"data"`
	At   time.Time   `json:"at"`
}

// Hub maintains the set of active clients and broadcasts events to them.
type Hub struct {
	name string

	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client

	// Last encoded event per type, replayed to new clients.
	last map[EventType][]byte

	done     chan struct{}
	doneOnce sync.Once

	mu sync.RWMutex
}

// New creates a new Hub.
func New(name string) *Hub {
	return &Hub{
		name:       name,
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		last:       make(map[EventType][]byte),
		done:       make(chan struct{}),
	}
}

// Run owns the client set until ctx is done, then disconnects everyone.
func (h *Hub) Run(ctx context.Context) {
	logger := log.With("hub", h.name)
	defer h.doneOnce.Do(func() { close(h.done) })
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			count := len(h.clients)
			for _, data := range h.last {
				select {
				case client.send <- data:
				default:
				}
			}
			h.mu.Unlock()
			logger.Debug("client connected", "clients", count)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			count := len(h.clients)
			h.mu.Unlock()
			logger.Debug("client disconnected", "clients", count)

		case data := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- data:
				default:
					// Slow client: drop it rather than stall the others.
					close(client.send)
					delete(h.clients, client)
					logger.Warn("dropped slow client")
				}
			}
			h.mu.Unlock()
		}
	}
}

// Publish encodes and broadcasts an event. It never blocks; when the
// broadcast buffer is full the event is dropped.
func (h *Hub) Publish(t EventType, v interface{}) error {
	data, err := json.Marshal(Event{Type: t, Data: v, At: time.Now()})
	if err != nil {
		return err
	}

	h.mu.Lock()
	h.last[t] = data
	h.mu.Unlock()

	select {
	case h.broadcast <- data:
	default:
		log.Warn("broadcast channel full, dropping event", "hub", h.name, "type", string(t))
	}
	return nil
}

// Done is closed once Run has returned.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
