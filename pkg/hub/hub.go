package hub

import (
	"encoding/json"
	"sync"

	"triagecam/internal/log"
)

// Hub maintains the set of active watchers and broadcasts messages to
// them. One goroutine owns the client set; all mutation goes through
// the register, unregister, and broadcast channels.
type Hub struct {
	// Name for logging
	name string

	// Registered watchers
	clients map[*Client]bool

	// Inbound messages to fan out
	broadcast chan Message

	// Register requests from watchers
	register chan *Client

	// Unregister requests from watchers
	unregister chan *Client

	// Guards clients for count reads from outside the run loop
	mu sync.RWMutex
}

// New creates a hub. Run must be started before watchers connect.
func New(name string) *Hub {
	return &Hub{
		name:       name,
		clients:    make(map[*Client]bool),
		broadcast:  make(chan Message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run is the hub's main loop. Call it in a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			count := len(h.clients)
			h.mu.Unlock()
			log.Debug("watcher connected", "hub", h.name, "total", count)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			count := len(h.clients)
			h.mu.Unlock()
			log.Debug("watcher disconnected", "hub", h.name, "total", count)

		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Watcher cannot keep up with the stream. Drop it
					// rather than stall the scan.
					close(client.send)
					delete(h.clients, client)
					log.Warn("dropped slow watcher", "hub", h.name)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast queues a message for all watchers. A full queue drops the
// message; live streams never block the producer.
func (h *Hub) Broadcast(msg Message) {
	select {
	case h.broadcast <- msg:
	default:
		log.Warn("broadcast queue full, dropping message", "hub", h.name)
	}
}

// BroadcastJSON encodes v and broadcasts it as a JSON message.
func (h *Hub) BroadcastJSON(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	h.Broadcast(NewJSONMessage(data))
	return nil
}

// BroadcastBinary broadcasts binary data, such as annotated frames.
func (h *Hub) BroadcastBinary(data []byte) {
	h.Broadcast(NewBinaryMessage(data))
}

// ClientCount returns the number of connected watchers.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
