package main

import (
	"sync"
)

// Hub tracks live websocket clients and their room subscriptions and fans
// broadcast frames out to a room's subscribers. It never touches message
// content; rooms own that.
type Hub struct {
	rooms   map[string]map[*Client]bool
	clients map[*Client]map[string]bool
	mu      sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		rooms:   map[string]map[*Client]bool{},
		clients: map[*Client]map[string]bool{},
	}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = make(map[string]bool)
}

// subscribe adds c to room's broadcast group. Joining a second room does not
// drop the first; subscriptions are only released on unregister.
func (h *Hub) subscribe(c *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.rooms[room]
	if !ok {
		set = make(map[*Client]bool)
		h.rooms[room] = set
	}
	set[c] = true
	if joined, ok := h.clients[c]; ok {
		joined[room] = true
	}
}

// unregister releases every subscription held by c.
func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for room := range h.clients[c] {
		h.drop(room, c)
	}
	delete(h.clients, c)
}

// drop removes c from one room set. Callers hold h.mu.
func (h *Hub) drop(room string, c *Client) {
	if set, ok := h.rooms[room]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(h.rooms, room)
		}
	}
}

// broadcast queues frame for every subscriber of room except exclude (nil
// means everyone, sender included). A subscriber whose send buffer is full
// is cut loose rather than allowed to stall or abort delivery to the rest.
func (h *Hub) broadcast(room string, frame []byte, exclude *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.rooms[room] {
		if c == exclude {
			continue
		}
		select {
		case c.send <- frame:
		default:
			if c.conn != nil {
				go c.conn.Close()
			}
			h.drop(room, c)
		}
	}
}
