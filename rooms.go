package main

import (
	"sync"
	"time"
)

// Message is a single chat message. Messages are never edited or deleted
// individually; they leave memory only when their room's buffer rolls over
// or the room itself is evicted.
type Message struct {
	SenderID  string `json:"senderId"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}

// Room holds the bounded message history and activity clock for one room id.
type Room struct {
	// ord serializes append..broadcast and subscribe..snapshot sequences.
	// Holding it across both keeps every subscriber's delivery order equal
	// to append order and makes a join's history frame prefix-consistent
	// with the live broadcasts that follow. Lock order is ord before the
	// hub mutex; the hub never locks rooms.
	ord sync.Mutex

	mu       sync.Mutex
	messages []Message
	last     time.Time
	max      int
}

// append adds m at the end of the buffer, evicting from the front when the
// buffer is over capacity. The newest message is never the one dropped.
func (r *Room) append(m Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, m)
	if n := len(r.messages) - r.max; n > 0 {
		copy(r.messages, r.messages[n:])
		r.messages = r.messages[:r.max]
	}
}

// snapshot returns a point-in-time copy of the buffer for history replay.
func (r *Room) snapshot() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Message, len(r.messages))
	copy(out, r.messages)
	return out
}

func (r *Room) touch(now time.Time) {
	r.mu.Lock()
	r.last = now
	r.mu.Unlock()
}

// RoomStore maps room ids to live rooms. Rooms come into being on first
// reference and disappear when swept; there is no other lifecycle, and
// nothing is persisted.
type RoomStore struct {
	mu    sync.Mutex
	rooms map[string]*Room
	max   int
}

func NewRoomStore(maxMessages int) *RoomStore {
	return &RoomStore{
		rooms: make(map[string]*Room),
		max:   maxMessages,
	}
}

// getOrCreate returns the room for id, creating an empty one if absent.
// The room's activity clock is refreshed either way.
func (s *RoomStore) getOrCreate(id string) *Room {
	now := time.Now()
	s.mu.Lock()
	r, ok := s.rooms[id]
	if !ok {
		r = &Room{max: s.max, last: now}
		s.rooms[id] = r
	}
	s.mu.Unlock()
	r.touch(now)
	return r
}

// sweep drops every room idle for longer than ttl and reports how many went.
// Subscribers of an evicted id are not told; the next reference to that id
// simply starts a fresh, empty room.
func (s *RoomStore) sweep(now time.Time, ttl time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	evicted := 0
	for id, r := range s.rooms {
		r.mu.Lock()
		idle := now.Sub(r.last) > ttl
		r.mu.Unlock()
		if idle {
			delete(s.rooms, id)
			evicted++
		}
	}
	return evicted
}

func (s *RoomStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rooms)
}
