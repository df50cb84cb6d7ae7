package main

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	eventJoin    = "join"
	eventMessage = "message"
	eventHistory = "history"
)

// event is the inbound frame shape shared by join and message.
type event struct {
	Type   string `json:"type"`
	RoomID string `json:"roomId"`
	UserID string `json:"userId"`
	Name   string `json:"name,omitempty"`
	Text   string `json:"text,omitempty"`
}

// frame is the outbound envelope.
type frame struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// chatServer drives the chat protocol for every connection: it owns the room
// store and the hub and interprets join/message events. Malformed events are
// dropped without a reply; chat is best effort and carries no authentication.
type chatServer struct {
	store    *RoomStore
	hub      *Hub
	maxChars int
	log      *zap.SugaredLogger
	upgrader websocket.Upgrader
}

func newChatServer(store *RoomStore, hub *Hub, maxChars int, origins []string, log *zap.SugaredLogger) *chatServer {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}
	return &chatServer{
		store:    store,
		hub:      hub,
		maxChars: maxChars,
		log:      log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowed[origin]
			},
		},
	}
}

func (s *chatServer) serveWs(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debugf("upgrade: %v", err)
		return
	}

	c := newClient(s, conn)
	s.hub.register(c)
	metricConnections.Inc()

	go c.writePump()
	go c.readPump()
}

func (s *chatServer) handleJoin(c *Client, ev event) {
	if ev.RoomID == "" {
		return
	}
	room := s.store.getOrCreate(ev.RoomID)
	metricRooms.Set(float64(s.store.count()))

	// Subscribe and snapshot under the room's ordering lock: any message
	// lands either wholly in the history frame or wholly as a later live
	// broadcast, never both and never neither. The history frame is queued
	// before the lock is released so it precedes those broadcasts.
	room.ord.Lock()
	s.hub.subscribe(c, ev.RoomID)
	history, err := json.Marshal(frame{Type: eventHistory, Data: room.snapshot()})
	if err == nil {
		// History goes to the joiner only, never the room.
		select {
		case c.send <- history:
		default:
		}
	}
	room.ord.Unlock()
}

func (s *chatServer) handleMessage(c *Client, ev event) {
	if ev.RoomID == "" || ev.Text == "" {
		return
	}
	// Create-on-reference, even when the sender never joined this room.
	room := s.store.getOrCreate(ev.RoomID)
	metricRooms.Set(float64(s.store.count()))

	// Append and broadcast form one critical section on the room, so the
	// fan-out order every subscriber sees is the append order.
	room.ord.Lock()
	msg := Message{
		SenderID:  ev.UserID,
		Text:      truncate(ev.Text, s.maxChars),
		Timestamp: time.Now().UnixMilli(),
	}
	room.append(msg)
	if out, err := json.Marshal(frame{Type: eventMessage, Data: msg}); err == nil {
		// The sender receives its own message back as the acknowledgment,
		// along with everyone else subscribed to the room.
		s.hub.broadcast(ev.RoomID, out, nil)
	}
	room.ord.Unlock()

	metricMessages.Inc()
}

// truncate caps s at max runes without splitting a code point.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
