package main

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum inbound frame size. Generous so oversized text reaches the
	// truncation path instead of killing the connection.
	maxFrameSize = 64 * 1024

	// Sustained inbound events per second per connection, and burst.
	eventRate  = 5
	eventBurst = 10
)

var newline = []byte{'\n'}

// Client is a middleman between the websocket connection and the hub.
type Client struct {
	srv *chatServer

	// The websocket connection.
	conn *websocket.Conn

	// Buffered channel of outbound frames.
	send chan []byte

	// Throttles inbound events; frames over the limit are dropped.
	limiter *rate.Limiter
}

func newClient(srv *chatServer, conn *websocket.Conn) *Client {
	return &Client{
		srv:     srv,
		conn:    conn,
		send:    make(chan []byte, 256),
		limiter: rate.NewLimiter(eventRate, eventBurst),
	}
}

// readPump pumps events from the websocket connection into the protocol
// handler.
//
// The application runs readPump in a per-connection goroutine. The
// application ensures that there is at most one reader on a connection by
// executing all reads from this goroutine.
func (c *Client) readPump() {
	defer func() {
		c.srv.hub.unregister(c)
		c.conn.Close()
		metricConnections.Dec()
	}()
	c.conn.SetReadLimit(maxFrameSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error { c.conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.srv.log.Debugf("read: %v", err)
			}
			break
		}

		if !c.limiter.Allow() {
			continue
		}
		var ev event
		if json.Unmarshal(raw, &ev) != nil {
			continue
		}
		switch ev.Type {
		case eventJoin:
			c.srv.handleJoin(c, ev)
		case eventMessage:
			c.srv.handleMessage(c, ev)
		}
	}
}

// writePump pumps frames from the hub to the websocket connection.
//
// A goroutine running writePump is started for each connection. The
// application ensures that there is at most one writer to a connection by
// executing all writes from this goroutine.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case frame, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(frame)

			// Add queued frames to the current websocket message.
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write(newline)
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
