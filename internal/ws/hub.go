// Package ws provides a lightweight WebSocket pub/sub hub. Components
// broadcast JSON events through the hub, and every connected client receives
// them in real time. Each client gets its own buffered send queue and writer
// goroutine so one slow reader cannot stall a broadcast; plan events carry
// full channel tables and are much larger than log lines.
package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// client is one connected WebSocket peer with its private send queue.
type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub manages WebSocket client connections and fans out broadcast messages
// to all of them. It is safe for concurrent use; register, unregister, and
// broadcast all go through channels.
type Hub struct {
	clients    map[*client]struct{}
	register   chan *client
	unregister chan *client
	broadcast  chan []byte
	upgrader   websocket.Upgrader
}

// NewHub allocates a hub with buffered channels.
// Call Run in a goroutine to start the event loop.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*client]struct{}),
		register:   make(chan *client, 16),
		unregister: make(chan *client, 16),
		broadcast:  make(chan []byte, 256),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Run processes registrations, unregistrations, and broadcasts in a single
// select loop. It closes all clients when ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				close(c.send)
			}
			return

		case c := <-h.register:
			h.clients[c] = struct{}{}

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}

		case msg := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					// Queue full: the client is too slow, drop it.
					delete(h.clients, c)
					close(c.send)
				}
			}
		}
	}
}

// Handler returns an http.Handler that upgrades incoming requests to
// WebSocket connections and registers them with the hub.
func (h *Hub) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := h.upgrader.Upgrade(w, r, nil)
		if err != nil {
			http.Error(w, "websocket upgrade failed", http.StatusBadRequest)
			return
		}

		c := &client{
			conn: conn,
			send: make(chan []byte, 64),
		}
		h.register <- c

		go c.writeLoop()
		go c.readLoop(h)
	})
}

// writeLoop drains the send queue onto the wire and emits keepalive pings.
// It exits when the hub closes the send channel.
func (c *client) writeLoop() {
	ping := time.NewTicker(20 * time.Second)
	defer func() {
		ping.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				_ = c.conn.WriteControl(
					websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
					time.Now().Add(time.Second),
				)
				return
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(3 * time.Second))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-ping.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(2 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readLoop discards inbound messages, refreshes the read deadline on pongs,
// and unregisters the client when the connection drops.
func (c *client) readLoop(h *Hub) {
	defer func() { h.unregister <- c }()

	_ = c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// BroadcastJSON marshals v to JSON and queues it for delivery to all
// connected clients. If the broadcast channel is full the message is
// silently dropped to avoid blocking the caller.
func (h *Hub) BroadcastJSON(v any) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	select {
	case h.broadcast <- b:
	default:
	}
}
