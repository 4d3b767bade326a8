// Package ws pushes score updates to websocket subscribers.
package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Danish0703/algorand-reputation-system/pkg/logger"
	"github.com/Danish0703/algorand-reputation-system/pkg/metrics"
)

const (
	defaultBufferSize   = 256
	defaultWriteTimeout = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// ScoreUpdate is the message sent to subscribers after a wallet is scored.
type ScoreUpdate struct {
	Wallet    string    `json:"walletAddress"`
	Score     int       `json:"score"`
	Variant   string    `json:"variant"`
	Rank      int       `json:"rank,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// client serialises writes to one connection.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) write(msg []byte, timeout time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(timeout))
	return c.conn.WriteMessage(websocket.TextMessage, msg)
}

// Hub maintains the set of active websocket clients and broadcasts messages.
// h.mu guards the client set only; writes happen outside it.
type Hub struct {
	clients      map[*client]struct{}
	broadcast    chan []byte
	bufferSize   int
	writeTimeout time.Duration
	mu           sync.Mutex
	closed       bool
	logger       logger.Logger
}

// NewHub creates a hub. Call Run to start delivering broadcasts.
func NewHub(opts ...Option) *Hub {
	h := &Hub{
		clients:      make(map[*client]struct{}),
		bufferSize:   defaultBufferSize,
		writeTimeout: defaultWriteTimeout,
		logger:       logger.Get().Named("ws"),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.broadcast = make(chan []byte, h.bufferSize)
	return h
}

// Run delivers broadcasts until ctx is done, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	defer h.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-h.broadcast:
			h.deliver(ctx, msg)
		}
	}
}

func (h *Hub) deliver(ctx context.Context, msg []byte) {
	for _, c := range h.snapshot() {
		if err := c.write(msg, h.writeTimeout); err != nil {
			h.logger.Warn(ctx, "dropping websocket client", logger.Error(err))
			h.remove(c)
		}
	}
}

func (h *Hub) snapshot() []*client {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		out = append(out, c)
	}
	return out
}

// ServeHTTP upgrades the request and registers the connection. Incoming
// messages are read and discarded to detect disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn(r.Context(), "websocket upgrade failed", logger.Error(err))
		return
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		_ = conn.Close()
		return
	}
	c := &client{conn: conn}
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	metrics.UpdateWSClients(n)
	h.logger.Debug(r.Context(), "websocket client connected", logger.Int("clients", n))

	go h.readLoop(c)
}

func (h *Hub) readLoop(c *client) {
	defer h.remove(c)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		_ = c.conn.Close()
	}
	n := len(h.clients)
	h.mu.Unlock()
	metrics.UpdateWSClients(n)
}

// Broadcast queues u for every client. It returns false without blocking
// when the buffer is full or the hub is closed.
func (h *Hub) Broadcast(ctx context.Context, u ScoreUpdate) bool {
	msg, err := json.Marshal(u)
	if err != nil {
		h.logger.Error(ctx, "encoding score update", logger.Error(err))
		return false
	}

	h.mu.Lock()
	closed := h.closed
	h.mu.Unlock()
	if closed {
		return false
	}

	select {
	case h.broadcast <- msg:
		metrics.RecordWSBroadcast()
		return true
	default:
		metrics.RecordErrorByComponent("ws", "buffer_full")
		return false
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client. Subsequent broadcasts are refused.
func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
		delete(h.clients, c)
	}
	h.mu.Unlock()
	metrics.UpdateWSClients(0)

	for _, c := range clients {
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
			time.Now().Add(time.Second))
		_ = c.conn.Close()
	}
}
