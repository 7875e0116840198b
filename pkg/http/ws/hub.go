package ws

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Hub manages WebSocket subscribers and fans session events out to them.
type Hub struct {
	mu          sync.RWMutex
	connections map[string]*Connection // connection id -> connection
	logger      zerolog.Logger
}

// NewHub creates a new WebSocket hub.
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		connections: make(map[string]*Connection),
		logger:      logger,
	}
}

// Register adds a connection and returns its id.
func (h *Hub) Register(conn *Connection) string {
	id := uuid.NewString()

	h.mu.Lock()
	h.connections[id] = conn
	h.mu.Unlock()

	h.logger.Info().Str("conn_id", id).Msg("subscriber registered")
	return id
}

// Unregister removes and closes a connection.
func (h *Hub) Unregister(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conn, exists := h.connections[id]; exists {
		conn.Close()
		delete(h.connections, id)
		h.logger.Info().Str("conn_id", id).Msg("subscriber unregistered")
	}
}

// Broadcast sends a message to every subscriber. Slow subscribers with a
// full queue are skipped, not waited on.
func (h *Hub) Broadcast(msg Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for id, conn := range h.connections {
		if err := conn.Send(msg); err != nil {
			h.logger.Warn().Err(err).Str("conn_id", id).Msg("broadcast send failed")
		}
	}
}

// Connection represents a WebSocket connection with a send queue.
type Connection struct {
	conn   *websocket.Conn
	sendCh chan Message
	mu     sync.Mutex
	closed bool
	logger zerolog.Logger
}

// NewConnection wraps a WebSocket connection.
func NewConnection(conn *websocket.Conn, logger zerolog.Logger) *Connection {
	return &Connection{
		conn:   conn,
		sendCh: make(chan Message, 64),
		logger: logger,
	}
}

// Send queues a message for delivery.
func (c *Connection) Send(msg Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrConnectionClosed
	}

	select {
	case c.sendCh <- msg:
		return nil
	default:
		return ErrSendQueueFull
	}
}

// Close shuts down the connection.
func (c *Connection) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	c.closed = true
	close(c.sendCh)
	c.conn.Close()
}

// WritePump drains the send queue onto the wire. Runs until Close.
func (c *Connection) WritePump() {
	defer c.conn.Close()

	for msg := range c.sendCh {
		c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := c.conn.WriteJSON(msg); err != nil {
			c.logger.Warn().Err(err).Msg("write failed")
			return
		}
	}
}

// ReadPump discards inbound frames and detects disconnects; the stream is
// server-to-client only. onClose runs once when the peer goes away.
func (c *Connection) ReadPump(onClose func()) {
	defer onClose()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
