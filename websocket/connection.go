// Package websocket pushes resource state changes to operators' browsers.
// file: websocket/connection.go
package websocket

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"go-facilities-admin/logger"
	"go-facilities-admin/resource"
)

// WSConn is an interface for the WebSocket connection.
type WSConn interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	ReadMessage() (int, []byte, error)
	Close() error
	RemoteAddr() net.Addr
	SetReadLimit(limit int64)
	SetReadDeadline(t time.Time) error
	SetPongHandler(h func(string) error)
}

// Connection represents a single WebSocket connection for one operator.
type Connection struct {
	conn  WSConn
	send  chan []byte
	owner string
}

// ClientMessage is the JSON structure of messages from clients.
type ClientMessage struct {
	Action   string `json:"action"`
	Resource string `json:"resource,omitempty"`
}

// Hub tracks every open connection and fans messages out per operator.
type Hub struct {
	mu          sync.RWMutex
	connections map[*Connection]bool
	broadcast   chan envelope
	upgrader    websocket.Upgrader
	stores      resource.StoreProvider
}

type envelope struct {
	owner string
	data  []byte
}

// NewHub creates a hub that answers refresh requests from stores.
func NewHub(stores resource.StoreProvider, allowedOrigins ...string) *Hub {
	return &Hub{
		connections: make(map[*Connection]bool),
		broadcast:   make(chan envelope, broadcastQueue),
		upgrader:    newUpgrader(allowedOrigins),
		stores:      stores,
	}
}

// ServeWs upgrades the HTTP request for owner and starts the read and write pumps.
func (h *Hub) ServeWs(w http.ResponseWriter, r *http.Request, owner string) {
	if owner == "" {
		logger.Error.Println("[ServeWs] No operator; rejecting WebSocket connection")
		http.Error(w, "Not logged in", http.StatusUnauthorized)
		return
	}

	logger.Info.Printf("[ServeWs] Upgrading to WS: remoteAddr=%v, owner=%q", r.RemoteAddr, owner)
	wsConn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response.
		logger.Error.Printf("[ServeWs] WebSocket upgrade error: %v", err)
		return
	}

	c := &Connection{conn: wsConn, send: make(chan []byte, sendBuffer), owner: owner}
	h.register(c)

	go h.readPump(c)
	go h.writePump(c)
}

// readPump handles inbound messages from the client.
func (h *Hub) readPump(c *Connection) {
	defer func() {
		h.unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		messageType, message, err := c.conn.ReadMessage()
		if err != nil {
			logger.Debug.Printf("[readPump] Read error from %v: %v", c.conn.RemoteAddr(), err)
			break
		}
		if messageType != websocket.TextMessage {
			logger.Debug.Printf("[readPump] Ignoring non-text messageType=%d", messageType)
			continue
		}

		var msg ClientMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			logger.Warn.Printf("[readPump] Invalid JSON from %v: %v", c.conn.RemoteAddr(), err)
			continue
		}
		h.handleIncoming(c, msg)
	}
}

// writePump handles outbound messages to the client, including periodic pings.
func (h *Hub) writePump(c *Connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if !ok {
				logger.Debug.Printf("[writePump] Send channel closed for %v", c.conn.RemoteAddr())
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logger.Warn.Printf("[writePump] Error writing to %v: %v", c.conn.RemoteAddr(), err)
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				logger.Warn.Printf("[writePump] Ping error for %v: %v", c.conn.RemoteAddr(), err)
				return
			}
		}
	}
}

// handleIncoming processes an inbound JSON message.
func (h *Hub) handleIncoming(c *Connection, msg ClientMessage) {
	logger.Debug.Printf("[handleIncoming] Action=%s, owner=%s", msg.Action, c.owner)
	switch msg.Action {
	case "refresh":
		if h.stores == nil {
			return
		}
		store := h.stores.GetStore(c.owner)
		for _, snap := range store.Snapshots() {
			if msg.Resource != "" && snap.Name != msg.Resource {
				continue
			}
			if out, err := encodeSnapshot(snap); err == nil {
				h.sendTo(c, out)
			}
		}
	case "ping":
		h.sendTo(c, []byte(`{"action":"pong"}`))
	default:
		logger.Debug.Printf("Unhandled action: %s", msg.Action)
	}
}

// register adds the connection to the hub.
func (h *Hub) register(c *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.connections[c] = true
}

// unregister removes the connection and closes its send channel once.
func (h *Hub) unregister(c *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.connections[c]; ok {
		delete(h.connections, c)
		close(c.send)
	}
}

// ConnectionCount returns the number of open connections of owner.
func (h *Hub) ConnectionCount(owner string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for c := range h.connections {
		if c.owner == owner {
			n++
		}
	}
	return n
}

func (h *Hub) sendTo(c *Connection, message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if !h.connections[c] {
		return
	}
	select {
	case c.send <- message:
	default:
		logger.Warn.Printf("Dropping message for connection %v", c.conn.RemoteAddr())
	}
}
