// Package websocket - websocket/broadcast.go
package websocket

import (
	"context"

	"github.com/goccy/go-json"

	"go-facilities-admin/logger"
	"go-facilities-admin/resource"
)

// ResourceChanged is pushed after every applied resource transition.
type ResourceChanged struct {
	Action   string            `json:"action"`
	Resource resource.Snapshot `json:"resource"`
}

func encodeSnapshot(snap resource.Snapshot) ([]byte, error) {
	out, err := json.Marshal(ResourceChanged{Action: "resourceChanged", Resource: snap})
	if err != nil {
		logger.Error.Printf("Error marshalling snapshot of %s: %v", snap.Name, err)
	}
	return out, err
}

// Run distributes queued messages to the matching connections until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-h.broadcast:
			h.deliver(msg)
		}
	}
}

func (h *Hub) deliver(msg envelope) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.connections {
		if c.owner != msg.owner {
			continue
		}
		select {
		case c.send <- msg.data:
		default:
			logger.Warn.Printf("Dropping broadcast message for connection %v", c.conn.RemoteAddr())
		}
	}
}

// PublishSnapshot queues a resourceChanged message for owner's connections.
// It never blocks the caller; a full queue drops the message.
func (h *Hub) PublishSnapshot(owner string, snap resource.Snapshot) {
	out, err := encodeSnapshot(snap)
	if err != nil {
		return
	}
	select {
	case h.broadcast <- envelope{owner: owner, data: out}:
	default:
		logger.Warn.Printf("[PublishSnapshot] Broadcast queue full; dropping %s for %s", snap.Name, owner)
	}
}

// Attach forwards every transition of store to the hub.
func (h *Hub) Attach(store *resource.Store) {
	store.Subscribe(h.PublishSnapshot)
}
