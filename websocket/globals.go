// Package websocket - websocket/globals.go
package websocket

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// Connection tuning.
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 2048
	sendBuffer     = 256
	broadcastQueue = 1024
)

// newUpgrader accepts requests without an Origin header, requests flagged
// Test-Mode, and the listed origins.
func newUpgrader(allowedOrigins []string) websocket.Upgrader {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		if o != "" {
			allowed[o] = true
		}
	}
	return websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			if r.Header.Get("Test-Mode") == "true" {
				return true
			}
			origin := r.Header.Get("Origin")
			return origin == "" || allowed[origin]
		},
	}
}
