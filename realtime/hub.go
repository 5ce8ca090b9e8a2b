// Copyright (c) 2026 SpaghettETH.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package realtime

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/spaghettETH/blockfighters/metrics"
	"github.com/spaghettETH/blockfighters/models"
)

// heartbeatInterval keeps intermediaries from timing out idle streams and
// bounds how long a dead connection lingers undetected.
const heartbeatInterval = 15 * time.Second

// Hub fans the current match list out to all connected viewers over
// Server-Sent Events. Delivery is at-least-once for the latest snapshot
// after any committed write; a slow client skips intermediate states rather
// than blocking the broadcaster (coalescing).
type Hub struct {
	mu      sync.Mutex
	clients map[chan []byte]struct{}
	last    []byte // latest snapshot, replayed to every new subscriber
}

// NewHub creates an empty broadcast hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[chan []byte]struct{}),
	}
}

// Broadcast sends the match list to all connected clients and retains it
// for subscribers that connect later.
func (h *Hub) Broadcast(matches []models.Match) {
	data, err := json.Marshal(matches)
	if err != nil {
		slog.Error("failed to marshal match list for broadcast", "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.last = data
	for ch := range h.clients {
		select {
		case ch <- data:
		default:
			// Client too slow, drop the message; it still holds an older
			// state and the next broadcast catches it up.
		}
	}
	metrics.StreamBroadcasts.Inc()
}

// Subscribe registers a new client. Returns the channel and an unsubscribe
// func. The latest snapshot, if any, is queued immediately so a subscriber
// that connects after a write receives current state without waiting for
// the next change.
func (h *Hub) Subscribe() (chan []byte, func()) {
	ch := make(chan []byte, 16)

	h.mu.Lock()
	if h.last != nil {
		ch <- h.last
	}
	h.clients[ch] = struct{}{}
	h.mu.Unlock()

	metrics.StreamClients.Inc()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.clients, ch)
			h.mu.Unlock()
			metrics.StreamClients.Dec()
		})
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// ServeHTTP serves the live match stream via Server-Sent Events.
// GET /matches/events
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	flusher.Flush()

	ch, unsub := h.Subscribe()
	defer unsub()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			// SSE comment line, ignored by clients
			if _, err := w.Write([]byte(": keep-alive\n\n")); err != nil {
				return
			}
			flusher.Flush()
		case data := <-ch:
			if _, err := w.Write([]byte("event: matches\ndata: ")); err != nil {
				return
			}
			if _, err := w.Write(data); err != nil {
				return
			}
			if _, err := w.Write([]byte("\n\n")); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
