package sse

import (
	"net/http"
	"time"
)

const (
	// Time between keepalive pings
	pingPeriod = 30 * time.Second

	// Buffer size for outgoing messages
	sendBufferSize = 16
)

// Client is one connected event stream
type Client struct {
	subscriber  string
	send        chan []byte
	connectedAt time.Time
}

// NewClient creates a client. subscriber only labels log lines.
func NewClient(subscriber string) *Client {
	return &Client{
		subscriber:  subscriber,
		send:        make(chan []byte, sendBufferSize),
		connectedAt: time.Now(),
	}
}

// Serve streams hub events to w until the request ends or the hub closes.
// initial, if set, is written right after the connected event.
func Serve(w http.ResponseWriter, r *http.Request, hub *Hub, subscriber string, initial []byte) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	client := NewClient(subscriber)
	if !hub.Register(client) {
		http.Error(w, "Stream closed", http.StatusServiceUnavailable)
		return
	}
	defer hub.Unregister(client)

	// The server write timeout would otherwise cut the stream
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	_, _ = w.Write(FormatEvent("connected", `{"status":"connected"}`))
	if initial != nil {
		_, _ = w.Write(initial)
	}
	flusher.Flush()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case message, ok := <-client.send:
			if !ok {
				return
			}
			if _, err := w.Write(message); err != nil {
				return
			}
			flusher.Flush()

		case <-ticker.C:
			if _, err := w.Write([]byte(": keepalive\n\n")); err != nil {
				return
			}
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
