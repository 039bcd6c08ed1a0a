package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/jonathan/portfolio-keeper/internal/autosave"
)

// SSEWriter helps write Server-Sent Events
type SSEWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// NewSSEWriter creates a new SSE writer
func NewSSEWriter(w http.ResponseWriter) (*SSEWriter, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("streaming not supported")
	}

	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	return &SSEWriter{w: w, flusher: flusher}, nil
}

// WriteEvent sends an SSE event
func (s *SSEWriter) WriteEvent(event string, data any) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(s.w, "event: %s\n", event); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", jsonData); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

// WriteStatus sends a status event
func (s *SSEWriter) WriteStatus(st autosave.Status) error {
	return s.WriteEvent("status", newStatusResponse(st))
}

// statusHub fans coordinator status changes out to stream subscribers. Slow
// subscribers miss intermediate updates rather than blocking the coordinator.
type statusHub struct {
	mu     sync.Mutex
	subs   map[chan autosave.Status]struct{}
	closed bool
}

func newStatusHub() *statusHub {
	return &statusHub{subs: make(map[chan autosave.Status]struct{})}
}

func (h *statusHub) publish(st autosave.Status) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- st:
		default:
		}
	}
}

// subscribe returns a channel of status updates and a function to unsubscribe.
// The channel is closed when the hub shuts down or on unsubscribe.
func (h *statusHub) subscribe() (<-chan autosave.Status, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan autosave.Status, 8)
	if h.closed {
		close(ch)
		return ch, func() {}
	}
	h.subs[ch] = struct{}{}
	return ch, func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if _, ok := h.subs[ch]; ok {
			delete(h.subs, ch)
			close(ch)
		}
	}
}

func (h *statusHub) close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for ch := range h.subs {
		delete(h.subs, ch)
		close(ch)
	}
}
