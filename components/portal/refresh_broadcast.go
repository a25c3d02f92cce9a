package portal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

const defaultSubscriberBuffer = 16

// BroadcastHook fans portal events out to live pages. It remembers the last
// status, snapshot and view so a page that connects late starts from the
// current state; toasts are transient and never replayed.
//
// A subscriber that falls behind loses toasts first. For state events the
// oldest queued event is discarded to make room, since a newer status or
// snapshot supersedes it.
type BroadcastHook struct {
	buffer int

	mu      sync.Mutex
	subs    map[int]chan PortalEvent
	next    int
	dropped int
	status  *PortalEvent
	refresh *PortalEvent
	view    *PortalEvent
}

// BroadcastOption customizes a BroadcastHook.
type BroadcastOption func(*BroadcastHook)

// WithSubscriberBuffer sets the per-subscriber queue length.
func WithSubscriberBuffer(n int) BroadcastOption {
	return func(h *BroadcastHook) {
		if n > 0 {
			h.buffer = n
		}
	}
}

// NewBroadcastHook creates a broadcast hook.
func NewBroadcastHook(options ...BroadcastOption) *BroadcastHook {
	h := &BroadcastHook{
		buffer: defaultSubscriberBuffer,
		subs:   make(map[int]chan PortalEvent),
	}
	for _, opt := range options {
		opt(h)
	}
	return h
}

// PortalUpdated records state events and delivers the event to every
// subscriber without blocking.
func (h *BroadcastHook) PortalUpdated(_ context.Context, event PortalEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.remember(event)
	for _, ch := range h.subs {
		h.deliver(ch, event)
	}
	return nil
}

// Subscribe returns a channel primed with the current portal state, and a
// cancel func that closes it.
func (h *BroadcastHook) Subscribe() (<-chan PortalEvent, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.next
	h.next++
	ch := make(chan PortalEvent, h.buffer)
	for _, last := range []*PortalEvent{h.status, h.view, h.refresh} {
		if last != nil {
			h.deliver(ch, *last)
		}
	}
	h.subs[id] = ch
	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if sub, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Dropped reports how many events were discarded for slow subscribers.
func (h *BroadcastHook) Dropped() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.dropped
}

// Stream subscribes and passes events to write until ctx is done, the
// subscription ends or write fails.
func (h *BroadcastHook) Stream(ctx context.Context, write func(PortalEvent) error) error {
	events, cancel := h.Subscribe()
	defer cancel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-events:
			if !ok {
				return nil
			}
			if err := write(event); err != nil {
				return err
			}
		}
	}
}

func (h *BroadcastHook) remember(event PortalEvent) {
	stored := event
	switch event.Kind {
	case EventKindStatus:
		h.status = &stored
	case EventKindRefresh:
		h.refresh = &stored
	case EventKindNavigate:
		h.view = &stored
	}
}

func (h *BroadcastHook) deliver(ch chan PortalEvent, event PortalEvent) {
	select {
	case ch <- event:
		return
	default:
	}
	if event.Kind == EventKindNotification {
		h.dropped++
		return
	}
	select {
	case <-ch:
		h.dropped++
	default:
	}
	select {
	case ch <- event:
	default:
		h.dropped++
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWebSocket upgrades the request and streams portal events as JSON.
func (h *BroadcastHook) ServeWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()
	_ = h.Stream(r.Context(), func(event PortalEvent) error {
		return conn.WriteJSON(event)
	})
}

// ServeSSE streams portal events as Server-Sent Events, one named event per
// portal event kind.
func (h *BroadcastHook) ServeSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	_ = h.Stream(r.Context(), func(event PortalEvent) error {
		payload, err := json.Marshal(event)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Kind, payload); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	})
}
