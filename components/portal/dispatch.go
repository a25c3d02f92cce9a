package portal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/ettle/strcase"
)

// ErrUnknownEvent is returned when no handler is registered for an event kind.
var ErrUnknownEvent = errors.New("portal: unknown ui event")

// EventKind names a UI interaction.
type EventKind string

const (
	EventNavigate EventKind = "navigate"
	EventApprove  EventKind = "approve"
	EventReject   EventKind = "reject"
	EventRefresh  EventKind = "refresh"
)

// UIEvent is a UI interaction passed explicitly to its handler.
type UIEvent struct {
	Kind   EventKind `json:"kind"`
	Target string    `json:"target,omitempty"`
	ItemID string    `json:"item_id,omitempty"`
	Reason string    `json:"reason,omitempty"`
}

// EventHandler handles one UI event.
type EventHandler func(ctx context.Context, event UIEvent) error

// Dispatcher maps event kinds to handlers.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[EventKind]EventHandler
}

// NewDispatcher builds an empty dispatch table.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: map[EventKind]EventHandler{}}
}

// Handle registers h for kind, replacing any previous handler.
func (d *Dispatcher) Handle(kind EventKind, h EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[normalizeKind(kind)] = h
}

// Kinds lists the registered event kinds.
func (d *Dispatcher) Kinds() []EventKind {
	d.mu.RLock()
	defer d.mu.RUnlock()
	kinds := make([]EventKind, 0, len(d.handlers))
	for k := range d.handlers {
		kinds = append(kinds, k)
	}
	return kinds
}

// Dispatch routes the event to its handler.
func (d *Dispatcher) Dispatch(ctx context.Context, event UIEvent) error {
	kind := normalizeKind(event.Kind)
	d.mu.RLock()
	h, ok := d.handlers[kind]
	d.mu.RUnlock()
	if !ok || h == nil {
		return fmt.Errorf("%w: %q", ErrUnknownEvent, event.Kind)
	}
	event.Kind = kind
	return h(ctx, event)
}

func normalizeKind(kind EventKind) EventKind {
	return EventKind(strcase.ToSnake(strings.TrimSpace(string(kind))))
}

// viewFromTarget turns a nav link target such as "#analytics" into a view name.
func viewFromTarget(target string) string {
	target = strings.TrimSpace(target)
	if idx := strings.LastIndex(target, "#"); idx >= 0 {
		target = target[idx+1:]
	}
	return strings.Trim(target, "/")
}
