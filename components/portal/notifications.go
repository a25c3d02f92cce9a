package portal

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// NotificationKind selects the toast style.
type NotificationKind string

const (
	NotificationSuccess NotificationKind = "success"
	NotificationInfo    NotificationKind = "info"
	NotificationError   NotificationKind = "error"
)

const (
	defaultToastDuration = 3 * time.Second
	defaultFadeDuration  = 300 * time.Millisecond
)

// Notification is a transient toast.
type Notification struct {
	ID        string           `json:"id"`
	Message   string           `json:"message"`
	Kind      NotificationKind `json:"kind"`
	Opacity   float64          `json:"opacity"`
	CreatedAt time.Time        `json:"created_at"`
}

// NotificationCenter shows toasts for a fixed duration, fades them out and
// then removes them.
type NotificationCenter struct {
	scheduler *Scheduler
	hook      RefreshHook
	display   time.Duration
	fade      time.Duration

	mu    sync.RWMutex
	items []Notification
}

// NewNotificationCenter builds a center. Zero durations use the defaults.
func NewNotificationCenter(scheduler *Scheduler, hook RefreshHook, display, fade time.Duration) *NotificationCenter {
	if scheduler == nil {
		scheduler = NewScheduler(nil)
	}
	if hook == nil {
		hook = noopRefreshHook{}
	}
	if display <= 0 {
		display = defaultToastDuration
	}
	if fade <= 0 {
		fade = defaultFadeDuration
	}
	return &NotificationCenter{
		scheduler: scheduler,
		hook:      hook,
		display:   display,
		fade:      fade,
	}
}

// Show adds a toast and schedules its fade and removal.
func (c *NotificationCenter) Show(ctx context.Context, message string, kind NotificationKind) Notification {
	if kind == "" {
		kind = NotificationInfo
	}
	n := Notification{
		ID:        uuid.NewString(),
		Message:   message,
		Kind:      kind,
		Opacity:   1,
		CreatedAt: c.scheduler.Now(),
	}
	c.mu.Lock()
	c.items = append(c.items, n)
	c.mu.Unlock()

	_ = c.hook.PortalUpdated(ctx, PortalEvent{Kind: EventKindNotification, Notification: &n})

	c.scheduler.After(c.display, func() {
		c.setOpacity(n.ID, 0)
		c.scheduler.After(c.fade, func() {
			c.remove(n.ID)
		})
	})
	return n
}

// Active returns the toasts currently on screen.
func (c *NotificationCenter) Active() []Notification {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]Notification(nil), c.items...)
}

func (c *NotificationCenter) setOpacity(id string, opacity float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].ID == id {
			c.items[i].Opacity = opacity
			return
		}
	}
}

func (c *NotificationCenter) remove(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}
