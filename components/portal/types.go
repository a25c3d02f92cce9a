package portal

import (
	"context"
	"time"

	"github.com/goliatone/go-kbadmin/components/portal/chart"
)

// AnalyticsClient is the document-store collaborator that supplies analytics
// and applies review decisions.
type AnalyticsClient interface {
	Ping(ctx context.Context) error
	FetchAnalytics(ctx context.Context) (Analytics, error)
	ApproveItem(ctx context.Context, id string) error
	RejectItem(ctx context.Context, id, reason string) error
}

// ConfigStore is a small key/value store for persisted portal settings.
type ConfigStore interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// Prompter asks the operator for a value. ok is false when the prompt was
// cancelled.
type Prompter interface {
	Prompt(ctx context.Context, message, defaultValue string) (value string, ok bool, err error)
}

// RefreshHook notifies transports (WebSocket/SSE) about portal changes.
type RefreshHook interface {
	PortalUpdated(ctx context.Context, event PortalEvent) error
}

// Analytics is the payload returned by the collaborator.
type Analytics struct {
	TotalArticles      int            `json:"total_articles"`
	TotalViews         int            `json:"total_views"`
	PendingApproval    int            `json:"pending_approval"`
	ActiveContributors int            `json:"active_contributors"`
	UsageSeries        []chart.Sample `json:"usage_series"`
}

// StatCards holds the display text of the dashboard stat cards.
type StatCards struct {
	TotalArticles      string `json:"total_articles"`
	TotalViews         string `json:"total_views"`
	PendingApproval    string `json:"pending_approval"`
	ActiveContributors string `json:"active_contributors"`
}

// Snapshot is the last rendered dashboard state.
type Snapshot struct {
	Cards      StatCards      `json:"cards"`
	Analytics  Analytics      `json:"analytics"`
	Chart      chart.Geometry `json:"chart"`
	ChartError string         `json:"chart_error,omitempty"`
	FetchedAt  time.Time      `json:"fetched_at"`
}

// PortalEvent describes changes that transports might care about.
type PortalEvent struct {
	Kind         string            `json:"kind"`
	Status       *ConnectionStatus `json:"status,omitempty"`
	Notification *Notification     `json:"notification,omitempty"`
	Snapshot     *Snapshot         `json:"snapshot,omitempty"`
	View         string            `json:"view,omitempty"`
}

const (
	EventKindStatus       = "portal.status"
	EventKindNotification = "portal.notification"
	EventKindRefresh      = "portal.refresh"
	EventKindNavigate     = "portal.navigate"
)
