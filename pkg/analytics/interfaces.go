package analytics

import (
	"context"

	"github.com/goliatone/go-kbadmin/components/portal"
)

// StatsClient fetches knowledge base analytics from the document store.
type StatsClient interface {
	Ping(ctx context.Context) error
	FetchAnalytics(ctx context.Context) (portal.Analytics, error)
}

// ReviewClient applies approval decisions upstream.
type ReviewClient interface {
	ApproveItem(ctx context.Context, id string) error
	RejectItem(ctx context.Context, id, reason string) error
}

// Client is a convenience union for services that implement all analytics calls.
type Client interface {
	StatsClient
	ReviewClient
}

var (
	_ portal.AnalyticsClient = (*HTTPClient)(nil)
	_ portal.AnalyticsClient = (*MockClient)(nil)
)
