package portal

import (
	"context"
	"errors"
	"io"
)

const defaultTemplate = "dashboard.html"

// PageSource is the read side of the Service used to build the page.
type PageSource interface {
	Site() SiteConfig
	Status() ConnectionStatus
	Snapshot() Snapshot
	ActiveView() string
	Notifications() []Notification
	Reviews(limit int) []ReviewEntry
}

// ControllerOptions configures the page controller.
type ControllerOptions struct {
	Service  PageSource
	Renderer Renderer
	Template string
	// ChartPath and EventsPath are the URLs the page fetches from.
	ChartPath  string
	EventsPath string
	SocketPath string
}

// Controller renders the admin portal page.
type Controller struct {
	opts ControllerOptions
}

// NewController wires the service into a controller.
func NewController(opts ControllerOptions) *Controller {
	if opts.Template == "" {
		opts.Template = defaultTemplate
	}
	if opts.ChartPath == "" {
		opts.ChartPath = "/admin/api/chart.png"
	}
	if opts.EventsPath == "" {
		opts.EventsPath = "/admin/api/events"
	}
	if opts.SocketPath == "" {
		opts.SocketPath = "/admin/ws"
	}
	return &Controller{opts: opts}
}

// ViewModel builds the template payload.
func (c *Controller) ViewModel(ctx context.Context) map[string]any {
	src := c.opts.Service
	if src == nil {
		return map[string]any{}
	}
	snap := src.Snapshot()
	reviewer := reviewerFrom(ctx)
	return map[string]any{
		"site_url":      src.Site().SiteURL,
		"status":        src.Status(),
		"cards":         snap.Cards,
		"chart_src":     c.opts.ChartPath,
		"chart_error":   snap.ChartError,
		"has_chart":     snap.ChartError == "" && len(snap.Analytics.UsageSeries) > 0,
		"fetched_at":    snap.FetchedAt,
		"view":          src.ActiveView(),
		"notifications": src.Notifications(),
		"reviews":       src.Reviews(10),
		"reviewer":      reviewer.ReviewerID,
		"events_path":   c.opts.EventsPath,
		"socket_path":   c.opts.SocketPath,
	}
}

// RenderTemplate renders the portal page into out.
func (c *Controller) RenderTemplate(ctx context.Context, out io.Writer) error {
	if c.opts.Renderer == nil {
		return errors.New("portal: template renderer not configured")
	}
	_, err := c.opts.Renderer.Render(c.opts.Template, c.ViewModel(ctx), out)
	return err
}
