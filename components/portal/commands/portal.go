package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-kbadmin/components/portal"
)

type refresher interface {
	UpdateDashboard(ctx context.Context) (portal.Snapshot, error)
}

// RefreshDashboardInput requests a dashboard refresh.
type RefreshDashboardInput struct{}

// RefreshDashboardCommand re-fetches analytics and redraws the chart.
type RefreshDashboardCommand struct {
	service   refresher
	telemetry Telemetry
}

// NewRefreshDashboardCommand creates the command.
func NewRefreshDashboardCommand(service refresher, telemetry Telemetry) *RefreshDashboardCommand {
	return &RefreshDashboardCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[RefreshDashboardInput] = (*RefreshDashboardCommand)(nil)

// Execute refreshes the dashboard snapshot.
func (c *RefreshDashboardCommand) Execute(ctx context.Context, _ RefreshDashboardInput) error {
	if c.service == nil {
		return errors.New("refresh command requires service")
	}
	snap, err := c.service.UpdateDashboard(ctx)
	if err != nil {
		return err
	}
	c.telemetry.Record(ctx, "portal.command.refresh", map[string]any{
		"samples": len(snap.Analytics.UsageSeries),
	})
	return nil
}

type dispatcher interface {
	Dispatch(ctx context.Context, event portal.UIEvent) error
}

// DispatchEventCommand routes a UI event through the dispatch table.
type DispatchEventCommand struct {
	dispatcher dispatcher
	telemetry  Telemetry
}

// NewDispatchEventCommand creates the command.
func NewDispatchEventCommand(d dispatcher, telemetry Telemetry) *DispatchEventCommand {
	return &DispatchEventCommand{dispatcher: d, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[portal.UIEvent] = (*DispatchEventCommand)(nil)

// Execute dispatches the event.
func (c *DispatchEventCommand) Execute(ctx context.Context, event portal.UIEvent) error {
	if c.dispatcher == nil {
		return errors.New("dispatch command requires dispatcher")
	}
	if err := c.dispatcher.Dispatch(ctx, event); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "portal.command.dispatch", map[string]any{"kind": string(event.Kind)})
	return nil
}

type siteConfigurer interface {
	SetSiteURL(url string) error
}

// SetSiteURLInput carries the new knowledge base site URL.
type SetSiteURLInput struct {
	SiteURL string `json:"site_url"`
}

// SetSiteURLCommand persists the site URL.
type SetSiteURLCommand struct {
	service   siteConfigurer
	telemetry Telemetry
}

// NewSetSiteURLCommand creates the command.
func NewSetSiteURLCommand(service siteConfigurer, telemetry Telemetry) *SetSiteURLCommand {
	return &SetSiteURLCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SetSiteURLInput] = (*SetSiteURLCommand)(nil)

// Execute stores the site URL.
func (c *SetSiteURLCommand) Execute(ctx context.Context, msg SetSiteURLInput) error {
	if c.service == nil {
		return errors.New("site url command requires service")
	}
	if err := c.service.SetSiteURL(msg.SiteURL); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "portal.command.site_url", map[string]any{"site_url": msg.SiteURL})
	return nil
}
