package httpapi

import (
	"context"
	"errors"
	"io"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-kbadmin/components/portal"
	"github.com/goliatone/go-kbadmin/components/portal/chart"
	"github.com/goliatone/go-kbadmin/components/portal/commands"
	"github.com/goliatone/go-kbadmin/components/portal/queries"
)

var errNotConfigured = errors.New("httpapi: operation not configured")

// Executor is the transport-neutral surface used by router adapters.
type Executor interface {
	Approve(ctx context.Context, input commands.ApproveArticleInput) error
	Reject(ctx context.Context, input commands.RejectArticleInput) error
	Refresh(ctx context.Context, input commands.RefreshDashboardInput) error
	Dispatch(ctx context.Context, event portal.UIEvent) error
	SetSiteURL(ctx context.Context, input commands.SetSiteURLInput) error
	Dashboard(ctx context.Context, input queries.DashboardInput) (portal.Snapshot, error)
	Status(ctx context.Context) (queries.StatusReport, error)
	ChartPNG(w io.Writer, scale float64, cfg *chart.Config) error
	ChartHTML() (string, error)
	ChartConfig() chart.Config
}

// CommandExecutor adapts the Handlers commands and queries to Executor.
type CommandExecutor struct {
	Handlers *Handlers
}

var _ Executor = CommandExecutor{}

func (e CommandExecutor) Approve(ctx context.Context, input commands.ApproveArticleInput) error {
	return execute(ctx, e.Handlers.Approve, input)
}

func (e CommandExecutor) Reject(ctx context.Context, input commands.RejectArticleInput) error {
	return execute(ctx, e.Handlers.Reject, input)
}

func (e CommandExecutor) Refresh(ctx context.Context, input commands.RefreshDashboardInput) error {
	return execute(ctx, e.Handlers.Refresh, input)
}

func (e CommandExecutor) Dispatch(ctx context.Context, event portal.UIEvent) error {
	return execute(ctx, e.Handlers.Dispatch, event)
}

func (e CommandExecutor) SetSiteURL(ctx context.Context, input commands.SetSiteURLInput) error {
	return execute(ctx, e.Handlers.SetSite, input)
}

func (e CommandExecutor) Dashboard(ctx context.Context, input queries.DashboardInput) (portal.Snapshot, error) {
	if e.Handlers == nil || e.Handlers.Dashboard == nil {
		return portal.Snapshot{}, errNotConfigured
	}
	return e.Handlers.Dashboard.Query(ctx, input)
}

func (e CommandExecutor) Status(ctx context.Context) (queries.StatusReport, error) {
	if e.Handlers == nil || e.Handlers.Status == nil {
		return queries.StatusReport{}, errNotConfigured
	}
	return e.Handlers.Status.Query(ctx, queries.StatusInput{})
}

func (e CommandExecutor) ChartPNG(w io.Writer, scale float64, cfg *chart.Config) error {
	if e.Handlers == nil || e.Handlers.Chart == nil {
		return errNotConfigured
	}
	return e.Handlers.Chart.WriteChartPNG(w, scale, cfg)
}

func (e CommandExecutor) ChartHTML() (string, error) {
	if e.Handlers == nil || e.Handlers.Chart == nil {
		return "", errNotConfigured
	}
	return e.Handlers.Chart.ChartHTML()
}

func (e CommandExecutor) ChartConfig() chart.Config {
	if e.Handlers == nil || e.Handlers.Chart == nil {
		return chart.DefaultConfig()
	}
	return e.Handlers.Chart.ChartConfig()
}

func execute[T any](ctx context.Context, cmd gocommand.Commander[T], msg T) error {
	if cmd == nil {
		return errNotConfigured
	}
	return cmd.Execute(ctx, msg)
}

// NewHandlers wires the portal service into commands, queries and handlers.
func NewHandlers(service *portal.Service, telemetry commands.Telemetry) *Handlers {
	return &Handlers{
		Approve:   commands.NewApproveArticleCommand(service, telemetry),
		Reject:    commands.NewRejectArticleCommand(service, telemetry),
		Refresh:   commands.NewRefreshDashboardCommand(service, telemetry),
		Dispatch:  commands.NewDispatchEventCommand(service.Dispatcher(), telemetry),
		SetSite:   commands.NewSetSiteURLCommand(service, telemetry),
		Dashboard: queries.NewDashboardQuery(service),
		Status:    queries.NewStatusQuery(service),
		Chart:     service,
		Validator: portal.NewChartConfigValidator(),
	}
}
