package portal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/goliatone/go-kbadmin/components/portal/chart"
)

const (
	defaultConnectDelay    = 1500 * time.Millisecond
	defaultRefreshInterval = 60 * time.Second
	defaultStatusHideAfter = 3 * time.Second
	defaultChartScale      = 2
	defaultView            = "dashboard"
)

var (
	// ErrConfigMissing means no site URL was stored or entered.
	ErrConfigMissing = errors.New("portal: site url is not configured")
	// ErrConnectionFailed means the document store collaborator is unreachable.
	ErrConnectionFailed = errors.New("portal: connection failed")
	// ErrInvalidInput covers malformed requests and unplottable series.
	ErrInvalidInput = chart.ErrInvalidInput
	// ErrChartNotRendered means no usage chart has been drawn yet.
	ErrChartNotRendered = chart.ErrNotRendered

	errMissingClient = errors.New("portal: analytics client not configured")
)

// Options configures the portal Service. Collaborators are interfaces so
// hosts can swap the mock analytics client for a real one.
type Options struct {
	Client      AnalyticsClient
	ConfigStore ConfigStore
	Prompter    Prompter
	RefreshHook RefreshHook
	Telemetry   Telemetry
	Logger      *zap.Logger
	Clock       clockwork.Clock
	ReviewLog   *ReviewLog

	ChartConfig chart.Config
	ChartScale  float64
	ChartStyle  *chart.Style

	// ChartTheme and EChartsAssetsHost tune the interactive chart markup.
	ChartTheme        string
	EChartsAssetsHost string

	// ConnectDelay simulates connection latency. Zero uses 1.5s, negative
	// disables it.
	ConnectDelay    time.Duration
	RefreshInterval time.Duration
	StatusHideAfter time.Duration
	ToastDuration   time.Duration
	FadeDuration    time.Duration
}

// Service owns the portal state shared by every transport: site config,
// connection status, the last snapshot and the chart surface.
type Service struct {
	opts          Options
	logger        *zap.Logger
	scheduler     *Scheduler
	notifications *NotificationCenter
	renderer      *chart.Renderer
	echarts       *EChartsRenderer

	renderMu sync.Mutex
	surface  *chart.Surface

	mu        sync.RWMutex
	site      SiteConfig
	status    ConnectionStatus
	connected bool
	snapshot  Snapshot
	view      string

	// statusSeq bumps on every status change; a pending fade only applies to
	// the status it was scheduled for.
	statusSeq  uint64
	cancelFade func()
}

// NewService builds a Service instance with safe defaults.
func NewService(opts Options) *Service {
	if opts.ConfigStore == nil {
		opts.ConfigStore = NewMemoryConfigStore()
	}
	if opts.RefreshHook == nil {
		opts.RefreshHook = noopRefreshHook{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)
	if opts.ReviewLog == nil {
		opts.ReviewLog = NewReviewLog(0)
	}
	if opts.ChartConfig == (chart.Config{}) {
		opts.ChartConfig = chart.DefaultConfig()
	}
	if opts.ChartScale <= 0 {
		opts.ChartScale = defaultChartScale
	}
	if opts.ConnectDelay == 0 {
		opts.ConnectDelay = defaultConnectDelay
	}
	if opts.RefreshInterval <= 0 {
		opts.RefreshInterval = defaultRefreshInterval
	}
	if opts.StatusHideAfter <= 0 {
		opts.StatusHideAfter = defaultStatusHideAfter
	}

	scheduler := NewScheduler(opts.Clock)
	var rendererOpts []chart.Option
	if opts.ChartStyle != nil {
		rendererOpts = append(rendererOpts, chart.WithStyle(*opts.ChartStyle))
	}
	echartsOpts := []EChartsOption{
		WithChartAssetsHost(opts.EChartsAssetsHost),
		WithChartCache(NewChartCache(defaultChartCacheTTL, WithCacheClock(scheduler.clock))),
	}
	if opts.ChartTheme != "" {
		echartsOpts = append(echartsOpts, WithChartTheme(opts.ChartTheme))
	}
	return &Service{
		opts:          opts,
		echarts:       NewEChartsRenderer(echartsOpts...),
		logger:        opts.Logger,
		scheduler:     scheduler,
		notifications: NewNotificationCenter(scheduler, opts.RefreshHook, opts.ToastDuration, opts.FadeDuration),
		renderer:      chart.NewRenderer(opts.ChartConfig, rendererOpts...),
		surface:       chart.NewSurfaceFor(opts.ChartConfig, opts.ChartScale),
		status:        ConnectionStatus{Phase: PhaseIdle},
		view:          defaultView,
	}
}

// Init loads configuration, connects, renders the dashboard and starts the
// auto refresh. Connection and refresh failures are reported but do not stop
// the start-up sequence; the returned stop func ends the auto refresh.
func (s *Service) Init(ctx context.Context) (stop func(), err error) {
	if _, err := s.LoadConfiguration(ctx); err != nil {
		return func() {}, err
	}
	connectErr := s.Connect(ctx)
	if connectErr != nil {
		s.logger.Warn("portal connection failed", zap.Error(connectErr))
	}
	_, updateErr := s.UpdateDashboard(ctx)
	if updateErr != nil {
		s.logger.Warn("portal dashboard update failed", zap.Error(updateErr))
	}
	stop = s.StartAutoRefresh(ctx)
	return stop, errors.Join(connectErr, updateErr)
}

// LoadConfiguration resolves the site URL from the store or the prompter and
// keeps it on the service.
func (s *Service) LoadConfiguration(ctx context.Context) (SiteConfig, error) {
	cfg, err := LoadConfiguration(ctx, s.opts.ConfigStore, s.opts.Prompter)
	if err != nil {
		return SiteConfig{}, err
	}
	s.mu.Lock()
	s.site = cfg
	s.mu.Unlock()
	s.recordTelemetry(ctx, "portal.config.load", map[string]any{"configured": !cfg.Empty()})
	return cfg, nil
}

// SetSiteURL persists and applies a new site URL.
func (s *Service) SetSiteURL(url string) error {
	url = strings.TrimSpace(url)
	if url == "" {
		return fmt.Errorf("%w: site url is empty", ErrInvalidInput)
	}
	if err := s.opts.ConfigStore.Set(SiteURLKey, url); err != nil {
		return fmt.Errorf("portal: persist %s: %w", SiteURLKey, err)
	}
	s.mu.Lock()
	s.site = SiteConfig{SiteURL: url}
	s.mu.Unlock()
	return nil
}

// Site returns the active site config.
func (s *Service) Site() SiteConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.site
}

// Connect simulates connecting to the document store and pings the
// collaborator.
func (s *Service) Connect(ctx context.Context) error {
	site := s.Site()
	if site.Empty() {
		s.setStatus(ctx, newStatus(PhaseFailed, "Site URL not configured"), false)
		return ErrConfigMissing
	}
	if s.opts.Client == nil {
		s.setStatus(ctx, newStatus(PhaseFailed, "Connection failed"), false)
		return fmt.Errorf("%w: %w", ErrConnectionFailed, errMissingClient)
	}

	s.setStatus(ctx, newStatus(PhaseConnecting, "Connecting to SharePoint..."), false)
	if err := s.scheduler.Delay(ctx, s.opts.ConnectDelay); err != nil {
		s.setStatus(ctx, newStatus(PhaseFailed, "Connection failed"), false)
		return fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}
	if err := s.opts.Client.Ping(ctx); err != nil {
		s.logger.Error("connection failed", zap.String("site_url", site.SiteURL), zap.Error(err))
		s.setStatus(ctx, newStatus(PhaseFailed, "Connection failed"), false)
		return fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	seq := s.setStatus(ctx, newStatus(PhaseConnected, "Connected"), true)
	s.logger.Info("connected", zap.String("site_url", site.SiteURL))
	s.scheduleFade(seq, s.opts.StatusHideAfter, func() {
		s.fadeStatus(context.Background(), seq)
	})
	s.recordTelemetry(ctx, "portal.connect", map[string]any{"site_url": site.SiteURL})
	return nil
}

// Connected reports whether the last connection attempt succeeded.
func (s *Service) Connected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connected
}

// Status returns the status bar state.
func (s *Service) Status() ConnectionStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// UpdateDashboard fetches analytics, formats the stat cards and redraws the
// usage chart. When the series cannot be plotted the cards are still
// updated and the chart error is returned.
func (s *Service) UpdateDashboard(ctx context.Context) (Snapshot, error) {
	if s.opts.Client == nil {
		return Snapshot{}, errMissingClient
	}
	stats, err := s.opts.Client.FetchAnalytics(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("portal: fetch analytics: %w", err)
	}

	snap := Snapshot{
		Cards:     formatCards(stats),
		Analytics: stats,
		FetchedAt: s.scheduler.Now(),
	}

	s.renderMu.Lock()
	geo, chartErr := s.renderer.Render(s.surface, stats.UsageSeries)
	if chartErr != nil {
		s.surface.Clear()
	}
	s.renderMu.Unlock()
	if chartErr != nil {
		snap.ChartError = chartErr.Error()
		s.logger.Warn("usage chart not rendered", zap.Error(chartErr))
	} else {
		snap.Chart = geo
	}

	s.mu.Lock()
	s.snapshot = snap
	s.mu.Unlock()

	published := snap
	if err := s.opts.RefreshHook.PortalUpdated(ctx, PortalEvent{Kind: EventKindRefresh, Snapshot: &published}); err != nil {
		s.logger.Warn("refresh hook failed", zap.Error(err))
	}
	s.recordTelemetry(ctx, "portal.dashboard.update", map[string]any{
		"total_articles": stats.TotalArticles,
		"samples":        len(stats.UsageSeries),
	})
	return snap, chartErr
}

// Snapshot returns the last dashboard state.
func (s *Service) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// StartAutoRefresh refreshes the dashboard every RefreshInterval while
// connected. Cancel ctx or call stop to end it.
func (s *Service) StartAutoRefresh(ctx context.Context) (stop func()) {
	return s.scheduler.Every(ctx, s.opts.RefreshInterval, func(ctx context.Context) {
		if !s.Connected() {
			return
		}
		if _, err := s.UpdateDashboard(ctx); err != nil {
			s.logger.Warn("auto refresh failed", zap.Error(err))
		}
	})
}

// Approve marks an item as approved.
func (s *Service) Approve(ctx context.Context, itemID string) error {
	itemID = strings.TrimSpace(itemID)
	if itemID == "" {
		return fmt.Errorf("%w: item id is required", ErrInvalidInput)
	}
	if s.opts.Client == nil {
		return errMissingClient
	}
	if err := s.opts.Client.ApproveItem(ctx, itemID); err != nil {
		s.notifications.Show(ctx, "Article approval failed", NotificationError)
		return fmt.Errorf("portal: approve %s: %w", itemID, err)
	}
	reviewer := reviewerFrom(ctx)
	s.logger.Info("article approved", zap.String("item_id", itemID), zap.String("reviewer", reviewer.ReviewerID))
	s.opts.ReviewLog.Record(ReviewEntry{
		ItemID:   itemID,
		Decision: DecisionApproved,
		Reviewer: reviewer.ReviewerID,
		At:       s.scheduler.Now(),
	})
	s.notifications.Show(ctx, "Article approved successfully", NotificationSuccess)
	s.recordTelemetry(ctx, "portal.item.approve", map[string]any{"item_id": itemID})
	return nil
}

// Reject rejects an item. An empty reason means the reason prompt was
// cancelled and nothing happens.
func (s *Service) Reject(ctx context.Context, itemID, reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil
	}
	itemID = strings.TrimSpace(itemID)
	if itemID == "" {
		return fmt.Errorf("%w: item id is required", ErrInvalidInput)
	}
	if s.opts.Client == nil {
		return errMissingClient
	}
	if err := s.opts.Client.RejectItem(ctx, itemID, reason); err != nil {
		s.notifications.Show(ctx, "Article rejection failed", NotificationError)
		return fmt.Errorf("portal: reject %s: %w", itemID, err)
	}
	reviewer := reviewerFrom(ctx)
	s.logger.Info("article rejected",
		zap.String("item_id", itemID),
		zap.String("reason", reason),
		zap.String("reviewer", reviewer.ReviewerID),
	)
	s.opts.ReviewLog.Record(ReviewEntry{
		ItemID:   itemID,
		Decision: DecisionRejected,
		Reason:   reason,
		Reviewer: reviewer.ReviewerID,
		At:       s.scheduler.Now(),
	})
	s.notifications.Show(ctx, "Article rejected", NotificationInfo)
	s.recordTelemetry(ctx, "portal.item.reject", map[string]any{"item_id": itemID})
	return nil
}

// Reviews returns recent review decisions.
func (s *Service) Reviews(limit int) []ReviewEntry {
	return s.opts.ReviewLog.Recent(limit)
}

// Navigate switches the active view.
func (s *Service) Navigate(ctx context.Context, view string) error {
	view = viewFromTarget(view)
	if view == "" {
		return fmt.Errorf("%w: view is required", ErrInvalidInput)
	}
	s.mu.Lock()
	s.view = view
	s.mu.Unlock()
	s.logger.Info("navigate", zap.String("view", view))
	if err := s.opts.RefreshHook.PortalUpdated(ctx, PortalEvent{Kind: EventKindNavigate, View: view}); err != nil {
		s.logger.Warn("refresh hook failed", zap.Error(err))
	}
	return nil
}

// ActiveView returns the current view name.
func (s *Service) ActiveView() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view
}

// Notifications returns the toasts currently shown.
func (s *Service) Notifications() []Notification {
	return s.notifications.Active()
}

// Notify shows a toast.
func (s *Service) Notify(ctx context.Context, message string, kind NotificationKind) Notification {
	return s.notifications.Show(ctx, message, kind)
}

// Dispatcher returns a dispatch table with the navigate, approve, reject and
// refresh handlers bound to this service.
func (s *Service) Dispatcher() *Dispatcher {
	d := NewDispatcher()
	d.Handle(EventNavigate, func(ctx context.Context, ev UIEvent) error {
		return s.Navigate(ctx, ev.Target)
	})
	d.Handle(EventApprove, func(ctx context.Context, ev UIEvent) error {
		return s.Approve(ctx, ev.ItemID)
	})
	d.Handle(EventReject, func(ctx context.Context, ev UIEvent) error {
		return s.Reject(ctx, ev.ItemID, ev.Reason)
	})
	d.Handle(EventRefresh, func(ctx context.Context, _ UIEvent) error {
		_, err := s.UpdateDashboard(ctx)
		return err
	})
	return d
}

// Surface returns the surface the usage chart is drawn on. It is redrawn by
// UpdateDashboard; read it from the same goroutine or use WriteChartPNG.
func (s *Service) Surface() *chart.Surface {
	return s.surface
}

// ChartConfig returns the layout used for the usage chart.
func (s *Service) ChartConfig() chart.Config {
	return s.opts.ChartConfig
}

// WriteChartPNG encodes the current usage chart. A positive scale or a
// non-nil cfg renders a fresh surface instead of the service surface.
func (s *Service) WriteChartPNG(w io.Writer, scale float64, cfg *chart.Config) error {
	if scale <= 0 && cfg == nil {
		s.renderMu.Lock()
		defer s.renderMu.Unlock()
		return s.surface.EncodePNG(w)
	}
	layout := s.opts.ChartConfig
	if cfg != nil {
		layout = *cfg
	}
	if scale <= 0 {
		scale = s.opts.ChartScale
	}
	var opts []chart.Option
	if s.opts.ChartStyle != nil {
		opts = append(opts, chart.WithStyle(*s.opts.ChartStyle))
	}
	surface := chart.NewSurfaceFor(layout, scale)
	if _, err := chart.NewRenderer(layout, opts...).Render(surface, s.Snapshot().Analytics.UsageSeries); err != nil {
		return err
	}
	return surface.EncodePNG(w)
}

// ChartHTML renders the current usage series as interactive ECharts markup.
func (s *Service) ChartHTML() (string, error) {
	series := s.Snapshot().Analytics.UsageSeries
	return s.echarts.RenderUsage(usageTitle(s.Site()), fmt.Sprintf("Last %d days", len(series)), series)
}

// setStatus replaces the status bar state and cancels any pending fade of
// the previous status. It returns the sequence of the new status.
func (s *Service) setStatus(ctx context.Context, status ConnectionStatus, connected bool) uint64 {
	s.mu.Lock()
	s.status = status
	s.connected = connected
	s.statusSeq++
	seq := s.statusSeq
	cancel := s.cancelFade
	s.cancelFade = nil
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	if err := s.opts.RefreshHook.PortalUpdated(ctx, PortalEvent{Kind: EventKindStatus, Status: &status}); err != nil {
		s.logger.Warn("refresh hook failed", zap.Error(err))
	}
	return seq
}

func (s *Service) scheduleFade(seq uint64, d time.Duration, fn func()) {
	cancel := s.scheduler.After(d, fn)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.statusSeq != seq {
		cancel()
		return
	}
	s.cancelFade = cancel
}

// fadeStatus hides the status bar: opacity drops first, then it is removed.
// It does nothing once the status has moved past seq.
func (s *Service) fadeStatus(ctx context.Context, seq uint64) {
	s.mu.Lock()
	if s.statusSeq != seq {
		s.mu.Unlock()
		return
	}
	s.status.Opacity = 0
	s.mu.Unlock()
	fade := s.opts.FadeDuration
	if fade <= 0 {
		fade = defaultFadeDuration
	}
	s.scheduleFade(seq, fade, func() {
		s.mu.Lock()
		if s.statusSeq != seq {
			s.mu.Unlock()
			return
		}
		s.status.Visible = false
		status := s.status
		s.cancelFade = nil
		s.mu.Unlock()
		_ = s.opts.RefreshHook.PortalUpdated(ctx, PortalEvent{Kind: EventKindStatus, Status: &status})
	})
}

func (s *Service) recordTelemetry(ctx context.Context, event string, payload map[string]any) {
	s.opts.Telemetry.Record(ctx, event, payload)
}

type noopRefreshHook struct{}

func (noopRefreshHook) PortalUpdated(context.Context, PortalEvent) error {
	return nil
}
