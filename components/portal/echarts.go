package portal

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/goliatone/go-kbadmin/components/portal/chart"
)

const defaultEChartsHeight = "360px"

// EChartsRenderer renders the usage series as interactive ECharts markup,
// the client-side counterpart of the raster chart.
type EChartsRenderer struct {
	cache      RenderCache
	theme      string
	assetsHost string
	smooth     bool
}

// EChartsOption customizes renderer behavior.
type EChartsOption func(*EChartsRenderer)

// WithChartCache injects a render cache. Nil disables caching.
func WithChartCache(cache RenderCache) EChartsOption {
	return func(r *EChartsRenderer) {
		r.cache = cache
	}
}

// WithChartTheme sets the ECharts theme (defaults to Westeros).
func WithChartTheme(theme string) EChartsOption {
	return func(r *EChartsRenderer) {
		r.theme = theme
	}
}

// WithChartAssetsHost rewrites the assets host so ECharts JS loads from a CDN.
func WithChartAssetsHost(host string) EChartsOption {
	return func(r *EChartsRenderer) {
		r.assetsHost = host
	}
}

// WithSmoothLine draws a smoothed line instead of straight segments.
func WithSmoothLine(smooth bool) EChartsOption {
	return func(r *EChartsRenderer) {
		r.smooth = smooth
	}
}

// NewEChartsRenderer builds a renderer.
func NewEChartsRenderer(options ...EChartsOption) *EChartsRenderer {
	r := &EChartsRenderer{
		cache: NewChartCache(defaultChartCacheTTL),
		theme: types.ThemeWesteros,
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// RenderUsage returns the HTML for a line chart of samples.
func (r *EChartsRenderer) RenderUsage(title, subtitle string, samples []chart.Sample) (string, error) {
	if len(samples) < 2 {
		return "", fmt.Errorf("%w: at least 2 samples required, got %d", ErrInvalidInput, len(samples))
	}
	render := func() (string, error) {
		return r.render(title, subtitle, samples)
	}
	if r.cache == nil {
		return render()
	}
	return r.cache.GetOrRender(usageKey(r.theme, title, subtitle, samples), render)
}

func (r *EChartsRenderer) render(title, subtitle string, samples []chart.Sample) (string, error) {
	labels := make([]string, len(samples))
	data := make([]opts.LineData, len(samples))
	for i, s := range samples {
		labels[i] = s.Label
		data[i] = opts.LineData{Name: s.Label, Value: s.Value}
	}

	initOpts := opts.Initialization{
		Theme:  r.theme,
		Width:  "100%",
		Height: defaultEChartsHeight,
	}
	if r.assetsHost != "" {
		initOpts.AssetsHost = r.assetsHost
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithInitializationOpts(initOpts),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Min: 0}),
	)
	line.SetXAxis(labels).AddSeries("Views", data)
	line.SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(r.smooth)}))
	return renderChart(line)
}

func renderChart(renderable interface{ Render(io.Writer) error }) (string, error) {
	var buf bytes.Buffer
	if err := renderable.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func usageTitle(site SiteConfig) string {
	if site.Empty() {
		return "Knowledge Base Usage"
	}
	return "Knowledge Base Usage · " + strings.TrimPrefix(strings.TrimPrefix(site.SiteURL, "https://"), "http://")
}
