package portal

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPageSource struct {
	snapshot Snapshot
	reviews  []ReviewEntry
}

func (s *stubPageSource) Site() SiteConfig {
	return SiteConfig{SiteURL: DefaultSiteURL}
}

func (s *stubPageSource) Status() ConnectionStatus {
	return newStatus(PhaseConnected, "Connected")
}

func (s *stubPageSource) Snapshot() Snapshot {
	return s.snapshot
}

func (s *stubPageSource) ActiveView() string {
	return "dashboard"
}

func (s *stubPageSource) Notifications() []Notification {
	return nil
}

func (s *stubPageSource) Reviews(int) []ReviewEntry {
	return s.reviews
}

type stubRenderer struct {
	lastTemplate string
	lastPayload  map[string]any
	err          error
}

func (r *stubRenderer) Render(name string, data any, out ...io.Writer) (string, error) {
	r.lastTemplate = name
	if payload, ok := data.(map[string]any); ok {
		r.lastPayload = payload
	}
	if len(out) > 0 && out[0] != nil {
		out[0].Write([]byte("<html></html>"))
	}
	return "<html></html>", r.err
}

func TestControllerRenderTemplate(t *testing.T) {
	source := &stubPageSource{snapshot: Snapshot{
		Cards:     StatCards{TotalArticles: "348", TotalViews: "12.6K"},
		Analytics: Analytics{UsageSeries: sampleSeries()},
	}}
	renderer := &stubRenderer{}
	controller := NewController(ControllerOptions{Service: source, Renderer: renderer})

	var buf bytes.Buffer
	require.NoError(t, controller.RenderTemplate(context.Background(), &buf))

	assert.Equal(t, "dashboard.html", renderer.lastTemplate)
	assert.NotZero(t, buf.Len())
	assert.Equal(t, true, renderer.lastPayload["has_chart"])
	assert.Equal(t, "/admin/api/chart.png", renderer.lastPayload["chart_src"])
	cards, ok := renderer.lastPayload["cards"].(StatCards)
	require.True(t, ok)
	assert.Equal(t, "12.6K", cards.TotalViews)
}

func TestControllerViewModelHidesChartOnError(t *testing.T) {
	source := &stubPageSource{snapshot: Snapshot{
		Analytics:  Analytics{UsageSeries: sampleSeries()[:1]},
		ChartError: "chart: invalid input: at least 2 samples required, got 1",
	}}
	model := NewController(ControllerOptions{Service: source}).ViewModel(context.Background())
	assert.Equal(t, false, model["has_chart"])
	assert.NotEmpty(t, model["chart_error"])
}

func TestControllerRequiresRenderer(t *testing.T) {
	controller := NewController(ControllerOptions{Service: &stubPageSource{}})
	require.Error(t, controller.RenderTemplate(context.Background(), io.Discard))
}

func TestEmbeddedTemplates(t *testing.T) {
	renderer, err := NewTemplateRenderer()
	require.NoError(t, err)
	require.NotNil(t, renderer)

	raw, err := embeddedTemplates.ReadFile("templates/dashboard.html")
	require.NoError(t, err)
	assert.Contains(t, string(raw), "{{ chart_src }}")
	assert.Contains(t, string(raw), "data-action=\"navigate\"")
}
