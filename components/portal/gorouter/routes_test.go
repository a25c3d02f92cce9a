package gorouter

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	router "github.com/goliatone/go-router"
	"github.com/jonboulle/clockwork"

	"github.com/goliatone/go-kbadmin/components/portal"
	"github.com/goliatone/go-kbadmin/components/portal/chart"
	"github.com/goliatone/go-kbadmin/components/portal/httpapi"
)

func TestRegisterValidatesConfig(t *testing.T) {
	err := Register(Config[struct{}]{})
	if err == nil {
		t.Fatalf("expected error when router/controller missing")
	}
}

func TestDefaultRouteConfig(t *testing.T) {
	routes := defaultRouteConfig(RouteConfig{HTML: "/home"})
	if routes.HTML != "/home" {
		t.Fatalf("expected override to be kept, got %s", routes.HTML)
	}
	if routes.ChartPNG != "/api/chart.png" || routes.Approve != "/api/items/:id/approve" || routes.WebSocket != "/ws" {
		t.Fatalf("unexpected defaults %#v", routes)
	}
}

func TestRegisterRequiresController(t *testing.T) {
	var cfg Config[struct{}]
	cfg.Controller = portal.NewController(portal.ControllerOptions{})
	if err := Register(cfg); err == nil {
		t.Fatalf("expected error when router missing")
	}
}

type routeClient struct {
	mu       sync.Mutex
	approved []string
	rejected map[string]string
}

func (c *routeClient) Ping(context.Context) error { return nil }

func (c *routeClient) FetchAnalytics(context.Context) (portal.Analytics, error) {
	return portal.Analytics{
		TotalArticles:      348,
		TotalViews:         12567,
		PendingApproval:    3,
		ActiveContributors: 24,
		UsageSeries: []chart.Sample{
			{Label: "Oct 15", Value: 1250},
			{Label: "Oct 16", Value: 1300},
			{Label: "Oct 17", Value: 1450},
		},
	}, nil
}

func (c *routeClient) ApproveItem(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.approved = append(c.approved, id)
	return nil
}

func (c *routeClient) RejectItem(_ context.Context, id, reason string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.rejected == nil {
		c.rejected = map[string]string{}
	}
	c.rejected[id] = reason
	return nil
}

func newRouteApp(t *testing.T) (*fiber.App, *portal.Service, *routeClient) {
	t.Helper()
	client := &routeClient{}
	store := portal.NewMemoryConfigStore()
	if err := store.Set(portal.SiteURLKey, portal.DefaultSiteURL); err != nil {
		t.Fatalf("seed store: %v", err)
	}
	service := portal.NewService(portal.Options{
		Client:       client,
		ConfigStore:  store,
		Clock:        clockwork.NewFakeClock(),
		ConnectDelay: -1,
	})
	if _, err := service.UpdateDashboard(context.Background()); err != nil {
		t.Fatalf("update dashboard: %v", err)
	}
	handlers := httpapi.NewHandlers(service, nil)

	server := router.NewFiberAdapter()
	err := Register(Config[*fiber.App]{
		Router:     server.Router(),
		Controller: portal.NewController(portal.ControllerOptions{Service: service}),
		API:        httpapi.CommandExecutor{Handlers: handlers},
		Validator:  handlers.Validator,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if initer, ok := any(server).(interface{ Init() }); ok {
		initer.Init()
	}
	return server.WrappedRouter(), service, client
}

func doRequest(t *testing.T, app *fiber.App, method, target, body string) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Reviewer", "editor@example.com")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, target, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, raw
}

func decodeStatus(t *testing.T, raw []byte) string {
	t.Helper()
	var payload map[string]string
	if err := json.Unmarshal(raw, &payload); err != nil {
		t.Fatalf("decode %q: %v", raw, err)
	}
	return payload["status"]
}

func TestApproveRoute(t *testing.T) {
	app, service, client := newRouteApp(t)
	resp, raw := doRequest(t, app, http.MethodPost, "/admin/api/items/42/approve", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, raw)
	}
	if got := decodeStatus(t, raw); got != "approved" {
		t.Fatalf("unexpected status %q", got)
	}
	if len(client.approved) != 1 || client.approved[0] != "42" {
		t.Fatalf("approve not forwarded: %v", client.approved)
	}
	reviews := service.Reviews(1)
	if len(reviews) != 1 || reviews[0].Reviewer != "editor@example.com" {
		t.Fatalf("reviewer not recorded: %#v", reviews)
	}
}

func TestRejectRoute(t *testing.T) {
	app, _, client := newRouteApp(t)

	resp, raw := doRequest(t, app, http.MethodPost, "/admin/api/items/7/reject", `{"reason":""}`)
	if resp.StatusCode != http.StatusOK || decodeStatus(t, raw) != "cancelled" {
		t.Fatalf("expected cancelled, got %d: %s", resp.StatusCode, raw)
	}
	if len(client.rejected) != 0 {
		t.Fatalf("empty reason must not reach the client: %v", client.rejected)
	}

	resp, raw = doRequest(t, app, http.MethodPost, "/admin/api/items/7/reject", `{"reason":"outdated"}`)
	if resp.StatusCode != http.StatusOK || decodeStatus(t, raw) != "rejected" {
		t.Fatalf("expected rejected, got %d: %s", resp.StatusCode, raw)
	}
	if client.rejected["7"] != "outdated" {
		t.Fatalf("reject not forwarded: %v", client.rejected)
	}

	resp, _ = doRequest(t, app, http.MethodPost, "/admin/api/items/7/reject", `{"reason":`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d", resp.StatusCode)
	}
}

func TestEventsRoute(t *testing.T) {
	app, service, _ := newRouteApp(t)

	resp, raw := doRequest(t, app, http.MethodPost, "/admin/api/events", `{"kind":"explode"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown event, got %d: %s", resp.StatusCode, raw)
	}

	resp, raw = doRequest(t, app, http.MethodPost, "/admin/api/events", `{"kind":"navigate","target":"#reports"}`)
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", resp.StatusCode, raw)
	}
	if service.ActiveView() != "reports" {
		t.Fatalf("expected reports view, got %q", service.ActiveView())
	}
}

func TestChartPNGRoute(t *testing.T) {
	app, _, _ := newRouteApp(t)

	resp, raw := doRequest(t, app, http.MethodGet, "/admin/api/chart.png?width=400&height=200&scale=1", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, raw)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Fatalf("unexpected content type %q", ct)
	}
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if img.Bounds().Dx() != 400 || img.Bounds().Dy() != 200 {
		t.Fatalf("unexpected size %v", img.Bounds())
	}

	for _, query := range []string{"width=4096&height=4096&scale=4", "width=4096&height=4096", "width=abc"} {
		resp, _ = doRequest(t, app, http.MethodGet, "/admin/api/chart.png?"+query, "")
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", query, resp.StatusCode)
		}
	}
}

func TestAnalyticsAndConfigRoutes(t *testing.T) {
	app, service, _ := newRouteApp(t)

	resp, raw := doRequest(t, app, http.MethodGet, "/admin/api/analytics", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, raw)
	}
	var snap portal.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if snap.Cards.TotalViews != "12.6K" {
		t.Fatalf("unexpected cards %#v", snap.Cards)
	}

	resp, raw = doRequest(t, app, http.MethodPost, "/admin/api/config", `{"site_url":"https://kb.example.com/sites/docs"}`)
	if resp.StatusCode != http.StatusOK || decodeStatus(t, raw) != "saved" {
		t.Fatalf("expected saved, got %d: %s", resp.StatusCode, raw)
	}
	if service.Site().SiteURL != "https://kb.example.com/sites/docs" {
		t.Fatalf("site url not updated: %#v", service.Site())
	}
}
