package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goliatone/go-kbadmin/components/portal"
	"github.com/goliatone/go-kbadmin/components/portal/chart"
)

// HTTPConfig configures the HTTP analytics client.
type HTTPConfig struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// HTTPClient talks to the document store analytics API via REST endpoints.
type HTTPClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPClient builds a client capable of hitting a live analytics API.
func NewHTTPClient(cfg HTTPConfig) (*HTTPClient, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("analytics: base url is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		client:  httpClient,
	}, nil
}

// Ping checks the health endpoint.
func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

// FetchAnalytics loads the stat counters and usage series.
func (c *HTTPClient) FetchAnalytics(ctx context.Context) (portal.Analytics, error) {
	var resp analyticsResponse
	if err := c.do(ctx, http.MethodGet, "/analytics", nil, &resp); err != nil {
		return portal.Analytics{}, err
	}
	return resp.toAnalytics(), nil
}

// ApproveItem approves a pending article.
func (c *HTTPClient) ApproveItem(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, "/items/"+url.PathEscape(id)+"/approve", struct{}{}, nil)
}

// RejectItem rejects a pending article with a reason.
func (c *HTTPClient) RejectItem(ctx context.Context, id, reason string) error {
	return c.do(ctx, http.MethodPost, "/items/"+url.PathEscape(id)+"/reject", rejectRequest{Reason: reason}, nil)
}

func (c *HTTPClient) do(ctx context.Context, method, path string, payload any, target any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("analytics: encode payload: %w", err)
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("analytics: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("analytics: http request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(resp.Body)
		return fmt.Errorf("analytics: remote error %d: %s", resp.StatusCode, strings.TrimSpace(buf.String()))
	}
	if target == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("analytics: decode response: %w", err)
	}
	return nil
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

type usagePoint struct {
	Day   string  `json:"day"`
	Views float64 `json:"views"`
}

type analyticsResponse struct {
	TotalArticles      int          `json:"total_articles"`
	TotalViews         int          `json:"total_views"`
	PendingApproval    int          `json:"pending_approval"`
	ActiveContributors int          `json:"active_contributors"`
	Usage              []usagePoint `json:"usage"`
}

func (r analyticsResponse) toAnalytics() portal.Analytics {
	series := make([]chart.Sample, len(r.Usage))
	for i, point := range r.Usage {
		series[i] = chart.Sample{Label: dayLabel(point.Day), Value: point.Views}
	}
	return portal.Analytics{
		TotalArticles:      r.TotalArticles,
		TotalViews:         r.TotalViews,
		PendingApproval:    r.PendingApproval,
		ActiveContributors: r.ActiveContributors,
		UsageSeries:        series,
	}
}

// dayLabel renders ISO dates as "Jan 2"; anything else is used verbatim.
func dayLabel(day string) string {
	if parsed, err := time.Parse(time.DateOnly, day); err == nil {
		return parsed.Format(usageLabelLayout)
	}
	return day
}
