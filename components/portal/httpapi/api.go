package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-kbadmin/components/portal"
	"github.com/goliatone/go-kbadmin/components/portal/chart"
	"github.com/goliatone/go-kbadmin/components/portal/commands"
	"github.com/goliatone/go-kbadmin/components/portal/queries"
)

const maxBodyBytes = 1 << 20

// ChartSource renders the usage chart.
type ChartSource interface {
	ChartConfig() chart.Config
	WriteChartPNG(w io.Writer, scale float64, cfg *chart.Config) error
	ChartHTML() (string, error)
}

// Handlers exposes HTTP endpoints backed by shared commands and queries.
type Handlers struct {
	Approve   gocommand.Commander[commands.ApproveArticleInput]
	Reject    gocommand.Commander[commands.RejectArticleInput]
	Refresh   gocommand.Commander[commands.RefreshDashboardInput]
	Dispatch  gocommand.Commander[portal.UIEvent]
	SetSite   gocommand.Commander[commands.SetSiteURLInput]
	Dashboard gocommand.Querier[queries.DashboardInput, portal.Snapshot]
	Status    gocommand.Querier[queries.StatusInput, queries.StatusReport]
	Chart     ChartSource
	Validator *portal.ChartConfigValidator
}

// HandleAnalytics returns the dashboard snapshot. ?refresh=true forces a fetch.
func (h *Handlers) HandleAnalytics(w http.ResponseWriter, r *http.Request) {
	refresh, _ := strconv.ParseBool(r.URL.Query().Get("refresh"))
	snap, err := h.Dashboard.Query(r.Context(), queries.DashboardInput{Refresh: refresh})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// HandleStatus returns the connection and view state.
func (h *Handlers) HandleStatus(w http.ResponseWriter, r *http.Request) {
	report, err := h.Status.Query(r.Context(), queries.StatusInput{})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// HandleChartPNG streams the usage chart. Layout overrides come from the
// width, height, padding, grid_lines and scale query parameters.
func (h *Handlers) HandleChartPNG(w http.ResponseWriter, r *http.Request) {
	if h.Chart == nil {
		http.Error(w, "chart not configured", http.StatusNotFound)
		return
	}
	scale, cfg, err := h.chartOverrides(r)
	if err != nil {
		writeError(w, err)
		return
	}
	// Encode into memory first so a render failure can still set the status.
	var buf bytes.Buffer
	if err := h.Chart.WriteChartPNG(&buf, scale, cfg); err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// HandleChartHTML returns the interactive chart markup.
func (h *Handlers) HandleChartHTML(w http.ResponseWriter, r *http.Request) {
	if h.Chart == nil {
		http.Error(w, "chart not configured", http.StatusNotFound)
		return
	}
	html, err := h.Chart.ChartHTML()
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, html)
}

func (h *Handlers) HandleApprove(w http.ResponseWriter, r *http.Request, itemID string) {
	if err := h.Approve.Execute(r.Context(), commands.ApproveArticleInput{ItemID: itemID}); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) HandleReject(w http.ResponseWriter, r *http.Request, itemID string) {
	var payload struct {
		Reason string `json:"reason"`
	}
	if err := decodeBody(r, &payload); err != nil {
		writeError(w, err)
		return
	}
	if err := h.Reject.Execute(r.Context(), commands.RejectArticleInput{ItemID: itemID, Reason: payload.Reason}); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := h.Refresh.Execute(r.Context(), commands.RefreshDashboardInput{}); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// HandleEvent dispatches a UI event posted by the page.
func (h *Handlers) HandleEvent(w http.ResponseWriter, r *http.Request) {
	var event portal.UIEvent
	if err := decodeBody(r, &event); err != nil {
		writeError(w, err)
		return
	}
	if err := h.Dispatch.Execute(r.Context(), event); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handlers) HandleSetSiteURL(w http.ResponseWriter, r *http.Request) {
	var payload commands.SetSiteURLInput
	if err := decodeBody(r, &payload); err != nil {
		writeError(w, err)
		return
	}
	if err := h.SetSite.Execute(r.Context(), payload); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) chartOverrides(r *http.Request) (float64, *chart.Config, error) {
	return ParseChartOverrides(r.URL.Query().Get, h.Chart.ChartConfig(), h.Validator)
}

// ParseChartOverrides reads width, height, padding, grid_lines and scale via
// get and validates them over base. A nil cfg means no layout override.
func ParseChartOverrides(get func(string) string, base chart.Config, validator *portal.ChartConfigValidator) (float64, *chart.Config, error) {
	payload := map[string]any{}
	for _, key := range []string{"width", "height", "padding", "grid_lines", "scale"} {
		raw := get(key)
		if raw == "" {
			continue
		}
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return 0, nil, fmt.Errorf("%w: %s must be a number", portal.ErrInvalidInput, key)
		}
		payload[key] = value
	}
	if len(payload) == 0 {
		return 0, nil, nil
	}
	if validator == nil {
		validator = portal.NewChartConfigValidator()
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, err
	}
	req, err := validator.Parse(raw, base)
	if err != nil {
		return 0, nil, err
	}
	return req.Scale, &req.Config, nil
}

// StatusFor maps portal errors to HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, portal.ErrInvalidInput), errors.Is(err, portal.ErrUnknownEvent):
		return http.StatusBadRequest
	case errors.Is(err, portal.ErrChartNotRendered):
		return http.StatusNotFound
	case errors.Is(err, portal.ErrConfigMissing):
		return http.StatusPreconditionFailed
	case errors.Is(err, portal.ErrConnectionFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, StatusFor(err), map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func decodeBody(r *http.Request, target any) error {
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(target); err != nil {
		return fmt.Errorf("%w: decode body: %w", portal.ErrInvalidInput, err)
	}
	return nil
}
