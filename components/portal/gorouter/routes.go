package gorouter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	router "github.com/goliatone/go-router"

	"github.com/goliatone/go-kbadmin/components/portal"
	"github.com/goliatone/go-kbadmin/components/portal/commands"
	"github.com/goliatone/go-kbadmin/components/portal/httpapi"
	"github.com/goliatone/go-kbadmin/components/portal/queries"
)

// ReviewerResolver converts a router.Context into a portal.ReviewerContext.
type ReviewerResolver func(router.Context) portal.ReviewerContext

// Config wires go-router with the portal controller, API and hooks.
type Config[T any] struct {
	Router           router.Router[T]
	Controller       *portal.Controller
	API              httpapi.Executor
	Broadcast        *portal.BroadcastHook
	Validator        *portal.ChartConfigValidator
	ReviewerResolver ReviewerResolver
	BasePath         string
	Routes           RouteConfig
}

// RouteConfig customizes the relative paths used for portal endpoints.
type RouteConfig struct {
	HTML      string
	Analytics string
	Status    string
	ChartPNG  string
	ChartHTML string
	Approve   string
	Reject    string
	Events    string
	Refresh   string
	Config    string
	WebSocket string
}

// Register mounts portal routes (HTML, JSON, REST, WebSocket) on a go-router router.
func Register[T any](cfg Config[T]) error {
	if cfg.Router == nil {
		return errors.New("gorouter: router is required")
	}
	if cfg.Controller == nil {
		return errors.New("gorouter: controller is required")
	}
	routes := defaultRouteConfig(cfg.Routes)
	base := cfg.BasePath
	if base == "" {
		base = "/admin"
	}
	resolver := cfg.ReviewerResolver
	if resolver == nil {
		resolver = defaultReviewerResolver
	}

	group := cfg.Router.Group(base)

	group.Get(routes.HTML, router.WrapHandler(func(ctx router.Context) error {
		var buf bytes.Buffer
		if err := cfg.Controller.RenderTemplate(withReviewer(ctx, resolver), &buf); err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		ctx.SetHeader("Content-Type", "text/html; charset=utf-8")
		return ctx.Send(buf.Bytes())
	}))

	if cfg.API != nil {
		registerAPI(group, cfg.API, cfg.Validator, resolver, routes)
	}

	if cfg.Broadcast != nil {
		registerWebSocket(group, cfg.Broadcast, routes.WebSocket)
	}

	return nil
}

func registerAPI[T any](r router.Router[T], api httpapi.Executor, validator *portal.ChartConfigValidator, resolver ReviewerResolver, routes RouteConfig) {
	r.Get(routes.Analytics, router.WrapHandler(func(ctx router.Context) error {
		refresh, _ := strconv.ParseBool(ctx.Query("refresh"))
		snap, err := api.Dashboard(ctx.Context(), queries.DashboardInput{Refresh: refresh})
		if err != nil {
			return respondStatus(ctx, err)
		}
		return ctx.JSON(http.StatusOK, snap)
	}))

	r.Get(routes.Status, router.WrapHandler(func(ctx router.Context) error {
		report, err := api.Status(ctx.Context())
		if err != nil {
			return respondStatus(ctx, err)
		}
		return ctx.JSON(http.StatusOK, report)
	}))

	r.Get(routes.ChartPNG, router.WrapHandler(func(ctx router.Context) error {
		scale, layout, err := httpapi.ParseChartOverrides(func(key string) string {
			return ctx.Query(key)
		}, api.ChartConfig(), validator)
		if err != nil {
			return respondStatus(ctx, err)
		}
		var buf bytes.Buffer
		if err := api.ChartPNG(&buf, scale, layout); err != nil {
			return respondStatus(ctx, err)
		}
		ctx.SetHeader("Content-Type", "image/png")
		ctx.SetHeader("Cache-Control", "no-store")
		return ctx.Send(buf.Bytes())
	}))

	r.Get(routes.ChartHTML, router.WrapHandler(func(ctx router.Context) error {
		html, err := api.ChartHTML()
		if err != nil {
			return respondStatus(ctx, err)
		}
		ctx.SetHeader("Content-Type", "text/html; charset=utf-8")
		return ctx.Send([]byte(html))
	}))

	r.Post(routes.Approve, router.WrapHandler(func(ctx router.Context) error {
		id := ctx.Param("id")
		if id == "" {
			return respondError(ctx, http.StatusBadRequest, errors.New("item id is required"))
		}
		if err := api.Approve(withReviewer(ctx, resolver), commands.ApproveArticleInput{ItemID: id}); err != nil {
			return respondStatus(ctx, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "approved"})
	}))

	r.Post(routes.Reject, router.WrapHandler(func(ctx router.Context) error {
		id := ctx.Param("id")
		if id == "" {
			return respondError(ctx, http.StatusBadRequest, errors.New("item id is required"))
		}
		var payload struct {
			Reason string `json:"reason"`
		}
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		if err := api.Reject(withReviewer(ctx, resolver), commands.RejectArticleInput{ItemID: id, Reason: payload.Reason}); err != nil {
			return respondStatus(ctx, err)
		}
		status := "rejected"
		if strings.TrimSpace(payload.Reason) == "" {
			status = "cancelled"
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": status})
	}))

	r.Post(routes.Events, router.WrapHandler(func(ctx router.Context) error {
		var event portal.UIEvent
		if err := json.Unmarshal(ctx.Body(), &event); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		if err := api.Dispatch(withReviewer(ctx, resolver), event); err != nil {
			return respondStatus(ctx, err)
		}
		return ctx.JSON(http.StatusAccepted, map[string]string{"status": "dispatched"})
	}))

	r.Post(routes.Refresh, router.WrapHandler(func(ctx router.Context) error {
		if err := api.Refresh(ctx.Context(), commands.RefreshDashboardInput{}); err != nil {
			return respondStatus(ctx, err)
		}
		return ctx.JSON(http.StatusAccepted, map[string]string{"status": "refreshed"})
	}))

	r.Post(routes.Config, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.SetSiteURLInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		if err := api.SetSiteURL(ctx.Context(), payload); err != nil {
			return respondStatus(ctx, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "saved"})
	}))
}

func registerWebSocket[T any](r router.Router[T], hook *portal.BroadcastHook, path string) {
	cfg := router.DefaultWebSocketConfig()
	r.WebSocket(path, cfg, func(ws router.WebSocketContext) error {
		defer ws.Close()
		return hook.Stream(ws.Context(), func(event portal.PortalEvent) error {
			return ws.WriteJSON(event)
		})
	})
}

func withReviewer(ctx router.Context, resolver ReviewerResolver) context.Context {
	return portal.ContextWithReviewer(ctx.Context(), resolver(ctx))
}

func defaultReviewerResolver(ctx router.Context) portal.ReviewerContext {
	var reviewer portal.ReviewerContext
	if v, ok := ctx.Locals("user_id").(string); ok {
		reviewer.ReviewerID = v
	}
	if reviewer.ReviewerID == "" {
		reviewer.ReviewerID = strings.TrimSpace(ctx.Header("X-Reviewer"))
	}
	return reviewer
}

func respondStatus(ctx router.Context, err error) error {
	return respondError(ctx, httpapi.StatusFor(err), err)
}

func respondError(ctx router.Context, status int, err error) error {
	return ctx.JSON(status, map[string]string{"error": err.Error()})
}

func defaultRouteConfig(routes RouteConfig) RouteConfig {
	if routes.HTML == "" {
		routes.HTML = "/dashboard"
	}
	if routes.Analytics == "" {
		routes.Analytics = "/api/analytics"
	}
	if routes.Status == "" {
		routes.Status = "/api/status"
	}
	if routes.ChartPNG == "" {
		routes.ChartPNG = "/api/chart.png"
	}
	if routes.ChartHTML == "" {
		routes.ChartHTML = "/api/chart.html"
	}
	if routes.Approve == "" {
		routes.Approve = "/api/items/:id/approve"
	}
	if routes.Reject == "" {
		routes.Reject = "/api/items/:id/reject"
	}
	if routes.Events == "" {
		routes.Events = "/api/events"
	}
	if routes.Refresh == "" {
		routes.Refresh = "/api/refresh"
	}
	if routes.Config == "" {
		routes.Config = "/api/config"
	}
	if routes.WebSocket == "" {
		routes.WebSocket = "/ws"
	}
	return routes
}
