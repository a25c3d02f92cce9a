package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	router "github.com/goliatone/go-router"
	"go.uber.org/zap"

	"github.com/goliatone/go-kbadmin/components/portal"
	"github.com/goliatone/go-kbadmin/components/portal/gorouter"
	"github.com/goliatone/go-kbadmin/components/portal/httpapi"
)

const defaultShutdownTimeout = 5 * time.Second

type serveCmd struct {
	Addr            string        `env:"KBADMIN_ADDR" default:":8080" help:"Listen address."`
	Reviewer        string        `help:"Reviewer id recorded on approvals when the request carries none."`
	ShutdownTimeout time.Duration `name:"shutdown-timeout" default:"5s" help:"Grace period for in-flight requests on shutdown."`
}

func (cmd *serveCmd) Run(ctx context.Context, g *Globals) error {
	logger, err := g.logger()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	hook := portal.NewBroadcastHook()
	service, err := g.service(logger, hook)
	if err != nil {
		return err
	}
	stop, err := service.Init(ctx)
	defer stop()
	if err != nil {
		// Connection or chart failures are shown in the portal; keep serving.
		logger.Warn("portal started with errors", zap.Error(err))
	}

	renderer, err := portal.NewTemplateRenderer()
	if err != nil {
		return err
	}
	controller := portal.NewController(portal.ControllerOptions{
		Service:  service,
		Renderer: renderer,
	})
	handlers := httpapi.NewHandlers(service, portal.ZapTelemetry{Logger: logger})

	server := router.NewFiberAdapter()
	if err := gorouter.Register(gorouter.Config[*fiber.App]{
		Router:     server.Router(),
		Controller: controller,
		API:        httpapi.CommandExecutor{Handlers: handlers},
		Broadcast:  hook,
		Validator:  handlers.Validator,
		ReviewerResolver: func(rc router.Context) portal.ReviewerContext {
			reviewer := portal.ReviewerContext{ReviewerID: cmd.Reviewer, SiteURL: service.Site().SiteURL}
			if id, ok := rc.Locals("user_id").(string); ok && id != "" {
				reviewer.ReviewerID = id
			}
			return reviewer
		},
	}); err != nil {
		return err
	}

	logger.Info("portal ready",
		zap.String("addr", cmd.Addr),
		zap.String("dashboard", "/admin/dashboard"),
		zap.String("site_url", service.Site().SiteURL),
	)
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve(cmd.Addr)
	}()
	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		timeout := cmd.ShutdownTimeout
		if timeout <= 0 {
			timeout = defaultShutdownTimeout
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("kbadmin: shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	}
}
