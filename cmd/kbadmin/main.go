package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
)

type cli struct {
	Globals

	Serve  serveCmd  `cmd:"" help:"Run the admin portal HTTP server."`
	Render renderCmd `cmd:"" help:"Render the usage chart to a PNG or HTML file."`
	Config configCmd `cmd:"" help:"Inspect or change the stored portal configuration."`
}

func main() {
	runCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var c cli
	ctx := kong.Parse(&c,
		kong.Name("kbadmin"),
		kong.Description("Knowledge base admin portal."),
		kong.UsageOnError(),
		kong.Vars{"default_config": defaultConfigPath()},
		kong.BindTo(runCtx, (*context.Context)(nil)),
	)
	err := ctx.Run(&c.Globals)
	ctx.FatalIfErrorf(err)
}
