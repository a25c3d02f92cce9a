package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-kbadmin/components/portal"
	"github.com/goliatone/go-kbadmin/components/portal/chart"
)

type renderCmd struct {
	Out       string  `short:"o" default:"usage.png" type:"path" help:"Output file; a .html extension renders the interactive chart."`
	Scale     float64 `default:"2" help:"Device pixel ratio of the PNG."`
	Width     int     `help:"Logical chart width."`
	Height    int     `help:"Logical chart height."`
	Padding   int     `default:"-1" help:"Chart padding; negative keeps the default."`
	GridLines int     `name:"grid-lines" help:"Number of horizontal grid lines."`
}

func (cmd *renderCmd) Run(ctx context.Context, g *Globals) error {
	logger, err := g.logger()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	layout := cmd.layout()
	if err := layout.Validate(); err != nil {
		return err
	}
	if err := chart.CheckBacking(layout, cmd.Scale); err != nil {
		return err
	}
	service, err := g.service(logger, nil, func(o *portal.Options) {
		o.ChartConfig = layout
		o.ChartScale = cmd.Scale
		o.ConnectDelay = -1
	})
	if err != nil {
		return err
	}
	if _, err := service.LoadConfiguration(ctx); err != nil {
		return err
	}
	if _, err := service.UpdateDashboard(ctx); err != nil {
		return err
	}

	var buf bytes.Buffer
	if strings.EqualFold(filepath.Ext(cmd.Out), ".html") {
		html, err := service.ChartHTML()
		if err != nil {
			return err
		}
		buf.WriteString(html)
	} else if err := service.WriteChartPNG(&buf, 0, nil); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(cmd.Out), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(cmd.Out, buf.Bytes(), 0o644); err != nil {
		return err
	}
	logger.Info("chart written", zap.String("path", cmd.Out), zap.Float64("scale", cmd.Scale))
	fmt.Fprintln(os.Stdout, cmd.Out)
	return nil
}

func (cmd *renderCmd) layout() chart.Config {
	cfg := chart.DefaultConfig()
	if cmd.Width > 0 {
		cfg.Width = cmd.Width
	}
	if cmd.Height > 0 {
		cfg.Height = cmd.Height
	}
	if cmd.Padding >= 0 {
		cfg.Padding = cmd.Padding
	}
	if cmd.GridLines > 0 {
		cfg.GridLines = cmd.GridLines
	}
	return cfg
}
