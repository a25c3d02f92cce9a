package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-kbadmin/components/portal"
)

type configCmd struct {
	Show   configShowCmd   `cmd:"" help:"Print the stored configuration as YAML."`
	SetURL configSetURLCmd `cmd:"" name:"set-url" help:"Store the knowledge base site URL."`
}

type configShowCmd struct{}

func (cmd *configShowCmd) Run(ctx context.Context, g *Globals) error {
	return showConfig(ctx, g, os.Stdout)
}

func showConfig(ctx context.Context, g *Globals, out io.Writer) error {
	cfg, err := portal.LoadConfiguration(ctx, g.store(), nil)
	if err != nil {
		return err
	}
	doc := struct {
		Path   string            `yaml:"path"`
		Config portal.SiteConfig `yaml:"config"`
	}{Path: g.ConfigFile, Config: cfg}
	enc := yaml.NewEncoder(out)
	defer enc.Close()
	return enc.Encode(doc)
}

type configSetURLCmd struct {
	URL string `arg:"" help:"Site URL, e.g. https://contoso.sharepoint.com/sites/kb."`
}

func (cmd *configSetURLCmd) Run(_ context.Context, g *Globals) error {
	service := portal.NewService(portal.Options{ConfigStore: g.store()})
	if err := service.SetSiteURL(cmd.URL); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "✓ Stored %s in %s\n", cmd.URL, g.ConfigFile)
	return nil
}
