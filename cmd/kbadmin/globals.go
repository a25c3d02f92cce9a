package main

import (
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-kbadmin/components/portal"
	"github.com/goliatone/go-kbadmin/pkg/analytics"
)

// Globals are flags shared by every command.
type Globals struct {
	ConfigFile   string `name:"config" type:"path" env:"KBADMIN_CONFIG" default:"${default_config}" help:"Path to the portal config file."`
	LogLevel     string `name:"log-level" default:"info" enum:"debug,info,warn,error" help:"Log level."`
	AnalyticsURL string `name:"analytics-url" env:"KBADMIN_ANALYTICS_URL" help:"Analytics API base URL. The mock client is used when empty."`
	AnalyticsKey string `name:"analytics-key" env:"KBADMIN_ANALYTICS_KEY" help:"Bearer token for the analytics API."`
	NoPrompt     bool   `name:"no-prompt" help:"Never prompt for a missing site URL."`
	Seed         uint64 `help:"Seed for the mock usage series."`
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return "kbadmin.yaml"
	}
	return filepath.Join(dir, "kbadmin", "config.yaml")
}

func (g *Globals) logger() (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(strings.ToLower(g.LogLevel))
	if err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = level
	cfg.Encoding = "console"
	return cfg.Build()
}

func (g *Globals) store() *portal.FileConfigStore {
	return portal.NewFileConfigStore(g.ConfigFile)
}

func (g *Globals) client() (portal.AnalyticsClient, error) {
	if g.AnalyticsURL == "" {
		return analytics.NewMockClient(analytics.MockOptions{Seed: g.Seed}), nil
	}
	return analytics.NewHTTPClient(analytics.HTTPConfig{
		BaseURL: g.AnalyticsURL,
		APIKey:  g.AnalyticsKey,
	})
}

func (g *Globals) prompter() portal.Prompter {
	if g.NoPrompt {
		return nil
	}
	return portal.TerminalPrompter{In: os.Stdin, Out: os.Stderr}
}

// service builds a portal service from the global flags.
func (g *Globals) service(logger *zap.Logger, hook portal.RefreshHook, mutate ...func(*portal.Options)) (*portal.Service, error) {
	client, err := g.client()
	if err != nil {
		return nil, err
	}
	opts := portal.Options{
		Client:            client,
		ConfigStore:       g.store(),
		Prompter:          g.prompter(),
		RefreshHook:       hook,
		Telemetry:         portal.ZapTelemetry{Logger: logger},
		Logger:            logger,
		EChartsAssetsHost: portal.DefaultEChartsAssetsHost(),
	}
	for _, fn := range mutate {
		fn(&opts)
	}
	return portal.NewService(opts), nil
}
