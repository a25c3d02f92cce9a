package portal

import (
	"context"
	"fmt"
	"strings"
)

const (
	// SiteURLKey is the store key holding the knowledge base site URL.
	SiteURLKey = "kb_site_url"
	// DefaultSiteURL is offered when prompting for a site URL.
	DefaultSiteURL = "https://contoso.sharepoint.com/sites/kb"

	siteURLPrompt = "Enter your Knowledge Base site URL:"
)

// SiteConfig is the persisted portal configuration.
type SiteConfig struct {
	SiteURL string `json:"site_url" yaml:"site_url"`
}

// Empty reports whether no site URL is configured.
func (c SiteConfig) Empty() bool {
	return strings.TrimSpace(c.SiteURL) == ""
}

// LoadConfiguration reads the site URL from the store, falling back to the
// prompter. An answered prompt is persisted. A cancelled prompt yields an
// empty config and no error.
func LoadConfiguration(ctx context.Context, store ConfigStore, prompter Prompter) (SiteConfig, error) {
	if store != nil {
		value, ok, err := store.Get(SiteURLKey)
		if err != nil {
			return SiteConfig{}, fmt.Errorf("portal: read %s: %w", SiteURLKey, err)
		}
		if ok && strings.TrimSpace(value) != "" {
			return SiteConfig{SiteURL: strings.TrimSpace(value)}, nil
		}
	}
	if prompter == nil {
		return SiteConfig{}, nil
	}
	value, ok, err := prompter.Prompt(ctx, siteURLPrompt, DefaultSiteURL)
	if err != nil {
		return SiteConfig{}, fmt.Errorf("portal: prompt for site url: %w", err)
	}
	value = strings.TrimSpace(value)
	if !ok || value == "" {
		return SiteConfig{}, nil
	}
	if store != nil {
		if err := store.Set(SiteURLKey, value); err != nil {
			return SiteConfig{}, fmt.Errorf("portal: persist %s: %w", SiteURLKey, err)
		}
	}
	return SiteConfig{SiteURL: value}, nil
}
