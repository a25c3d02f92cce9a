package portal

import (
	"crypto/sha1"
	"encoding/hex"
	"strconv"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/goliatone/go-kbadmin/components/portal/chart"
)

const (
	defaultChartCacheTTL  = 5 * time.Minute
	defaultChartCacheSize = 8
)

// RenderCache memoizes rendered chart HTML so repeated fetches are cheap.
type RenderCache interface {
	GetOrRender(key string, render func() (string, error)) (string, error)
}

// ChartCache keeps the markup of recently rendered usage series. Entries
// expire after the TTL on the cache clock; past the size limit the oldest
// entry is evicted. Auto refresh yields a new series every interval, so only
// the last few are worth keeping.
type ChartCache struct {
	clock clockwork.Clock
	ttl   time.Duration
	size  int

	mu      sync.Mutex
	order   []string
	entries map[string]cachedChart
}

type cachedChart struct {
	html    string
	expires time.Time
}

// ChartCacheOption customizes a ChartCache.
type ChartCacheOption func(*ChartCache)

// WithCacheClock sets the clock used for expiry.
func WithCacheClock(clock clockwork.Clock) ChartCacheOption {
	return func(c *ChartCache) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithCacheSize caps the number of cached series.
func WithCacheSize(size int) ChartCacheOption {
	return func(c *ChartCache) {
		if size > 0 {
			c.size = size
		}
	}
}

// NewChartCache builds a cache. A non-positive ttl disables caching.
func NewChartCache(ttl time.Duration, options ...ChartCacheOption) *ChartCache {
	c := &ChartCache{
		clock:   clockwork.NewRealClock(),
		ttl:     ttl,
		size:    defaultChartCacheSize,
		entries: make(map[string]cachedChart),
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// GetOrRender returns the cached markup for key or renders and stores it.
// Render errors are returned and not cached.
func (c *ChartCache) GetOrRender(key string, render func() (string, error)) (string, error) {
	if c == nil || c.ttl <= 0 {
		return render()
	}
	c.mu.Lock()
	c.expireLocked()
	entry, ok := c.entries[key]
	c.mu.Unlock()
	if ok {
		return entry.html, nil
	}

	html, err := render()
	if err != nil {
		return "", err
	}
	c.mu.Lock()
	c.storeLocked(key, html)
	c.mu.Unlock()
	return html, nil
}

// Len reports the number of live entries.
func (c *ChartCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.expireLocked()
	return len(c.entries)
}

func (c *ChartCache) expireLocked() {
	now := c.clock.Now()
	kept := c.order[:0]
	for _, key := range c.order {
		if entry, ok := c.entries[key]; ok && now.Before(entry.expires) {
			kept = append(kept, key)
			continue
		}
		delete(c.entries, key)
	}
	c.order = kept
}

func (c *ChartCache) storeLocked(key, html string) {
	if _, ok := c.entries[key]; !ok {
		c.order = append(c.order, key)
	}
	c.entries[key] = cachedChart{html: html, expires: c.clock.Now().Add(c.ttl)}
	for len(c.order) > c.size {
		delete(c.entries, c.order[0])
		c.order = c.order[1:]
	}
}

// usageKey identifies a rendered usage chart by theme, titles and series.
func usageKey(theme, title, subtitle string, samples []chart.Sample) string {
	h := sha1.New()
	buf := make([]byte, 0, 64)
	for _, part := range []string{theme, title, subtitle} {
		buf = append(buf[:0], part...)
		h.Write(append(buf, 0))
	}
	for _, s := range samples {
		buf = append(buf[:0], s.Label...)
		buf = append(buf, 0)
		buf = strconv.AppendFloat(buf, s.Value, 'g', -1, 64)
		h.Write(append(buf, 0))
	}
	return "usage:" + hex.EncodeToString(h.Sum(nil))
}
