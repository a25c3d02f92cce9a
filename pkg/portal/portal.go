package portal

import (
	core "github.com/goliatone/go-kbadmin/components/portal"
	"github.com/goliatone/go-kbadmin/components/portal/chart"
)

// Service exposes the underlying components/portal.Service type.
type Service = core.Service

// Options re-export for convenience.
type Options = core.Options

// Sample re-exports the chart sample type used by analytics clients.
type Sample = chart.Sample

// NewService proxies to the internal constructor.
func NewService(opts Options) *Service {
	return core.NewService(opts)
}
