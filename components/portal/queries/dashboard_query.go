package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-kbadmin/components/portal"
)

type snapshotService interface {
	Snapshot() portal.Snapshot
	UpdateDashboard(ctx context.Context) (portal.Snapshot, error)
}

// DashboardInput selects between the cached snapshot and a fresh fetch.
type DashboardInput struct {
	Refresh bool `query:"refresh" json:"refresh"`
}

// DashboardQuery returns the dashboard snapshot.
type DashboardQuery struct {
	service snapshotService
}

// NewDashboardQuery builds the query.
func NewDashboardQuery(service snapshotService) *DashboardQuery {
	return &DashboardQuery{service: service}
}

var _ gocommand.Querier[DashboardInput, portal.Snapshot] = (*DashboardQuery)(nil)

// Query returns the last snapshot, refreshing first when asked or when
// nothing has been fetched yet. A chart failure still returns the snapshot.
func (q *DashboardQuery) Query(ctx context.Context, input DashboardInput) (portal.Snapshot, error) {
	snap := q.service.Snapshot()
	if !input.Refresh && !snap.FetchedAt.IsZero() {
		return snap, nil
	}
	snap, err := q.service.UpdateDashboard(ctx)
	if err != nil && snap.FetchedAt.IsZero() {
		return portal.Snapshot{}, err
	}
	return snap, nil
}
