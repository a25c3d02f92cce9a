package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-kbadmin/components/portal"
)

type statusService interface {
	Site() portal.SiteConfig
	Status() portal.ConnectionStatus
	Connected() bool
	ActiveView() string
	Notifications() []portal.Notification
}

// StatusInput is the empty status request.
type StatusInput struct{}

// StatusReport summarizes the portal shell state.
type StatusReport struct {
	SiteURL       string                  `json:"site_url"`
	Connected     bool                    `json:"connected"`
	Status        portal.ConnectionStatus `json:"status"`
	View          string                  `json:"view"`
	Notifications []portal.Notification   `json:"notifications"`
}

// StatusQuery reports connection and view state.
type StatusQuery struct {
	service statusService
}

// NewStatusQuery builds the query.
func NewStatusQuery(service statusService) *StatusQuery {
	return &StatusQuery{service: service}
}

var _ gocommand.Querier[StatusInput, StatusReport] = (*StatusQuery)(nil)

// Query returns the current shell state.
func (q *StatusQuery) Query(context.Context, StatusInput) (StatusReport, error) {
	return StatusReport{
		SiteURL:       q.service.Site().SiteURL,
		Connected:     q.service.Connected(),
		Status:        q.service.Status(),
		View:          q.service.ActiveView(),
		Notifications: q.service.Notifications(),
	}, nil
}
