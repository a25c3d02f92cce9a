package queries

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-kbadmin/components/portal"
)

type stubSnapshotService struct {
	snapshot portal.Snapshot
	updates  int
	err      error
}

func (s *stubSnapshotService) Snapshot() portal.Snapshot {
	return s.snapshot
}

func (s *stubSnapshotService) UpdateDashboard(context.Context) (portal.Snapshot, error) {
	s.updates++
	if s.err != nil {
		return portal.Snapshot{}, s.err
	}
	s.snapshot = portal.Snapshot{
		Cards:     portal.StatCards{TotalArticles: "348"},
		FetchedAt: time.Date(2026, time.October, 17, 0, 0, 0, 0, time.UTC),
	}
	return s.snapshot, nil
}

func TestDashboardQueryFetchesWhenEmpty(t *testing.T) {
	service := &stubSnapshotService{}
	snap, err := NewDashboardQuery(service).Query(context.Background(), DashboardInput{})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if service.updates != 1 || snap.Cards.TotalArticles != "348" {
		t.Fatalf("expected fresh snapshot, got %d updates %#v", service.updates, snap)
	}
}

func TestDashboardQueryUsesCachedSnapshot(t *testing.T) {
	service := &stubSnapshotService{snapshot: portal.Snapshot{FetchedAt: time.Now()}}
	query := NewDashboardQuery(service)
	if _, err := query.Query(context.Background(), DashboardInput{}); err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if service.updates != 0 {
		t.Fatalf("expected cached snapshot, got %d updates", service.updates)
	}
	if _, err := query.Query(context.Background(), DashboardInput{Refresh: true}); err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if service.updates != 1 {
		t.Fatalf("expected forced refresh")
	}
}

func TestDashboardQueryPropagatesFetchErrors(t *testing.T) {
	boom := errors.New("boom")
	_, err := NewDashboardQuery(&stubSnapshotService{err: boom}).Query(context.Background(), DashboardInput{})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
}

type stubStatusService struct{}

func (stubStatusService) Site() portal.SiteConfig {
	return portal.SiteConfig{SiteURL: portal.DefaultSiteURL}
}

func (stubStatusService) Status() portal.ConnectionStatus {
	return portal.ConnectionStatus{Phase: portal.PhaseConnected, Message: "Connected"}
}

func (stubStatusService) Connected() bool {
	return true
}

func (stubStatusService) ActiveView() string {
	return "approvals"
}

func (stubStatusService) Notifications() []portal.Notification {
	return nil
}

func TestStatusQuery(t *testing.T) {
	report, err := NewStatusQuery(stubStatusService{}).Query(context.Background(), StatusInput{})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if !report.Connected || report.View != "approvals" || report.SiteURL != portal.DefaultSiteURL {
		t.Fatalf("unexpected report %#v", report)
	}
}
