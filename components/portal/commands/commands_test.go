package commands

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-kbadmin/components/portal"
)

type stubService struct {
	approveCalls int
	rejectCalls  int
	refreshCalls int
	lastReason   string
	siteURL      string
	err          error
}

func (s *stubService) Approve(context.Context, string) error {
	s.approveCalls++
	return s.err
}

func (s *stubService) Reject(_ context.Context, _ string, reason string) error {
	s.rejectCalls++
	s.lastReason = reason
	return s.err
}

func (s *stubService) UpdateDashboard(context.Context) (portal.Snapshot, error) {
	s.refreshCalls++
	return portal.Snapshot{}, s.err
}

func (s *stubService) SetSiteURL(url string) error {
	s.siteURL = url
	return s.err
}

type stubTelemetry struct {
	calls  int
	events []string
}

func (t *stubTelemetry) Record(_ context.Context, event string, _ map[string]any) {
	t.calls++
	t.events = append(t.events, event)
}

type stubDispatcher struct {
	events []portal.UIEvent
}

func (d *stubDispatcher) Dispatch(_ context.Context, event portal.UIEvent) error {
	d.events = append(d.events, event)
	return nil
}

func TestApproveArticleCommand(t *testing.T) {
	service := &stubService{}
	telemetry := &stubTelemetry{}
	cmd := NewApproveArticleCommand(service, telemetry)
	if err := cmd.Execute(context.Background(), ApproveArticleInput{ItemID: "42"}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if service.approveCalls != 1 {
		t.Fatalf("expected approve call")
	}
	if telemetry.calls != 1 || telemetry.events[0] != "portal.command.approve" {
		t.Fatalf("expected telemetry event, got %v", telemetry.events)
	}
}

func TestApproveArticleCommandPropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	telemetry := &stubTelemetry{}
	cmd := NewApproveArticleCommand(&stubService{err: boom}, telemetry)
	if err := cmd.Execute(context.Background(), ApproveArticleInput{ItemID: "42"}); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if telemetry.calls != 0 {
		t.Fatalf("expected no telemetry on failure")
	}
}

func TestRejectArticleCommand(t *testing.T) {
	service := &stubService{}
	cmd := NewRejectArticleCommand(service, nil)
	if err := cmd.Execute(context.Background(), RejectArticleInput{ItemID: "7", Reason: "stale"}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if service.rejectCalls != 1 || service.lastReason != "stale" {
		t.Fatalf("expected reject call with reason, got %d %q", service.rejectCalls, service.lastReason)
	}
}

func TestRefreshDashboardCommand(t *testing.T) {
	service := &stubService{}
	cmd := NewRefreshDashboardCommand(service, nil)
	if err := cmd.Execute(context.Background(), RefreshDashboardInput{}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if service.refreshCalls != 1 {
		t.Fatalf("expected refresh call")
	}
}

func TestDispatchEventCommand(t *testing.T) {
	d := &stubDispatcher{}
	cmd := NewDispatchEventCommand(d, nil)
	event := portal.UIEvent{Kind: portal.EventNavigate, Target: "#approvals"}
	if err := cmd.Execute(context.Background(), event); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if len(d.events) != 1 || d.events[0] != event {
		t.Fatalf("expected event dispatched, got %#v", d.events)
	}
}

func TestSetSiteURLCommand(t *testing.T) {
	service := &stubService{}
	cmd := NewSetSiteURLCommand(service, nil)
	if err := cmd.Execute(context.Background(), SetSiteURLInput{SiteURL: "https://kb.example.com"}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if service.siteURL != "https://kb.example.com" {
		t.Fatalf("expected site url stored, got %q", service.siteURL)
	}
}

func TestCommandsRequireService(t *testing.T) {
	if err := NewApproveArticleCommand(nil, nil).Execute(context.Background(), ApproveArticleInput{}); err == nil {
		t.Fatalf("expected error without service")
	}
	if err := NewRefreshDashboardCommand(nil, nil).Execute(context.Background(), RefreshDashboardInput{}); err == nil {
		t.Fatalf("expected error without service")
	}
}
