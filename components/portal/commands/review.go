package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
)

var errReviewServiceRequired = errors.New("review command requires service")

type reviewService interface {
	Approve(ctx context.Context, itemID string) error
	Reject(ctx context.Context, itemID, reason string) error
}

// ApproveArticleInput identifies the article to approve.
type ApproveArticleInput struct {
	ItemID string `json:"item_id"`
}

// ApproveArticleCommand approves a pending article.
type ApproveArticleCommand struct {
	service   reviewService
	telemetry Telemetry
}

// NewApproveArticleCommand creates the command.
func NewApproveArticleCommand(service reviewService, telemetry Telemetry) *ApproveArticleCommand {
	return &ApproveArticleCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ApproveArticleInput] = (*ApproveArticleCommand)(nil)

// Execute approves the article through the portal service.
func (c *ApproveArticleCommand) Execute(ctx context.Context, msg ApproveArticleInput) error {
	if c.service == nil {
		return errReviewServiceRequired
	}
	if err := c.service.Approve(ctx, msg.ItemID); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "portal.command.approve", map[string]any{"item_id": msg.ItemID})
	return nil
}

// RejectArticleInput identifies the article to reject and why. An empty
// reason is a cancelled rejection.
type RejectArticleInput struct {
	ItemID string `json:"item_id"`
	Reason string `json:"reason"`
}

// RejectArticleCommand rejects a pending article.
type RejectArticleCommand struct {
	service   reviewService
	telemetry Telemetry
}

// NewRejectArticleCommand creates the command.
func NewRejectArticleCommand(service reviewService, telemetry Telemetry) *RejectArticleCommand {
	return &RejectArticleCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[RejectArticleInput] = (*RejectArticleCommand)(nil)

// Execute rejects the article through the portal service.
func (c *RejectArticleCommand) Execute(ctx context.Context, msg RejectArticleInput) error {
	if c.service == nil {
		return errReviewServiceRequired
	}
	if err := c.service.Reject(ctx, msg.ItemID, msg.Reason); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "portal.command.reject", map[string]any{
		"item_id":   msg.ItemID,
		"cancelled": msg.Reason == "",
	})
	return nil
}
