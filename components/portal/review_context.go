package portal

import "context"

// ReviewerContext identifies who performed a review decision.
type ReviewerContext struct {
	ReviewerID string
	SiteURL    string
}

type reviewerContextKey struct{}

// ContextWithReviewer stores reviewer metadata on the context.
func ContextWithReviewer(ctx context.Context, meta ReviewerContext) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, reviewerContextKey{}, meta)
}

// reviewerFrom extracts the reviewer metadata, if present.
func reviewerFrom(ctx context.Context) ReviewerContext {
	if ctx == nil {
		return ReviewerContext{}
	}
	if meta, ok := ctx.Value(reviewerContextKey{}).(ReviewerContext); ok {
		return meta
	}
	return ReviewerContext{}
}
