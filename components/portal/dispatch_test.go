package portal

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherNormalizesKinds(t *testing.T) {
	d := NewDispatcher()
	var got UIEvent
	d.Handle("ApproveItem", func(_ context.Context, ev UIEvent) error {
		got = ev
		return nil
	})
	require.NoError(t, d.Dispatch(context.Background(), UIEvent{Kind: " approve_item ", ItemID: "9"}))
	assert.Equal(t, EventKind("approve_item"), got.Kind)
	assert.Equal(t, "9", got.ItemID)
	assert.Equal(t, []EventKind{"approve_item"}, d.Kinds())
}

func TestViewFromTarget(t *testing.T) {
	assert.Equal(t, "analytics", viewFromTarget("#analytics"))
	assert.Equal(t, "settings", viewFromTarget("/admin#settings"))
	assert.Equal(t, "approvals", viewFromTarget("approvals"))
	assert.Equal(t, "", viewFromTarget("#"))
}
