package notify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravadigital/guestlist-api/internal/domain/event"
)

func TestDiscardDropsDeliveriesWithoutRefs(t *testing.T) {
	var n Notifier = Discard{}
	ctx := context.Background()

	ref, err := n.CreateView(ctx, ChannelTarget("announcements"), Payload{Body: "b"})
	require.NoError(t, err)
	assert.True(t, ref.None(), "a dropped view gets no ref")

	echoed, err := n.SetView(ctx, event.ViewRef("msg-1"), Payload{Body: "b2"})
	require.NoError(t, err)
	assert.Equal(t, event.ViewRef("msg-1"), echoed)

	assert.NoError(t, n.DeleteView(ctx, event.ViewRef("msg-1")))
}
