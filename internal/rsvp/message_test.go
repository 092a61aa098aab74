package rsvp

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravadigital/guestlist-api/internal/domain/event"
	"github.com/gravadigital/guestlist-api/internal/notify"
)

func TestMessageReachesSelectedAudience(t *testing.T) {
	f := newFixture(t)
	ev := f.makeEvent(t, limited(t, 1))
	ctx := context.Background()

	a, b := uuid.New(), uuid.New()
	_, err := f.svc.Register(ctx, ev.ID, a, "A")
	require.NoError(t, err)
	_, err = f.svc.Register(ctx, ev.ID, b, "B")
	require.NoError(t, err)

	before := f.notifier.ViewCount()
	res, err := f.svc.Message(ctx, ev.ID, AudienceAttendees, "doors open at 7")
	require.NoError(t, err)
	assert.Empty(t, res.Warnings)
	assert.Equal(t, before+1, f.notifier.ViewCount(), "only the attendee receives it")

	before = f.notifier.ViewCount()
	res, err = f.svc.Message(ctx, ev.ID, AudienceAll, "venue changed")
	require.NoError(t, err)
	assert.Empty(t, res.Warnings)
	assert.Equal(t, before+2, f.notifier.ViewCount(), "attendee and waitlisted user both receive it")
}

func TestMessageAggregatesDeliveryFailures(t *testing.T) {
	f := newFixture(t)
	ev := f.makeEvent(t, limited(t, 3))
	ctx := context.Background()

	a, b, c := uuid.New(), uuid.New(), uuid.New()
	for _, u := range []struct {
		id   uuid.UUID
		name string
	}{{a, "A"}, {b, "B"}, {c, "C"}} {
		_, err := f.svc.Register(ctx, ev.ID, u.id, u.name)
		require.NoError(t, err)
	}

	f.notifier.FailTarget(notify.UserTarget(b), errors.New("user unreachable"))

	before := f.notifier.ViewCount()
	res, err := f.svc.Message(ctx, ev.ID, AudienceAll, "bring waterproofs")
	require.NoError(t, err)

	require.Len(t, res.Warnings, 1)
	assert.Equal(t, notify.ViewMessage, res.Warnings[0].View)
	assert.Equal(t, b, res.Warnings[0].UserID)
	assert.Equal(t, before+2, f.notifier.ViewCount(), "the reachable users still receive it")
}

func TestMessageRejectsUnknownAudience(t *testing.T) {
	f := newFixture(t)
	ev := f.makeEvent(t, limited(t, 2))

	_, err := f.svc.Message(context.Background(), ev.ID, Audience("everyone"), "hi")
	require.ErrorIs(t, err, ErrInvalidAudience)
	assert.True(t, IsRequestError(err))
}

func TestMessageUnknownEvent(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Message(context.Background(), uuid.New(), AudienceAll, "hi")
	assert.ErrorIs(t, err, event.ErrEventNotFound)
}

func TestMessageDoesNotMutateOrPersist(t *testing.T) {
	f := newFixture(t)
	ev := f.makeEvent(t, limited(t, 1))
	ctx := context.Background()

	a := uuid.New()
	_, err := f.svc.Register(ctx, ev.ID, a, "A")
	require.NoError(t, err)

	saves := f.gateway.saveCount()
	_, err = f.svc.Message(ctx, ev.ID, AudienceAll, "see you there")
	require.NoError(t, err)

	assert.Equal(t, saves, f.gateway.saveCount())

	roster, err := f.svc.Roster(ev.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{a}, attendeeIDs(roster))
	assert.Empty(t, roster.Waitlist)
}
