package rsvp

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravadigital/guestlist-api/internal/domain/event"
	"github.com/gravadigital/guestlist-api/internal/notify"
)

func strPtr(s string) *string {
	return &s
}

func TestUpdateEventEditsHeaderFields(t *testing.T) {
	f := newFixture(t)
	ev := f.makeEvent(t, limited(t, 2))
	ctx := context.Background()

	a := uuid.New()
	_, err := f.svc.Register(ctx, ev.ID, a, "A")
	require.NoError(t, err)
	_, err = f.svc.Announce(ctx, ev.ID, notify.ChannelTarget("ann"), notify.ChannelTarget("grp"))
	require.NoError(t, err)

	date := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)
	res, err := f.svc.UpdateEvent(ctx, ev.ID, EventUpdate{
		Name:     strPtr("harbor cleanup"),
		Date:     &date,
		Location: strPtr("north pier"),
	})
	require.NoError(t, err)
	assert.Empty(t, res.Warnings)

	roster, err := f.svc.Roster(ev.ID)
	require.NoError(t, err)
	assert.Equal(t, "harbor cleanup", roster.Name)
	require.NotNil(t, roster.Date)
	assert.Equal(t, date, *roster.Date)
	assert.Equal(t, "north pier", roster.Location)

	// Every view carrying the header is re-rendered.
	ann, ok := f.notifier.View(roster.AnnouncementRef)
	require.True(t, ok)
	assert.Contains(t, ann.Title, "harbor cleanup")
	assert.Contains(t, ann.Title, "north pier")

	conf, ok := f.notifier.View(roster.Attendees[0].ConfirmationRef)
	require.True(t, ok)
	assert.Contains(t, conf.Title, "harbor cleanup")
}

func TestUpdateEventClearsDate(t *testing.T) {
	f := newFixture(t)
	ev := f.makeEvent(t, limited(t, 2))
	ctx := context.Background()

	date := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)
	_, err := f.svc.UpdateEvent(ctx, ev.ID, EventUpdate{Date: &date})
	require.NoError(t, err)

	_, err = f.svc.UpdateEvent(ctx, ev.ID, EventUpdate{ClearDate: true})
	require.NoError(t, err)

	roster, err := f.svc.Roster(ev.ID)
	require.NoError(t, err)
	assert.Nil(t, roster.Date)
}

func TestUpdateEventRejectsEmptyName(t *testing.T) {
	f := newFixture(t)
	ev := f.makeEvent(t, limited(t, 2))

	_, err := f.svc.UpdateEvent(context.Background(), ev.ID, EventUpdate{Name: strPtr("")})
	require.ErrorIs(t, err, event.ErrInvalidName)
	assert.True(t, IsRequestError(err))

	roster, err := f.svc.Roster(ev.ID)
	require.NoError(t, err)
	assert.Equal(t, "pack walk", roster.Name)
}

func TestUpdateEventUnknownEvent(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.UpdateEvent(context.Background(), uuid.New(), EventUpdate{Name: strPtr("x")})
	assert.ErrorIs(t, err, event.ErrEventNotFound)
}

func TestUpdateEventPersistsOnce(t *testing.T) {
	f := newFixture(t)
	ev := f.makeEvent(t, limited(t, 2))
	before := f.gateway.saveCount()

	_, err := f.svc.UpdateEvent(context.Background(), ev.ID, EventUpdate{Location: strPtr("dock 3")})
	require.NoError(t, err)
	assert.Equal(t, before+1, f.gateway.saveCount())
}
