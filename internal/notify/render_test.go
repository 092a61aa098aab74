package notify

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravadigital/guestlist-api/internal/domain/event"
)

func testEvent(t *testing.T, capacity int) *event.Event {
	t.Helper()
	cap, err := event.Limited(capacity)
	require.NoError(t, err)
	return event.New("Full Moon Hike", cap)
}

func TestHeaderRendersScheduleAndLocation(t *testing.T) {
	ev := testEvent(t, 10)
	date := time.Date(2026, time.September, 12, 0, 0, 0, 0, time.UTC)
	ev.Date = &date
	ev.StartTime = "18:30"
	ev.EndTime = "21:00"
	ev.Location = "Trailhead"
	ev.LocationLink = "https://maps.example/trailhead"

	header := Header(ev)
	assert.Contains(t, header, "Full Moon Hike")
	assert.Contains(t, header, "Saturday, September 12, 2026")
	assert.Contains(t, header, "Time: 6:30 PM - 9:00 PM")
	assert.Contains(t, header, "Location: Trailhead (https://maps.example/trailhead)")
}

func TestHeaderOmitsAbsentFields(t *testing.T) {
	ev := testEvent(t, 10)
	header := Header(ev)
	assert.NotContains(t, header, "Date:")
	assert.NotContains(t, header, "Time:")
	assert.NotContains(t, header, "Location:")
}

func TestHeaderStartTimeOnly(t *testing.T) {
	ev := testEvent(t, 10)
	ev.StartTime = "09:05"

	header := Header(ev)
	assert.Contains(t, header, "Start Time: 9:05 AM")
	assert.NotContains(t, header, "End Time:")
}

func TestAnnouncementListsRosterInOrder(t *testing.T) {
	ev := testEvent(t, 2)
	require.NoError(t, ev.Admit(event.NewRegistration(uuid.New(), "Ada", event.StatusAttending)))
	require.NoError(t, ev.Admit(event.NewRegistration(uuid.New(), "Grace", event.StatusAttending)))
	require.NoError(t, ev.Enqueue(event.NewRegistration(uuid.New(), "Edsger", event.StatusWaitlisted)))

	p := Announcement(ev)
	assert.Contains(t, p.Body, "Attending: 2/2")
	assert.Contains(t, p.Body, "Ada, Grace")
	assert.Contains(t, p.Body, "Waitlist: 1")
	assert.Contains(t, p.Body, "Edsger")
	assert.Equal(t, ActionJoinWaitlist, p.Action)
}

func TestAnnouncementUnboundedCapacity(t *testing.T) {
	ev := event.New("Open Mic", event.Unbounded())
	require.NoError(t, ev.Admit(event.NewRegistration(uuid.New(), "Ada", event.StatusAttending)))

	p := Announcement(ev)
	assert.Contains(t, p.Body, "Attending: 1")
	assert.NotContains(t, p.Body, "Capacity:")
	assert.Equal(t, ActionJoin, p.Action)
}

func TestAnnouncementIsDeterministic(t *testing.T) {
	ev := testEvent(t, 3)
	require.NoError(t, ev.Admit(event.NewRegistration(uuid.New(), "Ada", event.StatusAttending)))

	assert.Equal(t, Announcement(ev), Announcement(ev), "same state must render the same payload")
}

func TestClosedEventHasNoAffordance(t *testing.T) {
	ev := testEvent(t, 3)
	ev.Closed = true

	assert.Equal(t, ActionNone, Announcement(ev).Action)
	assert.Equal(t, ActionNone, GroupPrompt(ev).Action)
}

func TestConfirmationVariants(t *testing.T) {
	ev := testEvent(t, 3)

	tests := []struct {
		kind   ConfirmationKind
		action Action
		body   string
	}{
		{KindRegistered, ActionCancelRSVP, "successfully RSVP'd"},
		{KindWaitlisted, ActionCancelWaitlist, "joined the waitlist"},
		{KindResendAttending, ActionCancelRSVP, "already RSVP'd"},
		{KindResendWaitlisted, ActionCancelWaitlist, "already on the waitlist"},
		{KindPromoted, ActionCancelRSVP, "now RSVP'd"},
		{KindCancelled, ActionNone, "no longer RSVP'd"},
		{KindWaitlistRemoved, ActionNone, "removed from the waitlist"},
		{KindClosed, ActionNone, "closed"},
	}
	for _, tc := range tests {
		p := Confirmation(ev, tc.kind)
		assert.Equal(t, tc.action, p.Action)
		assert.Contains(t, p.Body, tc.body)
	}
}

func TestKindMappings(t *testing.T) {
	assert.Equal(t, KindResendAttending, ResendKind(event.StatusAttending))
	assert.Equal(t, KindResendWaitlisted, ResendKind(event.StatusWaitlisted))
	assert.Equal(t, KindRegistered, RegisteredKind(event.StatusAttending))
	assert.Equal(t, KindWaitlisted, RegisteredKind(event.StatusWaitlisted))
	assert.Equal(t, KindCancelled, CancelledKind(event.StatusAttending))
	assert.Equal(t, KindWaitlistRemoved, CancelledKind(event.StatusWaitlisted))
}
