package event

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func limited(t *testing.T, n int) Capacity {
	t.Helper()
	cap, err := Limited(n)
	require.NoError(t, err)
	return cap
}

func TestAdmitRespectsCapacity(t *testing.T) {
	ev := New("dinner", limited(t, 2))

	require.NoError(t, ev.Admit(NewRegistration(uuid.New(), "A", StatusAttending)))
	require.NoError(t, ev.Admit(NewRegistration(uuid.New(), "B", StatusAttending)))

	err := ev.Admit(NewRegistration(uuid.New(), "C", StatusAttending))
	assert.Error(t, err)
	assert.Len(t, ev.Attendees, 2)
}

func TestAdmitRejectsDuplicateUser(t *testing.T) {
	ev := New("dinner", limited(t, 5))
	userID := uuid.New()

	require.NoError(t, ev.Admit(NewRegistration(userID, "A", StatusAttending)))

	assert.Error(t, ev.Admit(NewRegistration(userID, "A", StatusAttending)))
	assert.Error(t, ev.Enqueue(NewRegistration(userID, "A", StatusWaitlisted)))
	assert.Len(t, ev.Attendees, 1)
	assert.Empty(t, ev.Waitlist)
}

func TestUnboundedCapacityAlwaysAdmits(t *testing.T) {
	ev := New("festival", Unbounded())

	for range 100 {
		require.NoError(t, ev.Admit(NewRegistration(uuid.New(), "guest", StatusAttending)))
	}
	assert.True(t, ev.HasRoom())
}

func TestRemoveFromEitherSequence(t *testing.T) {
	ev := New("dinner", limited(t, 1))
	attendee := uuid.New()
	waitlisted := uuid.New()

	require.NoError(t, ev.Admit(NewRegistration(attendee, "A", StatusAttending)))
	require.NoError(t, ev.Enqueue(NewRegistration(waitlisted, "B", StatusWaitlisted)))

	reg, ok := ev.Remove(waitlisted)
	require.True(t, ok)
	assert.Equal(t, StatusWaitlisted, reg.Status)
	assert.Empty(t, ev.Waitlist)

	reg, ok = ev.Remove(attendee)
	require.True(t, ok)
	assert.Equal(t, StatusAttending, reg.Status)
	assert.Empty(t, ev.Attendees)

	_, ok = ev.Remove(attendee)
	assert.False(t, ok)
}

func TestPromoteNextIsFIFO(t *testing.T) {
	ev := New("dinner", limited(t, 3))
	require.NoError(t, ev.Admit(NewRegistration(uuid.New(), "X", StatusAttending)))

	first := uuid.New()
	second := uuid.New()
	require.NoError(t, ev.Enqueue(NewRegistration(first, "Y", StatusWaitlisted)))
	require.NoError(t, ev.Enqueue(NewRegistration(second, "Z", StatusWaitlisted)))

	reg, ok := ev.PromoteNext()
	require.True(t, ok)
	assert.Equal(t, first, reg.UserID)
	assert.Equal(t, StatusAttending, reg.Status)

	reg, ok = ev.PromoteNext()
	require.True(t, ok)
	assert.Equal(t, second, reg.UserID)

	_, ok = ev.PromoteNext()
	assert.False(t, ok, "empty waitlist must not promote")
}

func TestPromoteNextStopsAtCapacity(t *testing.T) {
	ev := New("dinner", limited(t, 1))
	require.NoError(t, ev.Admit(NewRegistration(uuid.New(), "X", StatusAttending)))
	require.NoError(t, ev.Enqueue(NewRegistration(uuid.New(), "Y", StatusWaitlisted)))

	_, ok := ev.PromoteNext()
	assert.False(t, ok)
	assert.Len(t, ev.Waitlist, 1)
}

func TestCloneIsDetached(t *testing.T) {
	ev := New("dinner", limited(t, 2))
	userID := uuid.New()
	require.NoError(t, ev.Admit(NewRegistration(userID, "A", StatusAttending)))

	snap := ev.Clone()
	snap.Attendees[0].DisplayName = "tampered"
	snap.Attendees = nil

	assert.Equal(t, "A", ev.Attendees[0].DisplayName)
	assert.Len(t, ev.Attendees, 1)
}

func TestValidate(t *testing.T) {
	ev := New("", limited(t, 2))
	assert.ErrorIs(t, ev.Validate(), ErrInvalidName)

	ev.Name = "dinner"
	assert.NoError(t, ev.Validate())
}
