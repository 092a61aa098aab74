package memory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravadigital/guestlist-api/internal/domain/event"
)

func TestPutAndGet(t *testing.T) {
	s := NewStore()
	ev := event.New("dinner", event.Unbounded())

	require.NoError(t, s.Put(ev))
	assert.Equal(t, 1, s.Len())

	got, err := s.Get(ev.ID)
	require.NoError(t, err)
	assert.Same(t, ev, got, "Get returns the live event")
}

func TestPutDuplicateFails(t *testing.T) {
	s := NewStore()
	ev := event.New("dinner", event.Unbounded())

	require.NoError(t, s.Put(ev))
	assert.ErrorIs(t, s.Put(ev), event.ErrEventExists)
}

func TestGetUnknownEvent(t *testing.T) {
	s := NewStore()
	_, err := s.Get(uuid.New())
	assert.ErrorIs(t, err, event.ErrEventNotFound)
}

func TestIDs(t *testing.T) {
	s := NewStore()
	a := event.New("a", event.Unbounded())
	b := event.New("b", event.Unbounded())
	require.NoError(t, s.Put(a))
	require.NoError(t, s.Put(b))

	ids := s.IDs()
	assert.ElementsMatch(t, []uuid.UUID{a.ID, b.ID}, ids)
}
