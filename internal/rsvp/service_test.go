package rsvp

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravadigital/guestlist-api/internal/domain/event"
	"github.com/gravadigital/guestlist-api/internal/notify"
	"github.com/gravadigital/guestlist-api/internal/storage/memory"
)

type fakeGateway struct {
	mu       sync.Mutex
	saved    map[uuid.UUID]*event.Event
	saves    int
	failSave error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{saved: make(map[uuid.UUID]*event.Event)}
}

func (g *fakeGateway) LoadAll(ctx context.Context) ([]*event.Event, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]*event.Event, 0, len(g.saved))
	for _, ev := range g.saved {
		out = append(out, ev.Clone())
	}
	return out, nil
}

func (g *fakeGateway) LoadEvent(ctx context.Context, id uuid.UUID) (*event.Event, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	ev, ok := g.saved[id]
	if !ok {
		return nil, event.ErrEventNotFound
	}
	return ev.Clone(), nil
}

func (g *fakeGateway) SaveEvent(ctx context.Context, ev *event.Event) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.saves++
	if g.failSave != nil {
		return g.failSave
	}
	g.saved[ev.ID] = ev.Clone()
	return nil
}

func (g *fakeGateway) saveCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.saves
}

type fixture struct {
	svc      *Service
	store    *memory.Store
	gateway  *fakeGateway
	notifier *notify.Recorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gw := newFakeGateway()
	rec := notify.NewRecorder()
	store := memory.NewStore()
	return &fixture{
		svc:      NewService(store, gw, notify.NewReconciler(rec)),
		store:    store,
		gateway:  gw,
		notifier: rec,
	}
}

func (f *fixture) makeEvent(t *testing.T, capacity event.Capacity) *event.Event {
	t.Helper()
	ev := event.New("pack walk", capacity)
	require.NoError(t, f.svc.CreateEvent(context.Background(), ev))
	return ev
}

func limited(t *testing.T, n int) event.Capacity {
	t.Helper()
	cap, err := event.Limited(n)
	require.NoError(t, err)
	return cap
}

func attendeeIDs(ev *event.Event) []uuid.UUID {
	out := make([]uuid.UUID, len(ev.Attendees))
	for i, reg := range ev.Attendees {
		out[i] = reg.UserID
	}
	return out
}

func TestCreateEventRejectsEmptyName(t *testing.T) {
	f := newFixture(t)
	ev := event.New("", limited(t, 2))

	err := f.svc.CreateEvent(context.Background(), ev)
	require.ErrorIs(t, err, event.ErrInvalidName)
	assert.True(t, IsRequestError(err))
	assert.Equal(t, 0, f.store.Len())
}

func TestRegisterAdmitsUntilCapacityThenWaitlists(t *testing.T) {
	f := newFixture(t)
	ev := f.makeEvent(t, limited(t, 2))
	ctx := context.Background()

	a, b, c := uuid.New(), uuid.New(), uuid.New()

	res, err := f.svc.Register(ctx, ev.ID, a, "A")
	require.NoError(t, err)
	assert.Equal(t, event.StatusAttending, res.Status)

	res, err = f.svc.Register(ctx, ev.ID, b, "B")
	require.NoError(t, err)
	assert.Equal(t, event.StatusAttending, res.Status)

	res, err = f.svc.Register(ctx, ev.ID, c, "C")
	require.NoError(t, err)
	assert.Equal(t, event.StatusWaitlisted, res.Status)

	roster, err := f.svc.Roster(ev.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{a, b}, attendeeIDs(roster))
	require.Len(t, roster.Waitlist, 1)
	assert.Equal(t, c, roster.Waitlist[0].UserID)
}

func TestRegisterIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ev := f.makeEvent(t, limited(t, 2))
	ctx := context.Background()

	a, b := uuid.New(), uuid.New()
	_, err := f.svc.Register(ctx, ev.ID, a, "A")
	require.NoError(t, err)
	_, err = f.svc.Register(ctx, ev.ID, b, "B")
	require.NoError(t, err)

	res, err := f.svc.Register(ctx, ev.ID, a, "A")
	require.NoError(t, err)
	assert.True(t, res.AlreadyRegistered)
	assert.Equal(t, event.StatusAttending, res.Status)
	assert.Empty(t, res.Warnings)

	roster, err := f.svc.Roster(ev.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{a, b}, attendeeIDs(roster), "position must not change")
	assert.Empty(t, roster.Waitlist)
}

func TestRegisterEventNotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Register(context.Background(), uuid.New(), uuid.New(), "A")
	assert.ErrorIs(t, err, event.ErrEventNotFound)
}

func TestRegisterClosedEventRejected(t *testing.T) {
	f := newFixture(t)
	ev := f.makeEvent(t, limited(t, 2))
	ctx := context.Background()

	_, err := f.svc.CloseEvent(ctx, ev.ID)
	require.NoError(t, err)

	_, err = f.svc.Register(ctx, ev.ID, uuid.New(), "A")
	assert.ErrorIs(t, err, event.ErrEventClosed)
}

func TestRegisterKeepsRosterEntryWhenConfirmationFails(t *testing.T) {
	f := newFixture(t)
	ev := f.makeEvent(t, limited(t, 2))
	ctx := context.Background()

	a := uuid.New()
	f.notifier.FailTarget(notify.UserTarget(a), errors.New("user unreachable"))

	res, err := f.svc.Register(ctx, ev.ID, a, "A")
	require.NoError(t, err, "delivery failure must not fail the registration")
	assert.Equal(t, event.StatusAttending, res.Status)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, notify.ViewConfirmation, res.Warnings[0].View)
	assert.Equal(t, a, res.Warnings[0].UserID)

	roster, err := f.svc.Roster(ev.ID)
	require.NoError(t, err)
	require.Len(t, roster.Attendees, 1)
	assert.True(t, roster.Attendees[0].ConfirmationRef.None(), "no ref without successful delivery")
}

func TestCancelPromotesHeadOfWaitlist(t *testing.T) {
	f := newFixture(t)
	ev := f.makeEvent(t, limited(t, 2))
	ctx := context.Background()

	a, b, c := uuid.New(), uuid.New(), uuid.New()
	for _, u := range []struct {
		id   uuid.UUID
		name string
	}{{a, "A"}, {b, "B"}, {c, "C"}} {
		_, err := f.svc.Register(ctx, ev.ID, u.id, u.name)
		require.NoError(t, err)
	}

	res, err := f.svc.ConfirmCancel(ctx, ev.ID, a)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{c}, res.Promoted)

	roster, err := f.svc.Roster(ev.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{b, c}, attendeeIDs(roster))
	assert.Empty(t, roster.Waitlist)
}

func TestCancelFromWaitlistDoesNotPromote(t *testing.T) {
	f := newFixture(t)
	ev := f.makeEvent(t, limited(t, 1))
	ctx := context.Background()

	a, b, c := uuid.New(), uuid.New(), uuid.New()
	_, err := f.svc.Register(ctx, ev.ID, a, "A")
	require.NoError(t, err)
	_, err = f.svc.Register(ctx, ev.ID, b, "B")
	require.NoError(t, err)
	_, err = f.svc.Register(ctx, ev.ID, c, "C")
	require.NoError(t, err)

	res, err := f.svc.ConfirmCancel(ctx, ev.ID, b)
	require.NoError(t, err)
	assert.Empty(t, res.Promoted)

	roster, err := f.svc.Roster(ev.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{a}, attendeeIDs(roster))
	require.Len(t, roster.Waitlist, 1)
	assert.Equal(t, c, roster.Waitlist[0].UserID)
}

func TestCancelNotInRoster(t *testing.T) {
	f := newFixture(t)
	ev := f.makeEvent(t, limited(t, 2))

	_, err := f.svc.ConfirmCancel(context.Background(), ev.ID, uuid.New())
	assert.ErrorIs(t, err, event.ErrNotInRoster)
}

func TestReRegisterAfterCancelJoinsBackOfWaitlist(t *testing.T) {
	f := newFixture(t)
	ev := f.makeEvent(t, limited(t, 1))
	ctx := context.Background()

	a, b, c := uuid.New(), uuid.New(), uuid.New()
	_, err := f.svc.Register(ctx, ev.ID, a, "A")
	require.NoError(t, err)
	_, err = f.svc.Register(ctx, ev.ID, b, "B")
	require.NoError(t, err)
	_, err = f.svc.Register(ctx, ev.ID, c, "C")
	require.NoError(t, err)

	// B leaves the waitlist and rejoins: they go to the back, behind C.
	_, err = f.svc.ConfirmCancel(ctx, ev.ID, b)
	require.NoError(t, err)
	res, err := f.svc.Register(ctx, ev.ID, b, "B")
	require.NoError(t, err)
	assert.Equal(t, event.StatusWaitlisted, res.Status)

	roster, err := f.svc.Roster(ev.ID)
	require.NoError(t, err)
	require.Len(t, roster.Waitlist, 2)
	assert.Equal(t, c, roster.Waitlist[0].UserID)
	assert.Equal(t, b, roster.Waitlist[1].UserID)
}

func TestCapacityIncreasePromotesInOrder(t *testing.T) {
	f := newFixture(t)
	ev := f.makeEvent(t, limited(t, 1))
	ctx := context.Background()

	x, y, z := uuid.New(), uuid.New(), uuid.New()
	_, err := f.svc.Register(ctx, ev.ID, x, "X")
	require.NoError(t, err)
	_, err = f.svc.Register(ctx, ev.ID, y, "Y")
	require.NoError(t, err)
	_, err = f.svc.Register(ctx, ev.ID, z, "Z")
	require.NoError(t, err)

	res, err := f.svc.ChangeCapacity(ctx, ev.ID, limited(t, 3))
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{y, z}, res.Promoted)

	roster, err := f.svc.Roster(ev.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{x, y, z}, attendeeIDs(roster))
	assert.Empty(t, roster.Waitlist)
}

func TestCapacityLiftedToUnboundedPromotesEveryone(t *testing.T) {
	f := newFixture(t)
	ev := f.makeEvent(t, limited(t, 1))
	ctx := context.Background()

	_, err := f.svc.Register(ctx, ev.ID, uuid.New(), "X")
	require.NoError(t, err)
	for range 5 {
		_, err = f.svc.Register(ctx, ev.ID, uuid.New(), "W")
		require.NoError(t, err)
	}

	res, err := f.svc.ChangeCapacity(ctx, ev.ID, event.Unbounded())
	require.NoError(t, err)
	assert.Len(t, res.Promoted, 5)

	roster, err := f.svc.Roster(ev.ID)
	require.NoError(t, err)
	assert.Len(t, roster.Attendees, 6)
	assert.Empty(t, roster.Waitlist)
}

func TestCapacityShrinkNeverEvicts(t *testing.T) {
	f := newFixture(t)
	ev := f.makeEvent(t, limited(t, 3))
	ctx := context.Background()

	ids := make([]uuid.UUID, 3)
	for i := range ids {
		ids[i] = uuid.New()
		_, err := f.svc.Register(ctx, ev.ID, ids[i], "U")
		require.NoError(t, err)
	}

	_, err := f.svc.ChangeCapacity(ctx, ev.ID, limited(t, 1))
	require.NoError(t, err)

	roster, err := f.svc.Roster(ev.ID)
	require.NoError(t, err)
	assert.Equal(t, ids, attendeeIDs(roster), "shrinking capacity must not evict")

	// New registrations are constrained by the shrunk capacity.
	res, err := f.svc.Register(ctx, ev.ID, uuid.New(), "late")
	require.NoError(t, err)
	assert.Equal(t, event.StatusWaitlisted, res.Status)
}

func TestPersistenceFailureSurfacesAsOperationError(t *testing.T) {
	f := newFixture(t)
	ev := f.makeEvent(t, limited(t, 2))
	ctx := context.Background()

	f.gateway.failSave = errors.New("disk full")
	a := uuid.New()
	res, err := f.svc.Register(ctx, ev.ID, a, "A")

	var perr *PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, ev.ID, perr.EventID)
	require.NotNil(t, res, "committed roster result still reported")
	assert.Equal(t, event.StatusAttending, res.Status)

	// In-memory state already changed: the retry is an idempotent no-op.
	f.gateway.failSave = nil
	res, err = f.svc.Register(ctx, ev.ID, a, "A")
	require.NoError(t, err)
	assert.True(t, res.AlreadyRegistered)
}

func TestSavedOncePerOperation(t *testing.T) {
	f := newFixture(t)
	ev := f.makeEvent(t, limited(t, 3))
	ctx := context.Background()

	ids := make([]uuid.UUID, 6)
	for i := range ids {
		ids[i] = uuid.New()
		_, err := f.svc.Register(ctx, ev.ID, ids[i], "U")
		require.NoError(t, err)
	}

	before := f.gateway.saveCount()
	// Freeing three slots at once promotes three users in one sweep.
	_, err := f.svc.ChangeCapacity(ctx, ev.ID, limited(t, 6))
	require.NoError(t, err)
	assert.Equal(t, before+1, f.gateway.saveCount(), "one save per sweep, not per promotion")
}

func TestConcurrentRegistrationsNeverExceedCapacity(t *testing.T) {
	f := newFixture(t)
	ev := f.makeEvent(t, limited(t, 5))
	ctx := context.Background()

	var wg sync.WaitGroup
	for range 40 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Register(ctx, ev.ID, uuid.New(), "guest")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	roster, err := f.svc.Roster(ev.ID)
	require.NoError(t, err)
	assert.Len(t, roster.Attendees, 5)
	assert.Len(t, roster.Waitlist, 35)

	seen := make(map[uuid.UUID]bool)
	for _, reg := range roster.Attendees {
		assert.False(t, seen[reg.UserID])
		seen[reg.UserID] = true
	}
	for _, reg := range roster.Waitlist {
		assert.False(t, seen[reg.UserID], "user in both sequences")
		seen[reg.UserID] = true
	}
}

func TestListOrdersByCreation(t *testing.T) {
	f := newFixture(t)
	first := f.makeEvent(t, limited(t, 2))
	second := f.makeEvent(t, event.Unbounded())

	events := f.svc.List()
	require.Len(t, events, 2)
	assert.Equal(t, first.ID, events[0].ID)
	assert.Equal(t, second.ID, events[1].ID)
}

func TestLoadFromGateway(t *testing.T) {
	f := newFixture(t)
	ev := f.makeEvent(t, limited(t, 2))
	_, err := f.svc.Register(context.Background(), ev.ID, uuid.New(), "A")
	require.NoError(t, err)

	// A fresh service over the same gateway sees the saved roster.
	restarted := NewService(memory.NewStore(), f.gateway, notify.NewReconciler(notify.NewRecorder()))
	require.NoError(t, restarted.LoadFromGateway(context.Background()))

	roster, err := restarted.Roster(ev.ID)
	require.NoError(t, err)
	assert.Len(t, roster.Attendees, 1)
}
