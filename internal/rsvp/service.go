package rsvp

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/gravadigital/guestlist-api/internal/domain/event"
	"github.com/gravadigital/guestlist-api/internal/logger"
	"github.com/gravadigital/guestlist-api/internal/notify"
	"github.com/gravadigital/guestlist-api/internal/storage/memory"
)

// Gateway is the durable persistence collaborator. It is invoked after
// every committed roster mutation; a failed save is surfaced to the caller
// as a PersistenceError while the in-memory state stands.
type Gateway interface {
	LoadAll(ctx context.Context) ([]*event.Event, error)
	LoadEvent(ctx context.Context, id uuid.UUID) (*event.Event, error)
	SaveEvent(ctx context.Context, ev *event.Event) error
}

// Service is the RSVP state machine. Every roster mutation for one event
// runs under that event's lock; outward view deliveries and the durable
// save run after the lock is released, so the admission decision is never
// delayed by network I/O.
type Service struct {
	store      *memory.Store
	gateway    Gateway
	reconciler *notify.Reconciler
	locks      *eventLocks
	log        *log.Logger
}

// NewService creates the state machine over the given collaborators.
func NewService(store *memory.Store, gateway Gateway, reconciler *notify.Reconciler) *Service {
	return &Service{
		store:      store,
		gateway:    gateway,
		reconciler: reconciler,
		locks:      newEventLocks(),
		log:        logger.Service("rsvp"),
	}
}

// LoadFromGateway warms the in-memory store from durable state at boot.
func (s *Service) LoadFromGateway(ctx context.Context) error {
	events, err := s.gateway.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load events: %w", err)
	}
	for _, ev := range events {
		if err := s.store.Put(ev); err != nil {
			return err
		}
	}
	s.log.Info("Event store warmed from gateway", "events", len(events))
	return nil
}

// CreateEvent registers a new event in the store and saves it.
func (s *Service) CreateEvent(ctx context.Context, ev *event.Event) error {
	if err := ev.Validate(); err != nil {
		return err
	}
	if err := s.store.Put(ev); err != nil {
		return err
	}
	s.log.Info("Event created", "event_id", ev.ID, "name", ev.Name, "capacity", ev.Capacity)

	if err := s.gateway.SaveEvent(ctx, ev.Clone()); err != nil {
		return &PersistenceError{EventID: ev.ID, Err: err}
	}
	return nil
}

// Register admits the user or places them on the waitlist. Registering a
// user who is already in the roster does not duplicate or move their entry;
// it only re-issues their current confirmation.
func (s *Service) Register(ctx context.Context, eventID, userID uuid.UUID, displayName string) (*Result, error) {
	unlock := s.locks.Lock(eventID)

	ev, err := s.store.Get(eventID)
	if err != nil {
		unlock()
		return nil, err
	}
	if ev.Closed {
		unlock()
		return nil, fmt.Errorf("%w: %s", event.ErrEventClosed, eventID)
	}

	res := &Result{}
	var task confirmTask

	if reg, found := ev.Lookup(userID); found {
		res.Status = reg.Status
		res.AlreadyRegistered = true
		task = confirmTask{reg: cloneReg(reg), kind: notify.ResendKind(reg.Status)}
		s.log.Debug("Repeated registration, resending confirmation",
			"event_id", eventID, "user_id", userID, "status", reg.Status)
	} else {
		reg := event.NewRegistration(userID, displayName, event.StatusAttending)
		if ev.HasRoom() {
			err = ev.Admit(reg)
		} else {
			err = ev.Enqueue(reg)
		}
		if err != nil {
			unlock()
			return nil, err
		}
		res.Status = reg.Status
		task = confirmTask{reg: cloneReg(reg), kind: notify.RegisteredKind(reg.Status)}
		s.log.Info("User registered",
			"event_id", eventID, "user_id", userID, "status", reg.Status)
	}

	snap := ev.Clone()
	unlock()

	return s.finish(ctx, snap, []confirmTask{task}, res)
}

// ConfirmCancel removes the user's registration. Removal from the attendee
// sequence frees capacity and triggers the promotion sweep; removal from
// the waitlist never does.
func (s *Service) ConfirmCancel(ctx context.Context, eventID, userID uuid.UUID) (*Result, error) {
	unlock := s.locks.Lock(eventID)

	ev, err := s.store.Get(eventID)
	if err != nil {
		unlock()
		return nil, err
	}

	removed, found := ev.Remove(userID)
	if !found {
		unlock()
		return nil, fmt.Errorf("%w: user %s in event %s", event.ErrNotInRoster, userID, eventID)
	}

	res := &Result{Status: removed.Status}
	tasks := []confirmTask{{reg: cloneReg(removed), kind: notify.CancelledKind(removed.Status)}}

	if removed.Status == event.StatusAttending {
		tasks = append(tasks, s.sweep(ev, res)...)
	}
	s.log.Info("User cancelled",
		"event_id", eventID, "user_id", userID,
		"was", removed.Status, "promoted", len(res.Promoted))

	snap := ev.Clone()
	unlock()

	return s.finish(ctx, snap, tasks, res)
}

// ChangeCapacity updates the event's capacity. Growing it (or lifting the
// limit) triggers the promotion sweep. Shrinking it never evicts attendees
// already admitted; only future admissions are constrained.
func (s *Service) ChangeCapacity(ctx context.Context, eventID uuid.UUID, capacity event.Capacity) (*Result, error) {
	unlock := s.locks.Lock(eventID)

	ev, err := s.store.Get(eventID)
	if err != nil {
		unlock()
		return nil, err
	}

	previous := ev.Capacity
	ev.Capacity = capacity

	res := &Result{}
	var tasks []confirmTask
	if capacity.Exceeds(previous) {
		tasks = s.sweep(ev, res)
	}
	s.log.Info("Capacity changed",
		"event_id", eventID, "from", previous, "to", capacity, "promoted", len(res.Promoted))

	snap := ev.Clone()
	unlock()

	return s.finish(ctx, snap, tasks, res)
}

// EventUpdate carries post-creation edits to an event's header fields. Nil
// fields are left untouched; a non-nil empty string clears its field, except
// the name, which every event must keep.
type EventUpdate struct {
	Name         *string
	Date         *time.Time
	ClearDate    bool
	StartTime    *string
	EndTime      *string
	Location     *string
	LocationLink *string
}

// UpdateEvent edits the event's name, schedule and location and re-renders
// every view that carries them in its header.
func (s *Service) UpdateEvent(ctx context.Context, eventID uuid.UUID, update EventUpdate) (*Result, error) {
	if update.Name != nil && *update.Name == "" {
		return nil, event.ErrInvalidName
	}

	unlock := s.locks.Lock(eventID)

	ev, err := s.store.Get(eventID)
	if err != nil {
		unlock()
		return nil, err
	}

	if update.Name != nil {
		ev.Name = *update.Name
	}
	if update.ClearDate {
		ev.Date = nil
	} else if update.Date != nil {
		ev.Date = update.Date
	}
	if update.StartTime != nil {
		ev.StartTime = *update.StartTime
	}
	if update.EndTime != nil {
		ev.EndTime = *update.EndTime
	}
	if update.Location != nil {
		ev.Location = *update.Location
	}
	if update.LocationLink != nil {
		ev.LocationLink = *update.LocationLink
	}

	snap := ev.Clone()
	unlock()

	s.log.Info("Event updated", "event_id", eventID, "name", snap.Name)

	// Confirmation views repeat the header, so resend them alongside the
	// roster views.
	var tasks []confirmTask
	for _, seq := range [][]*event.Registration{snap.Attendees, snap.Waitlist} {
		for _, reg := range seq {
			if reg.ConfirmationRef.None() {
				continue
			}
			tasks = append(tasks, confirmTask{reg: cloneReg(reg), kind: notify.ResendKind(reg.Status)})
		}
	}

	return s.finish(ctx, snap, tasks, &Result{})
}

// CloseEvent stops further registration and retires the outward views: the
// announcement loses its admission affordance, the group prompt is removed,
// and confirmations lose their cancel affordance.
func (s *Service) CloseEvent(ctx context.Context, eventID uuid.UUID) (*Result, error) {
	unlock := s.locks.Lock(eventID)

	ev, err := s.store.Get(eventID)
	if err != nil {
		unlock()
		return nil, err
	}
	ev.Closed = true
	snap := ev.Clone()
	unlock()

	s.log.Info("Event closed", "event_id", eventID)

	res := &Result{}
	views, confirmations, errs := s.reconciler.CloseViews(ctx, snap)
	res.Warnings = append(res.Warnings, errs...)

	final := s.writeBack(snap, views, confirmations)
	if final == nil {
		final = snap
	}
	res.Event = final

	if err := s.gateway.SaveEvent(ctx, final); err != nil {
		return res, &PersistenceError{EventID: eventID, Err: err}
	}
	return res, nil
}

// ReopenEvent lifts the closed flag and re-syncs the remaining views. The
// group prompt deleted at close time is only recreated by a fresh Announce.
func (s *Service) ReopenEvent(ctx context.Context, eventID uuid.UUID) (*Result, error) {
	unlock := s.locks.Lock(eventID)

	ev, err := s.store.Get(eventID)
	if err != nil {
		unlock()
		return nil, err
	}
	ev.Closed = false
	snap := ev.Clone()
	unlock()

	s.log.Info("Event reopened", "event_id", eventID)
	return s.finish(ctx, snap, nil, &Result{})
}

// Announce publishes the announcement view and the group RSVP prompt as
// two independently retriable steps. Re-announcing updates views in place.
func (s *Service) Announce(ctx context.Context, eventID uuid.UUID, channel, group notify.Target) (*Result, error) {
	unlock := s.locks.Lock(eventID)
	ev, err := s.store.Get(eventID)
	if err != nil {
		unlock()
		return nil, err
	}
	snap := ev.Clone()
	unlock()

	res := &Result{}
	views, errs := s.reconciler.Announce(ctx, snap, channel, group)
	res.Warnings = append(res.Warnings, errs...)

	final := s.writeBack(snap, views, nil)
	if final == nil {
		final = snap
	}
	res.Event = final

	s.log.Info("Event announced",
		"event_id", eventID, "announcement_ref", views.Announcement, "group_ref", views.Group)

	if err := s.gateway.SaveEvent(ctx, final); err != nil {
		return res, &PersistenceError{EventID: eventID, Err: err}
	}
	return res, nil
}

// Roster returns a read-only snapshot of the event.
func (s *Service) Roster(eventID uuid.UUID) (*event.Event, error) {
	unlock := s.locks.Lock(eventID)
	defer unlock()

	ev, err := s.store.Get(eventID)
	if err != nil {
		return nil, err
	}
	return ev.Clone(), nil
}

// List returns read-only snapshots of every event, ordered by creation
// time.
func (s *Service) List() []*event.Event {
	ids := s.store.IDs()
	out := make([]*event.Event, 0, len(ids))
	for _, id := range ids {
		if ev, err := s.Roster(id); err == nil {
			out = append(out, ev)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// confirmTask is one pending per-user confirmation delivery. The
// registration is a detached copy; the ref it produces is written back to
// the live roster under the event lock.
type confirmTask struct {
	reg  *event.Registration
	kind notify.ConfirmationKind
}

// finish runs the outward half of an operation: deliver the per-user
// confirmations and roster views from the snapshot, write the returned
// refs back under the event lock, then persist once. View failures become
// warnings on the result; only the save can fail the operation.
func (s *Service) finish(ctx context.Context, snap *event.Event, tasks []confirmTask, res *Result) (*Result, error) {
	confirmations := make(map[uuid.UUID]event.ViewRef)
	for _, task := range tasks {
		ref, derr := s.reconciler.Confirm(ctx, snap, task.reg, task.kind)
		if derr != nil {
			res.Warnings = append(res.Warnings, derr)
			continue
		}
		confirmations[task.reg.UserID] = ref
	}

	views, errs := s.reconciler.SyncRoster(ctx, snap)
	res.Warnings = append(res.Warnings, errs...)

	final := s.writeBack(snap, views, confirmations)
	if final == nil {
		final = snap
	}
	res.Event = final

	if err := s.gateway.SaveEvent(ctx, final); err != nil {
		s.log.Error("Failed to persist event", "event_id", snap.ID, "error", err)
		return res, &PersistenceError{EventID: snap.ID, Err: err}
	}
	return res, nil
}

// writeBack stores reconciled view refs on the live event and returns a
// fresh snapshot. Only refs this reconciliation pass changed relative to
// its snapshot are written, so a concurrent pass is never clobbered with a
// stale value. It returns nil when the event is gone.
func (s *Service) writeBack(snap *event.Event, views notify.RosterViews, confirmations map[uuid.UUID]event.ViewRef) *event.Event {
	unlock := s.locks.Lock(snap.ID)
	defer unlock()

	ev, err := s.store.Get(snap.ID)
	if err != nil {
		return nil
	}

	if views.Announcement != snap.AnnouncementRef {
		ev.AnnouncementRef = views.Announcement
	}
	if views.Group != snap.GroupViewRef {
		ev.GroupViewRef = views.Group
	}
	for userID, ref := range confirmations {
		if reg, ok := ev.Lookup(userID); ok {
			reg.ConfirmationRef = ref
		}
	}
	ev.UpdatedAt = time.Now().UTC()

	return ev.Clone()
}

// IsRequestError reports whether the error is the caller's fault rather
// than a delivery or persistence failure.
func IsRequestError(err error) bool {
	return errors.Is(err, event.ErrEventNotFound) ||
		errors.Is(err, event.ErrNotInRoster) ||
		errors.Is(err, event.ErrInvalidCapacity) ||
		errors.Is(err, event.ErrInvalidName) ||
		errors.Is(err, event.ErrEventClosed) ||
		errors.Is(err, event.ErrEventExists) ||
		errors.Is(err, ErrInvalidAudience)
}

func cloneReg(reg *event.Registration) *event.Registration {
	dup := *reg
	return &dup
}
