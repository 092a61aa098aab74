package notify

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/gravadigital/guestlist-api/internal/domain/event"
	"github.com/gravadigital/guestlist-api/internal/logger"
)

// Reconciler brings the external views of an event up to date with the
// authoritative roster. It is stateless with respect to the roster: it only
// projects the event it is handed and pushes the result through the
// Notifier. Every applicable view is attempted even when an earlier one
// fails; failures are aggregated, never short-circuited.
type Reconciler struct {
	notifier Notifier
	log      *log.Logger
}

// NewReconciler creates a reconciler over the given notifier.
func NewReconciler(n Notifier) *Reconciler {
	return &Reconciler{
		notifier: n,
		log:      logger.Notifier(),
	}
}

// RosterViews carries the view references produced by a reconciliation
// pass. The caller stores them back on the event under its lock.
type RosterViews struct {
	Announcement event.ViewRef
	Group        event.ViewRef
}

// SyncRoster re-renders the announcement and group views of the event.
// Views that were never published (absent refs) are skipped.
func (r *Reconciler) SyncRoster(ctx context.Context, ev *event.Event) (RosterViews, []*DeliveryError) {
	views := RosterViews{Announcement: ev.AnnouncementRef, Group: ev.GroupViewRef}
	var errs []*DeliveryError

	if !ev.AnnouncementRef.None() {
		ref, err := r.notifier.SetView(ctx, ev.AnnouncementRef, Announcement(ev))
		if err != nil {
			r.log.Warn("Failed to update announcement view", "event_id", ev.ID, "error", err)
			errs = append(errs, &DeliveryError{View: ViewAnnouncement, Err: err})
		} else {
			views.Announcement = ref
		}
	}

	if !ev.GroupViewRef.None() {
		ref, err := r.notifier.SetView(ctx, ev.GroupViewRef, GroupPrompt(ev))
		if err != nil {
			r.log.Warn("Failed to update group view", "event_id", ev.ID, "error", err)
			errs = append(errs, &DeliveryError{View: ViewGroup, Err: err})
		} else {
			views.Group = ref
		}
	}

	return views, errs
}

// Confirm creates or replaces the user's personal confirmation view. A
// registration whose earlier delivery never succeeded has no ref yet and
// gets a fresh view.
func (r *Reconciler) Confirm(ctx context.Context, ev *event.Event, reg *event.Registration, kind ConfirmationKind) (event.ViewRef, *DeliveryError) {
	payload := Confirmation(ev, kind)

	var (
		ref event.ViewRef
		err error
	)
	if reg.ConfirmationRef.None() {
		ref, err = r.notifier.CreateView(ctx, UserTarget(reg.UserID), payload)
	} else {
		ref, err = r.notifier.SetView(ctx, reg.ConfirmationRef, payload)
	}
	if err != nil {
		r.log.Warn("Failed to deliver confirmation view",
			"event_id", ev.ID, "user_id", reg.UserID, "error", err)
		return reg.ConfirmationRef, &DeliveryError{View: ViewConfirmation, UserID: reg.UserID, Err: err}
	}
	return ref, nil
}

// Announce publishes the announcement view to the broadcast channel and the
// RSVP prompt to the group channel as two independently retriable steps.
// Re-announcing an event whose views already exist updates them in place.
func (r *Reconciler) Announce(ctx context.Context, ev *event.Event, channel, group Target) (RosterViews, []*DeliveryError) {
	views := RosterViews{Announcement: ev.AnnouncementRef, Group: ev.GroupViewRef}
	var errs []*DeliveryError

	ref, err := r.publish(ctx, ev.AnnouncementRef, channel, Announcement(ev))
	if err != nil {
		r.log.Error("Failed to publish announcement view", "event_id", ev.ID, "error", err)
		errs = append(errs, &DeliveryError{View: ViewAnnouncement, Err: err})
	} else {
		views.Announcement = ref
	}

	ref, err = r.publish(ctx, ev.GroupViewRef, group, GroupPrompt(ev))
	if err != nil {
		r.log.Error("Failed to publish group view", "event_id", ev.ID, "error", err)
		errs = append(errs, &DeliveryError{View: ViewGroup, Err: err})
	} else {
		views.Group = ref
	}

	return views, errs
}

func (r *Reconciler) publish(ctx context.Context, existing event.ViewRef, target Target, payload Payload) (event.ViewRef, error) {
	if existing.None() {
		return r.notifier.CreateView(ctx, target, payload)
	}
	return r.notifier.SetView(ctx, existing, payload)
}

// Broadcast delivers a one-off message view to each given registration.
// Deliveries are independent: one unreachable user never blocks the rest.
// Message views are fire-and-forget; their refs are not retained.
func (r *Reconciler) Broadcast(ctx context.Context, ev *event.Event, regs []*event.Registration, text string) []*DeliveryError {
	var errs []*DeliveryError
	payload := Payload{Title: Header(ev), Body: text}

	for _, reg := range regs {
		if _, err := r.notifier.CreateView(ctx, UserTarget(reg.UserID), payload); err != nil {
			r.log.Warn("Failed to deliver message view",
				"event_id", ev.ID, "user_id", reg.UserID, "error", err)
			errs = append(errs, &DeliveryError{View: ViewMessage, UserID: reg.UserID, Err: err})
		}
	}
	return errs
}

// CloseViews retires the outward surfaces of a closed event: the
// announcement loses its admission affordance, the group prompt is deleted,
// and every delivered confirmation view loses its cancel affordance.
// Returned confirmation refs are keyed by user id.
func (r *Reconciler) CloseViews(ctx context.Context, ev *event.Event) (RosterViews, map[uuid.UUID]event.ViewRef, []*DeliveryError) {
	views := RosterViews{Announcement: ev.AnnouncementRef, Group: ev.GroupViewRef}
	var errs []*DeliveryError

	if !ev.AnnouncementRef.None() {
		ref, err := r.notifier.SetView(ctx, ev.AnnouncementRef, Announcement(ev))
		if err != nil {
			r.log.Warn("Failed to close announcement view", "event_id", ev.ID, "error", err)
			errs = append(errs, &DeliveryError{View: ViewAnnouncement, Err: err})
		} else {
			views.Announcement = ref
		}
	}

	if !ev.GroupViewRef.None() {
		if err := r.notifier.DeleteView(ctx, ev.GroupViewRef); err != nil {
			r.log.Warn("Failed to delete group view", "event_id", ev.ID, "error", err)
			errs = append(errs, &DeliveryError{View: ViewGroup, Err: err})
		} else {
			views.Group = ""
		}
	}

	confirmations := make(map[uuid.UUID]event.ViewRef)
	for _, seq := range [][]*event.Registration{ev.Attendees, ev.Waitlist} {
		for _, reg := range seq {
			if reg.ConfirmationRef.None() {
				continue
			}
			ref, err := r.notifier.SetView(ctx, reg.ConfirmationRef, Confirmation(ev, KindClosed))
			if err != nil {
				r.log.Warn("Failed to close confirmation view",
					"event_id", ev.ID, "user_id", reg.UserID, "error", err)
				errs = append(errs, &DeliveryError{View: ViewConfirmation, UserID: reg.UserID, Err: err})
				continue
			}
			confirmations[reg.UserID] = ref
		}
	}

	return views, confirmations, errs
}
