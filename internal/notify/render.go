package notify

import (
	"fmt"
	"strings"
	"time"

	"github.com/gravadigital/guestlist-api/internal/domain/event"
)

// Rendering projects roster state into view payloads. Projections are pure:
// the same event state always renders to the same payload.

// Header renders the event name, schedule and location block shared by
// every view of an event.
func Header(ev *event.Event) string {
	var b strings.Builder
	b.WriteString(ev.Name)
	b.WriteString("\n")

	if ev.Date != nil {
		fmt.Fprintf(&b, "Date: %s\n", ev.Date.Format("Monday, January 2, 2006"))
	}
	start := parseClock(ev.StartTime)
	end := parseClock(ev.EndTime)
	switch {
	case start != nil && end != nil:
		fmt.Fprintf(&b, "Time: %s - %s\n", start.Format("3:04 PM"), end.Format("3:04 PM"))
	case start != nil:
		fmt.Fprintf(&b, "Start Time: %s\n", start.Format("3:04 PM"))
	case end != nil:
		fmt.Fprintf(&b, "End Time: %s\n", end.Format("3:04 PM"))
	}
	if ev.Location != "" {
		if ev.LocationLink != "" {
			fmt.Fprintf(&b, "Location: %s (%s)\n", ev.Location, ev.LocationLink)
		} else {
			fmt.Fprintf(&b, "Location: %s\n", ev.Location)
		}
	}
	return b.String()
}

// Announcement renders the public announcement view: header, capacity,
// ordered attendee and waitlist names, and the admission affordance that
// matches the roster at projection time.
func Announcement(ev *event.Event) Payload {
	var b strings.Builder

	if limit, finite := ev.Capacity.Limit(); finite {
		fmt.Fprintf(&b, "Capacity: %d\n\n", limit)
		fmt.Fprintf(&b, "Attending: %d/%d\n", len(ev.Attendees), limit)
	} else {
		b.WriteString("\n")
		fmt.Fprintf(&b, "Attending: %d\n", len(ev.Attendees))
	}
	writeNames(&b, ev.Attendees)

	if len(ev.Waitlist) > 0 {
		fmt.Fprintf(&b, "\nWaitlist: %d\n", len(ev.Waitlist))
		writeNames(&b, ev.Waitlist)
	}

	return Payload{
		Title:  Header(ev),
		Body:   b.String(),
		Action: admissionAction(ev),
	}
}

// GroupPrompt renders the short RSVP prompt posted to the group chat. It
// carries the same admission affordance as the announcement.
func GroupPrompt(ev *event.Event) Payload {
	return Payload{
		Title:  Header(ev),
		Body:   fmt.Sprintf("RSVP for %s", ev.Name),
		Action: admissionAction(ev),
	}
}

func admissionAction(ev *event.Event) Action {
	if ev.Closed {
		return ActionNone
	}
	if ev.HasRoom() {
		return ActionJoin
	}
	return ActionJoinWaitlist
}

func writeNames(b *strings.Builder, regs []*event.Registration) {
	for i, reg := range regs {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(reg.DisplayName)
	}
	if len(regs) > 0 {
		b.WriteString("\n")
	}
}

// ConfirmationKind selects the variant of a user's personal confirmation
// view.
type ConfirmationKind byte

const (
	// KindRegistered confirms a fresh admission.
	KindRegistered ConfirmationKind = iota
	// KindWaitlisted confirms a fresh waitlist entry.
	KindWaitlisted
	// KindResendAttending re-confirms an existing admission after a
	// repeated registration request.
	KindResendAttending
	// KindResendWaitlisted re-confirms an existing waitlist entry.
	KindResendWaitlisted
	// KindPromoted replaces a waitlist confirmation after promotion.
	KindPromoted
	// KindCancelled replaces the confirmation after the user cancels.
	KindCancelled
	// KindWaitlistRemoved replaces the confirmation after the user leaves
	// the waitlist.
	KindWaitlistRemoved
	// KindClosed strips the cancel affordance once the event is closed.
	KindClosed
)

// Confirmation renders the per-user confirmation view for the given kind.
func Confirmation(ev *event.Event, kind ConfirmationKind) Payload {
	p := Payload{Title: Header(ev)}
	switch kind {
	case KindRegistered:
		p.Body = "You have successfully RSVP'd to this event. Press 'Cancel RSVP' if you can no longer attend."
		p.Action = ActionCancelRSVP
	case KindWaitlisted:
		p.Body = "You have successfully joined the waitlist for this event. Press 'Cancel Waitlist' if you no longer wish to attend."
		p.Action = ActionCancelWaitlist
	case KindResendAttending:
		p.Body = "You have already RSVP'd to this event. Press 'Cancel RSVP' if you can no longer attend."
		p.Action = ActionCancelRSVP
	case KindResendWaitlisted:
		p.Body = "You are already on the waitlist for this event. Press 'Cancel Waitlist' if you no longer wish to attend."
		p.Action = ActionCancelWaitlist
	case KindPromoted:
		p.Body = "A spot has opened up and you are now RSVP'd to this event. Press 'Cancel RSVP' if you can no longer attend."
		p.Action = ActionCancelRSVP
	case KindCancelled:
		p.Body = "You are no longer RSVP'd to this event."
	case KindWaitlistRemoved:
		p.Body = "You have been removed from the waitlist for this event."
	case KindClosed:
		p.Body = "This event is now closed."
	}
	return p
}

// ResendKind maps a roster status to the confirmation variant used when an
// already-registered user asks to register again.
func ResendKind(status event.Status) ConfirmationKind {
	if status == event.StatusWaitlisted {
		return KindResendWaitlisted
	}
	return KindResendAttending
}

// RegisteredKind maps a roster status to the confirmation variant for a
// fresh registration.
func RegisteredKind(status event.Status) ConfirmationKind {
	if status == event.StatusWaitlisted {
		return KindWaitlisted
	}
	return KindRegistered
}

// CancelledKind maps the status a registration had at removal time to the
// confirmation variant for its cancellation.
func CancelledKind(status event.Status) ConfirmationKind {
	if status == event.StatusWaitlisted {
		return KindWaitlistRemoved
	}
	return KindCancelled
}

// parseClock parses an "HH:MM" wall-clock string; empty or malformed values
// yield nil and the field is omitted from the header.
func parseClock(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return nil
	}
	return &t
}
