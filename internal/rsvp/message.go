package rsvp

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/gravadigital/guestlist-api/internal/domain/event"
)

// Audience selects which roster sequences receive an admin message.
type Audience string

const (
	AudienceAttendees Audience = "attendees"
	AudienceWaitlist  Audience = "waitlist"
	AudienceAll       Audience = "all"
)

// ErrInvalidAudience reports a message audience outside the known set.
var ErrInvalidAudience = errors.New("invalid message audience")

// Message delivers an ad-hoc message to every user in the selected roster
// sequences. The roster is not mutated and nothing is persisted; failed
// deliveries are aggregated as warnings like any other view push.
func (s *Service) Message(ctx context.Context, eventID uuid.UUID, audience Audience, text string) (*Result, error) {
	var attendees, waitlist bool
	switch audience {
	case AudienceAttendees:
		attendees = true
	case AudienceWaitlist:
		waitlist = true
	case AudienceAll:
		attendees, waitlist = true, true
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidAudience, audience)
	}

	unlock := s.locks.Lock(eventID)
	ev, err := s.store.Get(eventID)
	if err != nil {
		unlock()
		return nil, err
	}
	snap := ev.Clone()
	unlock()

	var recipients []*event.Registration
	if attendees {
		recipients = append(recipients, snap.Attendees...)
	}
	if waitlist {
		recipients = append(recipients, snap.Waitlist...)
	}

	res := &Result{Event: snap}
	res.Warnings = append(res.Warnings, s.reconciler.Broadcast(ctx, snap, recipients, text)...)

	s.log.Info("Message delivered",
		"event_id", eventID, "audience", audience,
		"recipients", len(recipients), "failed", len(res.Warnings))
	return res, nil
}
