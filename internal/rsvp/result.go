package rsvp

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/gravadigital/guestlist-api/internal/domain/event"
	"github.com/gravadigital/guestlist-api/internal/notify"
)

// Result describes a committed roster operation. Warnings carry view
// deliveries that failed after the mutation was already committed; they are
// degraded success, not failure.
type Result struct {
	// Status is the caller's roster status after the operation, where the
	// operation concerns a single user.
	Status event.Status `json:"status"`

	// AlreadyRegistered is set when a Register call found the user in the
	// roster and only re-issued their confirmation.
	AlreadyRegistered bool `json:"already_registered,omitempty"`

	// Promoted lists users moved from the waitlist to the attendee
	// sequence during this operation, in promotion order.
	Promoted []uuid.UUID `json:"promoted,omitempty"`

	// Warnings are failed view deliveries.
	Warnings []*notify.DeliveryError `json:"warnings,omitempty"`

	// Event is a read-only snapshot of the roster after the operation.
	Event *event.Event `json:"event"`
}

// PersistenceError reports a failed durable save after a roster mutation.
// The in-memory state already changed; the caller decides retry policy.
type PersistenceError struct {
	EventID uuid.UUID
	Err     error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to persist event %s: %v", e.EventID, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
