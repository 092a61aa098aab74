package notify

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/gravadigital/guestlist-api/internal/domain/event"
)

// Target addresses a delivery destination for a brand-new view: either a
// user's private channel or a named broadcast channel.
type Target string

// UserTarget addresses a user's private confirmation channel.
func UserTarget(userID uuid.UUID) Target {
	return Target("user:" + userID.String())
}

// ChannelTarget addresses a named broadcast channel.
func ChannelTarget(name string) Target {
	return Target("channel:" + name)
}

// Action is the affordance rendered with a view payload.
type Action string

const (
	ActionNone           Action = ""
	ActionJoin           Action = "join"
	ActionJoinWaitlist   Action = "join_waitlist"
	ActionCancelRSVP     Action = "cancel_rsvp"
	ActionCancelWaitlist Action = "cancel_waitlist"
)

// Payload is the rendered content of one external view. Pushing the same
// payload to the same ref twice must yield the same visible content.
type Payload struct {
	Title  string `json:"title"`
	Body   string `json:"body"`
	Action Action `json:"action,omitempty"`
}

// Notifier is the external delivery collaborator. All three operations must
// be safely retriable: the core replays them during reconciliation.
type Notifier interface {
	CreateView(ctx context.Context, target Target, payload Payload) (event.ViewRef, error)
	SetView(ctx context.Context, ref event.ViewRef, payload Payload) (event.ViewRef, error)
	DeleteView(ctx context.Context, ref event.ViewRef) error
}

// View names used in delivery failure reports.
const (
	ViewAnnouncement = "announcement"
	ViewGroup        = "group"
	ViewConfirmation = "confirmation"
	ViewMessage      = "message"
)

// DeliveryError reports a failed push to one external view. The roster
// mutation it follows is already committed; the error is degraded success,
// not operation failure.
type DeliveryError struct {
	View   string
	UserID uuid.UUID
	Err    error
}

func (e *DeliveryError) Error() string {
	if e.UserID != uuid.Nil {
		return fmt.Sprintf("delivery of %s view to user %s failed: %v", e.View, e.UserID, e.Err)
	}
	return fmt.Sprintf("delivery of %s view failed: %v", e.View, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}
