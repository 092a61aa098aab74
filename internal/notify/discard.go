package notify

import (
	"context"

	"github.com/gravadigital/guestlist-api/internal/domain/event"
)

// Discard is a Notifier that drops every delivery. It stands in when no
// gateway is configured: created views get no ref, so the roster state
// keeps an honest record of never-delivered views instead of fabricated
// ones.
type Discard struct{}

func (Discard) CreateView(context.Context, Target, Payload) (event.ViewRef, error) {
	return "", nil
}

func (Discard) SetView(_ context.Context, ref event.ViewRef, _ Payload) (event.ViewRef, error) {
	return ref, nil
}

func (Discard) DeleteView(context.Context, event.ViewRef) error {
	return nil
}
