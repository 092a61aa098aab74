package memory

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/gravadigital/guestlist-api/internal/domain/event"
	"github.com/gravadigital/guestlist-api/internal/logger"
)

// Store is the authoritative in-memory event store. The map itself is
// guarded by an RWMutex; mutation of an individual event additionally
// requires the caller to hold that event's lock in the rsvp service.
type Store struct {
	mu     sync.RWMutex
	events map[uuid.UUID]*event.Event
	log    *log.Logger
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		events: make(map[uuid.UUID]*event.Event),
		log:    logger.Store(),
	}
}

// Put adds an event to the store. Re-adding an existing id fails.
func (s *Store) Put(ev *event.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.events[ev.ID]; exists {
		return fmt.Errorf("%w: %s", event.ErrEventExists, ev.ID)
	}
	s.events[ev.ID] = ev
	s.log.Debug("Event added to store", "event_id", ev.ID, "name", ev.Name)
	return nil
}

// Get returns the live event. Callers mutating it must hold the event's
// lock.
func (s *Store) Get(id uuid.UUID) (*event.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ev, ok := s.events[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", event.ErrEventNotFound, id)
	}
	return ev, nil
}

// IDs returns the ids of every stored event. Snapshots of individual
// events go through the rsvp service, which takes the event lock first.
func (s *Store) IDs() []uuid.UUID {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]uuid.UUID, 0, len(s.events))
	for id := range s.events {
		out = append(out, id)
	}
	return out
}

// Len returns the number of stored events.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}
