package rsvp

import (
	"sync"

	"github.com/google/uuid"
)

// eventLocks hands out one mutex per event id. Roster mutations for the
// same event serialize on it; different events proceed in parallel. Locks
// are never reclaimed: events are never deleted by the core.
type eventLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func newEventLocks() *eventLocks {
	return &eventLocks{
		locks: make(map[uuid.UUID]*sync.Mutex),
	}
}

// Lock acquires the event's mutex and returns the matching unlock.
func (l *eventLocks) Lock(eventID uuid.UUID) func() {
	l.mu.Lock()
	m, ok := l.locks[eventID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[eventID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
