package rsvp

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestEventLocksSerializePerEvent(t *testing.T) {
	locks := newEventLocks()
	eventID := uuid.New()

	counter := 0
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.Lock(eventID)
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
}

func TestEventLocksReuseMutexPerID(t *testing.T) {
	locks := newEventLocks()
	id := uuid.New()

	unlock := locks.Lock(id)
	unlock()
	unlock = locks.Lock(id)
	unlock()

	assert.Len(t, locks.locks, 1)
}
