package notify

import (
	"context"
	"fmt"
	"sync"

	"github.com/gravadigital/guestlist-api/internal/domain/event"
)

// Recorder is an in-memory Notifier used in tests and local development. It
// stores the latest payload per ref and can be told to fail deliveries for
// specific targets or refs.
type Recorder struct {
	mu     sync.Mutex
	seq    int
	views  map[event.ViewRef]Payload
	owners map[event.ViewRef]Target

	failTargets map[Target]error
	failRefs    map[event.ViewRef]error
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		views:       make(map[event.ViewRef]Payload),
		owners:      make(map[event.ViewRef]Target),
		failTargets: make(map[Target]error),
		failRefs:    make(map[event.ViewRef]error),
	}
}

// FailTarget makes every CreateView for the target fail with err.
func (r *Recorder) FailTarget(target Target, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failTargets[target] = err
}

// FailRef makes every SetView against the ref fail with err.
func (r *Recorder) FailRef(ref event.ViewRef, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failRefs[ref] = err
}

// Restore clears any programmed failure for the target.
func (r *Recorder) Restore(target Target) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.failTargets, target)
}

func (r *Recorder) CreateView(_ context.Context, target Target, payload Payload) (event.ViewRef, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err, ok := r.failTargets[target]; ok {
		return "", err
	}

	r.seq++
	ref := event.ViewRef(fmt.Sprintf("view-%d", r.seq))
	r.views[ref] = payload
	r.owners[ref] = target
	return ref, nil
}

func (r *Recorder) SetView(_ context.Context, ref event.ViewRef, payload Payload) (event.ViewRef, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err, ok := r.failRefs[ref]; ok {
		return "", err
	}
	if owner, ok := r.owners[ref]; ok {
		if err, failing := r.failTargets[owner]; failing {
			return "", err
		}
	}
	if _, ok := r.views[ref]; !ok {
		return "", fmt.Errorf("unknown view ref %s", ref)
	}

	r.views[ref] = payload
	return ref, nil
}

func (r *Recorder) DeleteView(_ context.Context, ref event.ViewRef) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err, ok := r.failRefs[ref]; ok {
		return err
	}
	delete(r.views, ref)
	delete(r.owners, ref)
	return nil
}

// View returns the latest payload delivered to the ref.
func (r *Recorder) View(ref event.ViewRef) (Payload, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.views[ref]
	return p, ok
}

// Owner returns the target a ref was created for.
func (r *Recorder) Owner(ref event.ViewRef) (Target, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.owners[ref]
	return t, ok
}

// ViewCount returns the number of live views.
func (r *Recorder) ViewCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.views)
}
