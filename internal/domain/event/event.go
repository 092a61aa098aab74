package event

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Event is the authoritative roster state for one capacity-constrained
// event. Attendees and Waitlist are ordered: insertion order is admission
// order and waitlist order respectively.
type Event struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Capacity Capacity  `json:"capacity"`

	// Schedule and location, rendered into the announcement header.
	// All optional.
	Date         *time.Time `json:"date,omitempty"`
	StartTime    string     `json:"start_time,omitempty"`
	EndTime      string     `json:"end_time,omitempty"`
	Location     string     `json:"location,omitempty"`
	LocationLink string     `json:"location_link,omitempty"`

	Attendees []*Registration `json:"attendees"`
	Waitlist  []*Registration `json:"waitlist"`

	// References to the externally visible views of this event.
	AnnouncementRef ViewRef `json:"announcement_ref,omitempty"`
	GroupViewRef    ViewRef `json:"group_view_ref,omitempty"`

	Closed    bool      `json:"closed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// New creates an event with the given name and capacity.
func New(name string, capacity Capacity) *Event {
	return &Event{
		ID:        uuid.New(),
		Name:      name,
		Capacity:  capacity,
		Attendees: make([]*Registration, 0),
		Waitlist:  make([]*Registration, 0),
		CreatedAt: time.Now().UTC(),
	}
}

// Lookup returns the user's registration from whichever sequence holds it.
func (e *Event) Lookup(userID uuid.UUID) (*Registration, bool) {
	if i := indexOf(e.Attendees, userID); i >= 0 {
		return e.Attendees[i], true
	}
	if i := indexOf(e.Waitlist, userID); i >= 0 {
		return e.Waitlist[i], true
	}
	return nil, false
}

// HasRoom reports whether one more admission fits under the capacity.
func (e *Event) HasRoom() bool {
	return e.Capacity.Admits(len(e.Attendees))
}

// Admit appends a registration to the attendee sequence. The user must not
// already be in the roster and the event must have room.
func (e *Event) Admit(reg *Registration) error {
	if _, found := e.Lookup(reg.UserID); found {
		return fmt.Errorf("admit %s: user already in roster", reg.UserID)
	}
	if !e.HasRoom() {
		return fmt.Errorf("admit %s: event %s is at capacity", reg.UserID, e.ID)
	}
	reg.Status = StatusAttending
	e.Attendees = append(e.Attendees, reg)
	return nil
}

// Enqueue appends a registration to the back of the waitlist. The user must
// not already be in the roster.
func (e *Event) Enqueue(reg *Registration) error {
	if _, found := e.Lookup(reg.UserID); found {
		return fmt.Errorf("enqueue %s: user already in roster", reg.UserID)
	}
	reg.Status = StatusWaitlisted
	e.Waitlist = append(e.Waitlist, reg)
	return nil
}

// Remove deletes the user's registration from whichever sequence holds it
// and returns it with the status it had at removal time.
func (e *Event) Remove(userID uuid.UUID) (*Registration, bool) {
	if i := indexOf(e.Attendees, userID); i >= 0 {
		reg := e.Attendees[i]
		e.Attendees = append(e.Attendees[:i], e.Attendees[i+1:]...)
		return reg, true
	}
	if i := indexOf(e.Waitlist, userID); i >= 0 {
		reg := e.Waitlist[i]
		e.Waitlist = append(e.Waitlist[:i], e.Waitlist[i+1:]...)
		return reg, true
	}
	return nil, false
}

// PromoteNext pops the head of the waitlist into the attendee sequence.
// It returns false when the waitlist is empty or there is no room.
func (e *Event) PromoteNext() (*Registration, bool) {
	if len(e.Waitlist) == 0 || !e.HasRoom() {
		return nil, false
	}
	reg := e.Waitlist[0]
	e.Waitlist = e.Waitlist[1:]
	reg.Status = StatusAttending
	e.Attendees = append(e.Attendees, reg)
	return reg, true
}

// Validate checks if the event data is valid
func (e *Event) Validate() error {
	if e.Name == "" {
		return ErrInvalidName
	}
	if limit, finite := e.Capacity.Limit(); finite && limit <= 0 {
		return ErrInvalidCapacity
	}
	return nil
}

// Clone returns a deep copy used for read-only snapshots handed to callers
// outside the per-event lock.
func (e *Event) Clone() *Event {
	dup := *e
	dup.Attendees = cloneRegs(e.Attendees)
	dup.Waitlist = cloneRegs(e.Waitlist)
	return &dup
}

func cloneRegs(regs []*Registration) []*Registration {
	out := make([]*Registration, len(regs))
	for i, reg := range regs {
		dup := *reg
		out[i] = &dup
	}
	return out
}

func indexOf(regs []*Registration, userID uuid.UUID) int {
	for i, reg := range regs {
		if reg.UserID == userID {
			return i
		}
	}
	return -1
}
