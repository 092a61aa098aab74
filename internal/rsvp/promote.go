package rsvp

import (
	"github.com/gravadigital/guestlist-api/internal/domain/event"
	"github.com/gravadigital/guestlist-api/internal/notify"
)

// sweep fills open capacity from the head of the waitlist, strict FIFO.
// The caller must hold the event lock. The roster moves are committed here;
// the promotion confirmations are returned as tasks and delivered after the
// lock is released. A failed confirmation never requeues its user and never
// stops delivery for the users promoted after them: one unreachable user
// must not starve the rest of the queue.
func (s *Service) sweep(ev *event.Event, res *Result) []confirmTask {
	var tasks []confirmTask
	for {
		reg, ok := ev.PromoteNext()
		if !ok {
			break
		}
		res.Promoted = append(res.Promoted, reg.UserID)
		tasks = append(tasks, confirmTask{reg: cloneReg(reg), kind: notify.KindPromoted})
		s.log.Info("User promoted from waitlist",
			"event_id", ev.ID, "user_id", reg.UserID,
			"attendees", len(ev.Attendees), "waitlist", len(ev.Waitlist))
	}
	return tasks
}
