package handlers

import (
	"time"

	"github.com/google/uuid"

	"github.com/gravadigital/guestlist-api/internal/domain/event"
	"github.com/gravadigital/guestlist-api/internal/rsvp"
)

type registrationView struct {
	UserID      uuid.UUID `json:"user_id"`
	DisplayName string    `json:"display_name"`
	Status      string    `json:"status"`
	JoinedAt    time.Time `json:"joined_at"`
}

type eventView struct {
	ID           uuid.UUID          `json:"id"`
	Name         string             `json:"name"`
	Capacity     event.Capacity     `json:"capacity"`
	Date         *time.Time         `json:"date,omitempty"`
	StartTime    string             `json:"start_time,omitempty"`
	EndTime      string             `json:"end_time,omitempty"`
	Location     string             `json:"location,omitempty"`
	LocationLink string             `json:"location_link,omitempty"`
	Closed       bool               `json:"closed"`
	Attendees    []registrationView `json:"attendees"`
	Waitlist     []registrationView `json:"waitlist"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

// resultView reports the outcome of a roster mutation, including any
// promotions it triggered and notification deliveries that failed.
type resultView struct {
	Status            string      `json:"status,omitempty"`
	AlreadyRegistered bool        `json:"already_registered,omitempty"`
	Promoted          []uuid.UUID `json:"promoted,omitempty"`
	Warnings          []string    `json:"warnings,omitempty"`
	Event             *eventView  `json:"event,omitempty"`
}

func newRegistrationView(reg *event.Registration) registrationView {
	return registrationView{
		UserID:      reg.UserID,
		DisplayName: reg.DisplayName,
		Status:      reg.Status.String(),
		JoinedAt:    reg.JoinedAt,
	}
}

func newEventView(ev *event.Event) eventView {
	view := eventView{
		ID:           ev.ID,
		Name:         ev.Name,
		Capacity:     ev.Capacity,
		Date:         ev.Date,
		StartTime:    ev.StartTime,
		EndTime:      ev.EndTime,
		Location:     ev.Location,
		LocationLink: ev.LocationLink,
		Closed:       ev.Closed,
		Attendees:    make([]registrationView, 0, len(ev.Attendees)),
		Waitlist:     make([]registrationView, 0, len(ev.Waitlist)),
		CreatedAt:    ev.CreatedAt,
		UpdatedAt:    ev.UpdatedAt,
	}
	for _, reg := range ev.Attendees {
		view.Attendees = append(view.Attendees, newRegistrationView(reg))
	}
	for _, reg := range ev.Waitlist {
		view.Waitlist = append(view.Waitlist, newRegistrationView(reg))
	}
	return view
}

func newResultView(res *rsvp.Result) resultView {
	view := resultView{
		Promoted: res.Promoted,
		Warnings: warningStrings(res),
	}
	if res.Event != nil {
		ev := newEventView(res.Event)
		view.Event = &ev
	}
	return view
}

func warningStrings(res *rsvp.Result) []string {
	if len(res.Warnings) == 0 {
		return nil
	}
	warnings := make([]string, 0, len(res.Warnings))
	for _, w := range res.Warnings {
		warnings = append(warnings, w.Error())
	}
	return warnings
}
