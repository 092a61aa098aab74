package postgres

import (
	"time"

	"github.com/google/uuid"

	"github.com/gravadigital/guestlist-api/internal/domain/event"
)

// eventRecord is the persisted shape of a domain event. Unbounded capacity
// is stored as NULL via the Capacity valuer.
type eventRecord struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Name         string         `gorm:"not null"`
	Capacity     event.Capacity `gorm:"type:integer"`
	Date         *time.Time
	StartTime    string
	EndTime      string
	Location     string
	LocationLink string

	AnnouncementRef string
	GroupViewRef    string
	Closed          bool `gorm:"not null;default:false"`

	Registrations []registrationRecord `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (eventRecord) TableName() string {
	return "events"
}

// registrationRecord is one roster entry. Position preserves the sequence
// order inside each status: admission order for attendees, FIFO order for
// the waitlist.
type registrationRecord struct {
	EventID         uuid.UUID    `gorm:"type:uuid;primaryKey"`
	UserID          uuid.UUID    `gorm:"type:uuid;primaryKey"`
	DisplayName     string       `gorm:"not null"`
	Status          event.Status `gorm:"type:text;not null"`
	Position        int          `gorm:"not null"`
	ConfirmationRef string
	JoinedAt        time.Time
}

func (registrationRecord) TableName() string {
	return "registrations"
}

func toRecord(ev *event.Event) *eventRecord {
	rec := &eventRecord{
		ID:              ev.ID,
		Name:            ev.Name,
		Capacity:        ev.Capacity,
		Date:            ev.Date,
		StartTime:       ev.StartTime,
		EndTime:         ev.EndTime,
		Location:        ev.Location,
		LocationLink:    ev.LocationLink,
		AnnouncementRef: string(ev.AnnouncementRef),
		GroupViewRef:    string(ev.GroupViewRef),
		Closed:          ev.Closed,
		CreatedAt:       ev.CreatedAt,
		UpdatedAt:       ev.UpdatedAt,
	}

	for i, reg := range ev.Attendees {
		rec.Registrations = append(rec.Registrations, toRegistrationRecord(ev.ID, reg, i))
	}
	for i, reg := range ev.Waitlist {
		rec.Registrations = append(rec.Registrations, toRegistrationRecord(ev.ID, reg, i))
	}
	return rec
}

func toRegistrationRecord(eventID uuid.UUID, reg *event.Registration, position int) registrationRecord {
	return registrationRecord{
		EventID:         eventID,
		UserID:          reg.UserID,
		DisplayName:     reg.DisplayName,
		Status:          reg.Status,
		Position:        position,
		ConfirmationRef: string(reg.ConfirmationRef),
		JoinedAt:        reg.JoinedAt,
	}
}

func (rec *eventRecord) toDomain() *event.Event {
	ev := &event.Event{
		ID:              rec.ID,
		Name:            rec.Name,
		Capacity:        rec.Capacity,
		Date:            rec.Date,
		StartTime:       rec.StartTime,
		EndTime:         rec.EndTime,
		Location:        rec.Location,
		LocationLink:    rec.LocationLink,
		AnnouncementRef: event.ViewRef(rec.AnnouncementRef),
		GroupViewRef:    event.ViewRef(rec.GroupViewRef),
		Closed:          rec.Closed,
		Attendees:       make([]*event.Registration, 0),
		Waitlist:        make([]*event.Registration, 0),
		CreatedAt:       rec.CreatedAt,
		UpdatedAt:       rec.UpdatedAt,
	}

	for _, r := range rec.Registrations {
		reg := &event.Registration{
			UserID:          r.UserID,
			DisplayName:     r.DisplayName,
			Status:          r.Status,
			ConfirmationRef: event.ViewRef(r.ConfirmationRef),
			JoinedAt:        r.JoinedAt,
		}
		switch r.Status {
		case event.StatusAttending:
			ev.Attendees = append(ev.Attendees, reg)
		case event.StatusWaitlisted:
			ev.Waitlist = append(ev.Waitlist, reg)
		}
	}
	return ev
}
