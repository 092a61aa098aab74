package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gravadigital/guestlist-api/internal/domain/event"
	"github.com/gravadigital/guestlist-api/internal/logger"
)

// EventRepository is the durable persistence gateway backed by PostgreSQL.
// SaveEvent replaces the event row and its registrations atomically, so a
// repeated save of the same state is a no-op with the same outcome.
type EventRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewEventRepository creates a new PostgreSQL event repository
func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{
		db:  db,
		log: logger.Repository("event"),
	}
}

// LoadAll returns every persisted event with its full roster.
func (r *EventRepository) LoadAll(ctx context.Context) ([]*event.Event, error) {
	var records []eventRecord
	err := r.db.WithContext(ctx).
		Preload("Registrations", func(db *gorm.DB) *gorm.DB {
			return db.Order("status, position")
		}).
		Find(&records).Error
	if err != nil {
		r.log.Error("Failed to load events", "error", err)
		return nil, fmt.Errorf("failed to load events: %w", err)
	}

	events := make([]*event.Event, len(records))
	for i := range records {
		events[i] = records[i].toDomain()
	}
	r.log.Debug("Loaded events", "count", len(events))
	return events, nil
}

// LoadEvent returns one persisted event with its full roster.
func (r *EventRepository) LoadEvent(ctx context.Context, id uuid.UUID) (*event.Event, error) {
	var rec eventRecord
	err := r.db.WithContext(ctx).
		Preload("Registrations", func(db *gorm.DB) *gorm.DB {
			return db.Order("status, position")
		}).
		First(&rec, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", event.ErrEventNotFound, id)
		}
		r.log.Error("Failed to load event", "event_id", id, "error", err)
		return nil, fmt.Errorf("failed to load event %s: %w", id, err)
	}
	return rec.toDomain(), nil
}

// SaveEvent durably writes the event and its roster in one transaction.
func (r *EventRepository) SaveEvent(ctx context.Context, ev *event.Event) error {
	rec := toRecord(ev)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Registrations").Clauses(clause.OnConflict{
			UpdateAll: true,
		}).Create(rec).Error; err != nil {
			return fmt.Errorf("failed to upsert event row: %w", err)
		}

		if err := tx.Where("event_id = ?", rec.ID).Delete(&registrationRecord{}).Error; err != nil {
			return fmt.Errorf("failed to clear registrations: %w", err)
		}
		if len(rec.Registrations) > 0 {
			if err := tx.Create(rec.Registrations).Error; err != nil {
				return fmt.Errorf("failed to write registrations: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		r.log.Error("Failed to save event", "event_id", ev.ID, "error", err)
		return err
	}

	r.log.Debug("Event saved",
		"event_id", ev.ID,
		"attendees", len(ev.Attendees),
		"waitlist", len(ev.Waitlist))
	return nil
}
