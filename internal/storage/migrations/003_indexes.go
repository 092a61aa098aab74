package migrations

import "gorm.io/gorm"

// migration003Up creates performance indexes
func migration003Up(db *gorm.DB) error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_events_created_at ON events(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_events_closed ON events(closed)",
		"CREATE INDEX IF NOT EXISTS idx_events_date ON events(date)",

		"CREATE INDEX IF NOT EXISTS idx_registrations_event ON registrations(event_id)",
		"CREATE INDEX IF NOT EXISTS idx_registrations_user ON registrations(user_id)",
		"CREATE INDEX IF NOT EXISTS idx_registrations_order ON registrations(event_id, status, position)",
	}

	for _, indexSQL := range indexes {
		if err := db.Exec(indexSQL).Error; err != nil {
			return err
		}
	}

	return nil
}

// migration003Down drops performance indexes
func migration003Down(db *gorm.DB) error {
	indexes := []string{
		"idx_events_created_at",
		"idx_events_closed",
		"idx_events_date",
		"idx_registrations_event",
		"idx_registrations_user",
		"idx_registrations_order",
	}

	for _, index := range indexes {
		if err := db.Exec("DROP INDEX IF EXISTS " + index).Error; err != nil {
			return err
		}
	}

	return nil
}
