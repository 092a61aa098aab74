package migrations

import "gorm.io/gorm"

// migration004Up creates validation constraints and triggers.
//
// There is deliberately no CHECK tying the attending count to capacity: a
// capacity reduction keeps everyone already admitted, so the roster may
// legitimately exceed the limit until cancellations drain it.
func migration004Up(db *gorm.DB) error {
	constraints := []string{
		`ALTER TABLE events
            ADD CONSTRAINT chk_events_capacity_positive
            CHECK (capacity IS NULL OR capacity > 0)`,

		`ALTER TABLE registrations
            ADD CONSTRAINT chk_registrations_position
            CHECK (position >= 0)`,

		`ALTER TABLE registrations
            ADD CONSTRAINT uq_registrations_order
            UNIQUE (event_id, status, position)`,
	}

	for _, constraintSQL := range constraints {
		if err := db.Exec(constraintSQL).Error; err != nil {
			return err
		}
	}

	if err := db.Exec(`
        CREATE OR REPLACE FUNCTION touch_event_updated_at()
        RETURNS TRIGGER AS $$
        BEGIN
            NEW.updated_at := CURRENT_TIMESTAMP;
            RETURN NEW;
        END;
        $$ LANGUAGE plpgsql
    `).Error; err != nil {
		return err
	}

	return db.Exec(`
        CREATE TRIGGER trg_events_touch_updated_at
        BEFORE UPDATE ON events
        FOR EACH ROW
        EXECUTE FUNCTION touch_event_updated_at()
    `).Error
}

// migration004Down drops validation constraints and triggers
func migration004Down(db *gorm.DB) error {
	statements := []string{
		"DROP TRIGGER IF EXISTS trg_events_touch_updated_at ON events",
		"DROP FUNCTION IF EXISTS touch_event_updated_at()",
		"ALTER TABLE registrations DROP CONSTRAINT IF EXISTS uq_registrations_order",
		"ALTER TABLE registrations DROP CONSTRAINT IF EXISTS chk_registrations_position",
		"ALTER TABLE events DROP CONSTRAINT IF EXISTS chk_events_capacity_positive",
	}

	for _, stmtSQL := range statements {
		if err := db.Exec(stmtSQL).Error; err != nil {
			return err
		}
	}

	return nil
}
