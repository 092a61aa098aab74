package migrations

import "gorm.io/gorm"

// migration002Up creates the core tables
func migration002Up(db *gorm.DB) error {
	if err := db.Exec(`
        CREATE TABLE IF NOT EXISTS events (
            id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
            name VARCHAR(100) NOT NULL,
            capacity INTEGER,
            date DATE,
            start_time VARCHAR(5),
            end_time VARCHAR(5),
            location VARCHAR(200),
            location_link TEXT,
            announcement_ref TEXT NOT NULL DEFAULT '',
            group_view_ref TEXT NOT NULL DEFAULT '',
            closed BOOLEAN NOT NULL DEFAULT FALSE,
            created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
        )
    `).Error; err != nil {
		return err
	}

	return db.Exec(`
        CREATE TABLE IF NOT EXISTS registrations (
            event_id UUID NOT NULL REFERENCES events(id) ON DELETE CASCADE,
            user_id UUID NOT NULL,
            display_name VARCHAR(80) NOT NULL,
            status registration_status NOT NULL,
            position INTEGER NOT NULL,
            confirmation_ref TEXT NOT NULL DEFAULT '',
            joined_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP,
            PRIMARY KEY (event_id, user_id)
        )
    `).Error
}

// migration002Down drops the core tables
func migration002Down(db *gorm.DB) error {
	tables := []string{
		"registrations",
		"events",
	}

	for _, table := range tables {
		if err := db.Exec("DROP TABLE IF EXISTS " + table + " CASCADE").Error; err != nil {
			return err
		}
	}

	return nil
}
