package migrations

import "gorm.io/gorm"

// migration001Up creates extensions and custom types
func migration001Up(db *gorm.DB) error {
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"").Error; err != nil {
		return err
	}

	return db.Exec(`
        CREATE TYPE registration_status AS ENUM (
            'attending',
            'waitlisted'
        )
    `).Error
}

// migration001Down drops custom types
func migration001Down(db *gorm.DB) error {
	// The UUID extension stays; other applications may depend on it.
	return db.Exec("DROP TYPE IF EXISTS registration_status CASCADE").Error
}
