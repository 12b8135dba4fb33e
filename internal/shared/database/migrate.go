package database

import (
	"campusevents/internal/bookings"
	"campusevents/internal/events"
	"campusevents/internal/tickets"
	"campusevents/internal/users"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	// uuid_generate_v4 defaults need the extension
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return err
	}

	return db.AutoMigrate(
		&users.User{},
		&events.Event{},
		&tickets.Ticket{},
		&bookings.AuditoriumBooking{},
	)
}
