package database

import (
	"gorm.io/gorm"
)

// MigrateConstraints adds the uniqueness guarantees the row-lock transactions
// rely on. Partial indexes scope them to live tickets so cancelled rows never
// block a re-registration.
func MigrateConstraints(db *gorm.DB) error {
	// One live ticket per user per event
	err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS uniq_tickets_event_user_booked
		ON tickets (event_id, user_id)
		WHERE status = 'BOOKED';
	`).Error
	if err != nil {
		return err
	}

	// One live ticket per seat per event
	err = db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS uniq_tickets_event_seat_booked
		ON tickets (event_id, seat)
		WHERE status = 'BOOKED' AND seat IS NOT NULL;
	`).Error
	if err != nil {
		return err
	}

	// Ledger reads group by event and status
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_tickets_event_status
		ON tickets (event_id, status);
	`).Error
	if err != nil {
		return err
	}

	return nil
}
