package database

import (
	"gorm.io/gorm"
)

// MigrateConstraints adds critical database constraints for concurrency control.
// The partial unique index is the storage-level backstop for the per-show
// booking lock: even if two processes raced past the in-process mutex, only
// one CONFIRMED row per (show_id, seat_code) can ever exist.
func MigrateConstraints(db *gorm.DB) error {
	// At most one CONFIRMED booking line per seat per show
	err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS unique_confirmed_seat_per_show
		ON booking_seats (show_id, seat_code)
		WHERE status = 'CONFIRMED';
	`).Error
	if err != nil {
		return err
	}

	// Ticket sequence numbers never repeat within a serial date
	err = db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS unique_ticket_sequence_per_date
		ON tickets (serial_date, sequence_no);
	`).Error
	if err != nil {
		return err
	}

	// Index for conflict scans and availability queries
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_booking_seats_show_status
		ON booking_seats (show_id, status);
	`).Error
	if err != nil {
		return err
	}

	return nil
}
