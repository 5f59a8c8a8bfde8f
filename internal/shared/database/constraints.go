package database

import (
	"gorm.io/gorm"
)

// MigrateConstraints adds critical database constraints for concurrency control
func MigrateConstraints(db *gorm.DB) error {
	// uuid_generate_v4() defaults on primary keys
	err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error
	if err != nil {
		return err
	}

	// btree_gist lets the exclusion constraint mix equality on the
	// listing with range overlap on the dates.
	err = db.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist;`).Error
	if err != nil {
		return err
	}

	// Storage-level backstop against double booking: no two active
	// bookings on one listing may have overlapping [check_in, check_out)
	// ranges, even if every application-level guard fails.
	err = db.Exec(`
		DO $$
		BEGIN
			IF NOT EXISTS (
				SELECT 1 FROM pg_constraint WHERE conname = 'no_overlapping_active_bookings'
			) THEN
				ALTER TABLE bookings
				ADD CONSTRAINT no_overlapping_active_bookings
				EXCLUDE USING gist (
					listing_id WITH =,
					daterange(check_in::date, check_out::date, '[)') WITH &&
				) WHERE (status IN ('pending', 'confirmed'));
			END IF;
		END $$;
	`).Error
	if err != nil {
		return err
	}

	// Index for the overlap probe on active bookings
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_bookings_listing_dates
		ON bookings (listing_id, check_in, check_out)
		WHERE status IN ('pending', 'confirmed');
	`).Error
	if err != nil {
		return err
	}

	// Index for the stale-pending sweeper
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_bookings_pending_created
		ON bookings (created_at)
		WHERE status = 'pending';
	`).Error
	if err != nil {
		return err
	}

	return nil
}
