package db

import (
	"github.com/rs/zerolog/log"

	"github.com/bookora/bookora/models"
)

// Migrate runs schema migrations. Requires Init to have been called.
func Migrate() {
	err := DB.AutoMigrate(
		&models.Business{},
		&models.User{},
		&models.Service{},
		&models.Client{},
		&models.Room{},
		&models.BusinessWorkingHour{},
		&models.StaffWorkingHour{},
		&models.ScheduleException{},
		&models.BookingBlock{},
		&models.Booking{},
		&models.Plan{},
		&models.Subscription{},
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	installBookingExclusion()

	log.Info().Msg("migrations applied")
}

// installBookingExclusion adds a storage-level backstop for the
// no-overlap invariant: even if two requests race past the application
// check, Postgres rejects the second insert. Requires btree_gist.
func installBookingExclusion() {
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS btree_gist`,
		`ALTER TABLE bookings DROP CONSTRAINT IF EXISTS bookings_no_overlap`,
		`ALTER TABLE bookings ADD CONSTRAINT bookings_no_overlap
			EXCLUDE USING gist (
				staff_id WITH =,
				tsrange(starts_at, ends_at) WITH &&
			) WHERE (status NOT IN ('cancelled') AND deleted_at IS NULL)`,
	}

	for _, stmt := range stmts {
		if err := DB.Exec(stmt).Error; err != nil {
			log.Fatal().Err(err).Str("stmt", stmt).Msg("failed to install booking exclusion constraint")
		}
	}
}
