package scheduling

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bookora/bookora/models"
)

// The conflict guard re-checks overlap and block state on the write path,
// inside the same transaction as the booking insert. The availability
// engine only advises; two concurrent requests can both see the same
// open slot, so the guard plus row locking (and the exclusion constraint
// installed by db.Migrate) is what keeps the no-overlap invariant.

// lockRows adds FOR UPDATE where the dialect supports it. SQLite (used
// by the test suite) serializes writers on its own.
func lockRows(q *gorm.DB) *gorm.DB {
	if q.Dialector.Name() == "postgres" {
		return q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return q
}

// AssertNoOverlap fails with SlotTaken when a non-cancelled booking of
// the staff member intersects [start,end). ignoreBookingID exempts the
// booking being updated; zero means none.
func AssertNoOverlap(tx *gorm.DB, businessID, staffID uint, start, end time.Time, ignoreBookingID uint) error {
	q := tx.Model(&models.Booking{}).
		Where("business_id = ? AND staff_id = ?", businessID, staffID).
		Where("status <> ?", models.StatusCancelled).
		Where("starts_at < ? AND ends_at > ?", end, start)
	if ignoreBookingID != 0 {
		q = q.Where("id <> ?", ignoreBookingID)
	}

	var conflicting []models.Booking
	if err := lockRows(q).Find(&conflicting).Error; err != nil {
		return err
	}
	if len(conflicting) > 0 {
		return ErrSlotTaken()
	}
	return nil
}

// AssertNotBlocked fails with TimeBlocked when [start,end) falls into a
// block applying to this staff member.
func AssertNotBlocked(tx *gorm.DB, businessID, staffID uint, start, end time.Time) error {
	blocked, err := IsBlocked(tx, businessID, staffID, start, end)
	if err != nil {
		return err
	}
	if blocked {
		return ErrTimeBlocked()
	}
	return nil
}

// AssertWithinSchedule fails with OutsideWorkingHours when [start,end)
// does not fit the staff member's effective window for that date.
func AssertWithinSchedule(tx *gorm.DB, businessID, staffID uint, start, end time.Time) error {
	var business models.Business
	if err := tx.First(&business, businessID).Error; err != nil {
		return err
	}

	day := start.In(business.Location())
	window, err := EffectiveWindow(tx, &business, staffID, day)
	if err != nil {
		return err
	}
	if !window.Contains(start, end) {
		return ErrOutsideWorkingHours()
	}
	return nil
}
