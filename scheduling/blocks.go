package scheduling

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/bookora/bookora/models"
)

// CreateBlock registers an ad-hoc closed interval. Overlapping blocks in
// the same staff scope are rejected; a business-wide block conflicts
// with any existing block of the business.
func CreateBlock(dbx *gorm.DB, tenant models.TenantContext, staffID *uint, start, end time.Time, reason string) (*models.BookingBlock, error) {
	if !end.After(start) {
		return nil, newError(CodeInvalidRange, "ends_at", "ends_at must be after starts_at")
	}
	if end.Sub(start) > models.MaxBlockSpanDays*24*time.Hour {
		return nil, newError(CodeRangeTooLarge, "ends_at", "blocked interval exceeds 14 days")
	}

	if staffID != nil {
		var staff models.User
		if err := dbx.First(&staff, *staffID).Error; err != nil {
			return nil, ErrTenantMismatch("staff_id")
		}
		if !tenant.SameBusiness(staff.BusinessID) {
			return nil, ErrTenantMismatch("staff_id")
		}
	}

	q := dbx.Model(&models.BookingBlock{}).
		Where("business_id = ?", tenant.BusinessID).
		Where("starts_at < ? AND ends_at > ?", end, start)
	if staffID != nil {
		q = q.Where("staff_id IS NULL OR staff_id = ?", *staffID)
	}

	var overlapping int64
	if err := q.Count(&overlapping).Error; err != nil {
		return nil, err
	}
	if overlapping > 0 {
		return nil, newError(CodeOverlapExists, "starts_at", "an overlapping block already exists")
	}

	block := models.BookingBlock{
		BusinessID: tenant.BusinessID,
		StaffID:    staffID,
		StartsAt:   start,
		EndsAt:     end,
		Reason:     reason,
	}
	if err := dbx.Create(&block).Error; err != nil {
		return nil, err
	}
	return &block, nil
}

// IsBlocked reports whether any block applying to this staff member
// (staff-specific or business-wide) overlaps [start,end).
func IsBlocked(dbx *gorm.DB, businessID, staffID uint, start, end time.Time) (bool, error) {
	var count int64
	err := dbx.Model(&models.BookingBlock{}).
		Where("business_id = ?", businessID).
		Where("staff_id IS NULL OR staff_id = ?", staffID).
		Where("starts_at < ? AND ends_at > ?", end, start).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// DeleteBlock removes a block. Existing bookings are untouched; deleting
// a block does not retroactively validate anything.
func DeleteBlock(dbx *gorm.DB, tenant models.TenantContext, blockID uint) error {
	var block models.BookingBlock
	if err := dbx.First(&block, blockID).Error; err != nil {
		return err
	}
	if !tenant.SameBusiness(block.BusinessID) {
		return gorm.ErrRecordNotFound
	}
	return dbx.Delete(&block).Error
}

// BlocksOverlapping loads every block of the business that intersects
// [start,end) and applies to staffID. Used by the availability engine to
// filter a whole day with one query.
func BlocksOverlapping(dbx *gorm.DB, businessID, staffID uint, start, end time.Time) ([]models.BookingBlock, error) {
	var blocks []models.BookingBlock
	err := dbx.
		Where("business_id = ?", businessID).
		Where("staff_id IS NULL OR staff_id = ?", staffID).
		Where("starts_at < ? AND ends_at > ?", end, start).
		Find(&blocks).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return blocks, nil
}
