package scheduling

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/bookora/bookora/metrics"
	"github.com/bookora/bookora/models"
	"github.com/bookora/bookora/utils"
)

// Verification carries the phone-verification state attached to an
// anonymous public booking at creation time.
type Verification struct {
	CodeHash  string
	ExpiresAt time.Time
}

// BookingInput is a validated booking creation request. EndsAt is always
// derived from the service duration, never taken from the caller.
type BookingInput struct {
	ServiceID   uint
	StaffID     uint
	StartsAt    time.Time
	ClientID    *uint
	RoomID      *uint
	ClientName  string
	ClientPhone string
	Notes       string
	Status      models.BookingStatus
	Source      string // "staff" or "public", metrics label
	Verify      *Verification
}

// CreateBooking validates the request and inserts the booking with the
// conflict guard running inside the same transaction as the insert.
func (e *Engine) CreateBooking(tenant models.TenantContext, in BookingInput) (*models.Booking, error) {
	var service models.Service
	if err := e.DB.First(&service, in.ServiceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTenantMismatch("service_id")
		}
		return nil, err
	}
	if !tenant.SameBusiness(service.BusinessID) {
		return nil, ErrTenantMismatch("service_id")
	}
	if !service.HasValidDuration() {
		return nil, ErrInvalidServiceDuration()
	}

	var staff models.User
	if err := e.DB.First(&staff, in.StaffID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTenantMismatch("staff_id")
		}
		return nil, err
	}
	if !tenant.SameBusiness(staff.BusinessID) || staff.BusinessID != service.BusinessID {
		return nil, ErrTenantMismatch("staff_id")
	}
	if !staff.IsSchedulable() {
		return nil, newError(CodeValidation, "staff_id", "staff member is not schedulable")
	}

	// Staff actors book only for themselves.
	if tenant.Role == models.RoleStaff && tenant.UserID != in.StaffID {
		return nil, newError(CodeValidation, "staff_id", "staff cannot create a booking for another staff member")
	}

	status := in.Status
	if status == "" {
		status = models.StatusPending
	}
	if status != models.StatusPending && status != models.StatusConfirmed {
		return nil, newError(CodeValidation, "status", "new bookings start as pending or confirmed")
	}

	start := in.StartsAt.Truncate(time.Minute)
	end := start.Add(time.Duration(service.DurationMinutes) * time.Minute)

	booking := models.Booking{
		BusinessID:  service.BusinessID,
		ServiceID:   service.ID,
		StaffID:     staff.ID,
		ClientID:    in.ClientID,
		RoomID:      in.RoomID,
		ClientName:  in.ClientName,
		ClientPhone: in.ClientPhone,
		Notes:       in.Notes,
		StartsAt:    start,
		EndsAt:      end,
		Status:      status,
		BookingCode: utils.GenerateBookingCode(),
		FinalPrice:  service.Price,
		Currency:    service.Currency,
	}
	if in.Verify != nil {
		hash := in.Verify.CodeHash
		expires := in.Verify.ExpiresAt
		booking.PhoneVerificationCodeHash = &hash
		booking.PhoneVerificationExpires = &expires
	}

	err := e.DB.Transaction(func(tx *gorm.DB) error {
		if err := AssertWithinSchedule(tx, booking.BusinessID, staff.ID, start, end); err != nil {
			return err
		}
		if err := AssertNoOverlap(tx, booking.BusinessID, staff.ID, start, end, 0); err != nil {
			return err
		}
		if err := AssertNotBlocked(tx, booking.BusinessID, staff.ID, start, end); err != nil {
			return err
		}
		return tx.Create(&booking).Error
	})
	if err != nil {
		if de, ok := AsError(err); ok && de.Code == CodeSlotTaken {
			metrics.BookingConflicts.Inc()
		}
		return nil, err
	}

	source := in.Source
	if source == "" {
		source = "staff"
	}
	metrics.BookingsCreated.WithLabelValues(source).Inc()

	return &booking, nil
}

// Reschedule moves a booking to a new start. The end is derived from
// the booking's snapshotted span, never taken from the caller, and the
// full guard (schedule, overlap, block) re-runs inside the transaction.
// The caller has already checked ownership.
func (e *Engine) Reschedule(booking *models.Booking, start time.Time) error {
	start = start.Truncate(time.Minute)
	end := start.Add(booking.EndsAt.Sub(booking.StartsAt))

	err := e.DB.Transaction(func(tx *gorm.DB) error {
		if err := AssertWithinSchedule(tx, booking.BusinessID, booking.StaffID, start, end); err != nil {
			return err
		}
		if err := AssertNoOverlap(tx, booking.BusinessID, booking.StaffID, start, end, booking.ID); err != nil {
			return err
		}
		if err := AssertNotBlocked(tx, booking.BusinessID, booking.StaffID, start, end); err != nil {
			return err
		}
		return tx.Model(booking).Updates(map[string]interface{}{
			"starts_at": start,
			"ends_at":   end,
		}).Error
	})
	if err != nil {
		if de, ok := AsError(err); ok && de.Code == CodeSlotTaken {
			metrics.BookingConflicts.Inc()
		}
		return err
	}

	booking.StartsAt = start
	booking.EndsAt = end
	return nil
}
