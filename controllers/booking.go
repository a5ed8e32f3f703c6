package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bookora/bookora/db"
	"github.com/bookora/bookora/middleware"
	"github.com/bookora/bookora/models"
	"github.com/bookora/bookora/scheduling"
	"github.com/bookora/bookora/utils"
)

// ListBookings returns the tenant's bookings with optional filters.
// Public bookings still pending phone verification are hidden unless
// include_unverified is set. Staff actors only see their own bookings.
//
// GET /bookings?date=&from=&to=&status=&staff_id=&include_unverified=
func ListBookings(c *fiber.Ctx) error {
	tenant := middleware.Tenant(c)

	business, err := tenantBusiness(tenant)
	if err != nil {
		return fail(c, err)
	}
	loc := business.Location()

	q := db.DB.
		Preload("Service").Preload("Staff").Preload("Client").
		Where("business_id = ?", tenant.BusinessID)

	if tenant.Role == models.RoleStaff {
		q = q.Where("staff_id = ?", tenant.UserID)
	} else if staffID := c.QueryInt("staff_id"); staffID > 0 {
		q = q.Where("staff_id = ?", staffID)
	}

	if date := c.Query("date"); date != "" {
		day, err := utils.ParseDate(date, loc)
		if err != nil {
			return badRequest(c, "invalid date")
		}
		q = q.Where("starts_at >= ? AND starts_at < ?", day, day.AddDate(0, 0, 1))
	}

	if from, to := c.Query("from"), c.Query("to"); from != "" && to != "" {
		fromDay, err1 := utils.ParseDate(from, loc)
		toDay, err2 := utils.ParseDate(to, loc)
		if err1 != nil || err2 != nil {
			return badRequest(c, "invalid from/to range")
		}
		q = q.Where("starts_at >= ? AND starts_at < ?", fromDay, toDay.AddDate(0, 0, 1))
	}

	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	if !c.QueryBool("include_unverified") {
		q = q.Where("phone_verification_code_hash IS NULL OR phone_verified_at IS NOT NULL")
	}

	var bookings []models.Booking
	if err := q.Order("starts_at desc").Find(&bookings).Error; err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"data": bookings})
}

// GetBooking returns one booking, tenant-scoped.
func GetBooking(c *fiber.Ctx) error {
	tenant := middleware.Tenant(c)

	booking, err := loadBooking(c, tenant)
	if err != nil {
		return fail(c, err)
	}
	if err := db.DB.Preload("Service").Preload("Staff").Preload("Client").Preload("Room").
		First(booking, booking.ID).Error; err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"data": booking})
}

type createBookingInput struct {
	ServiceID   uint   `json:"service_id" validate:"required"`
	StaffID     uint   `json:"staff_id" validate:"required"`
	StartsAt    string `json:"starts_at" validate:"required"`
	ClientName  string `json:"client_name" validate:"required,max=120"`
	ClientPhone string `json:"client_phone" validate:"required,max=40"`
	ClientID    *uint  `json:"client_id"`
	RoomID      *uint  `json:"room_id"`
	Notes       string `json:"notes" validate:"max=2000"`
	Status      string `json:"status" validate:"omitempty,oneof=pending confirmed"`
}

// CreateBooking creates a staff-side booking. The conflict guard and the
// insert share one transaction, so two concurrent requests for the same
// staff+interval cannot both succeed.
//
// POST /bookings
func CreateBooking(c *fiber.Ctx) error {
	tenant := middleware.Tenant(c)

	var in createBookingInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "Cannot parse JSON")
	}
	if err := validate.Struct(in); err != nil {
		return failValidation(c, err)
	}

	business, err := tenantBusiness(tenant)
	if err != nil {
		return fail(c, err)
	}

	startsAt, err := utils.ParseDateTime(in.StartsAt, business.Location())
	if err != nil {
		return badRequest(c, "starts_at must be formatted as YYYY-MM-DD HH:MM")
	}

	var roomID *uint
	if business.IsClinic() {
		roomID = in.RoomID
	}

	engine := scheduling.NewEngine(db.DB)
	booking, err := engine.CreateBooking(tenant, scheduling.BookingInput{
		ServiceID:   in.ServiceID,
		StaffID:     in.StaffID,
		StartsAt:    startsAt,
		ClientID:    in.ClientID,
		RoomID:      roomID,
		ClientName:  in.ClientName,
		ClientPhone: in.ClientPhone,
		Notes:       in.Notes,
		Status:      models.BookingStatus(in.Status),
		Source:      "staff",
	})
	if err != nil {
		return fail(c, err)
	}

	go notifyBookingCreated(booking)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": booking})
}

type updateBookingInput struct {
	ClientName  *string `json:"client_name" validate:"omitempty,max=120"`
	ClientPhone *string `json:"client_phone" validate:"omitempty,max=40"`
	Notes       *string `json:"notes" validate:"omitempty,max=2000"`
}

// UpdateBooking edits client-facing fields. Time and status changes go
// through their dedicated endpoints so re-validation cannot be skipped.
//
// PUT /bookings/:id
func UpdateBooking(c *fiber.Ctx) error {
	tenant := middleware.Tenant(c)

	booking, err := loadBooking(c, tenant)
	if err != nil {
		return fail(c, err)
	}

	var in updateBookingInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "Cannot parse JSON")
	}
	if err := validate.Struct(in); err != nil {
		return failValidation(c, err)
	}

	updates := map[string]interface{}{}
	if in.ClientName != nil {
		updates["client_name"] = *in.ClientName
	}
	if in.ClientPhone != nil {
		updates["client_phone"] = *in.ClientPhone
	}
	if in.Notes != nil {
		updates["notes"] = *in.Notes
	}
	if len(updates) > 0 {
		if err := db.DB.Model(booking).Updates(updates).Error; err != nil {
			return fail(c, err)
		}
	}

	return c.JSON(fiber.Map{"data": booking})
}

// ConfirmBooking: PATCH /bookings/:id/confirm
func ConfirmBooking(c *fiber.Ctx) error {
	return transition(c, models.StatusConfirmed)
}

// CancelBooking: PATCH /bookings/:id/cancel
func CancelBooking(c *fiber.Ctx) error {
	return transition(c, models.StatusCancelled)
}

// DoneBooking: PATCH /bookings/:id/done
func DoneBooking(c *fiber.Ctx) error {
	return transition(c, models.StatusDone)
}

func transition(c *fiber.Ctx, target models.BookingStatus) error {
	tenant := middleware.Tenant(c)

	booking, err := loadBooking(c, tenant)
	if err != nil {
		return fail(c, err)
	}

	if err := booking.Transition(db.DB, target); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(ErrorResponse{
			Message: err.Error(),
		})
	}
	return c.JSON(fiber.Map{"ok": true, "data": booking})
}

type rescheduleInput struct {
	StartsAt string `json:"starts_at" validate:"required"`
}

// RescheduleBooking moves a booking to a new start. The end stays the
// booking's snapshotted span, and the conflict guard re-runs in the
// same transaction as the update.
//
// PATCH /bookings/:id/time
func RescheduleBooking(c *fiber.Ctx) error {
	tenant := middleware.Tenant(c)

	booking, err := loadBooking(c, tenant)
	if err != nil {
		return fail(c, err)
	}
	if booking.Status != models.StatusPending && booking.Status != models.StatusConfirmed {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(ErrorResponse{
			Message: "Only pending or confirmed bookings can be rescheduled",
		})
	}

	var in rescheduleInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "Cannot parse JSON")
	}
	if err := validate.Struct(in); err != nil {
		return failValidation(c, err)
	}

	business, err := tenantBusiness(tenant)
	if err != nil {
		return fail(c, err)
	}
	loc := business.Location()

	start, err := utils.ParseDateTime(in.StartsAt, loc)
	if err != nil {
		return badRequest(c, "starts_at must be formatted as YYYY-MM-DD HH:MM")
	}

	engine := scheduling.NewEngine(db.DB)
	if err := engine.Reschedule(booking, start); err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"ok": true, "data": booking})
}

// loadBooking fetches the booking in the URL and enforces tenant and
// staff ownership. Cross-tenant references come back as not-found.
func loadBooking(c *fiber.Ctx, tenant models.TenantContext) (*models.Booking, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return nil, scheduling.ErrTenantMismatch("id")
	}

	var booking models.Booking
	if err := db.DB.First(&booking, id).Error; err != nil {
		return nil, err
	}
	if !tenant.SameBusiness(booking.BusinessID) {
		return nil, scheduling.ErrTenantMismatch("id")
	}
	if !tenant.Role.CanActOnBooking(tenant.UserID, booking.StaffID) {
		return nil, scheduling.ErrTenantMismatch("id")
	}
	return &booking, nil
}

func notifyBookingCreated(booking *models.Booking) {
	var staff models.User
	if err := db.DB.First(&staff, booking.StaffID).Error; err != nil || staff.Email == "" {
		return
	}

	body := "<p>New booking " + booking.BookingCode + "</p>" +
		"<ul><li>Client: " + booking.ClientName + "</li>" +
		"<li>Starts: " + utils.FormatStored(booking.StartsAt) + "</li>" +
		"<li>Ends: " + utils.FormatStored(booking.EndsAt) + "</li></ul>"

	_ = utils.SendEmail(staff.Email, "New booking "+booking.BookingCode, body)
}
