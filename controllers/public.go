package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/bookora/bookora/cache"
	"github.com/bookora/bookora/db"
	"github.com/bookora/bookora/metrics"
	"github.com/bookora/bookora/models"
	"github.com/bookora/bookora/scheduling"
	"github.com/bookora/bookora/utils"
)

const (
	// Anonymous bookings must be phone-verified within this window or
	// the sweeper cancels them.
	verificationTTL = 10 * time.Minute

	// A wrong code may be retried this many times before the booking
	// verification is locked out.
	maxVerificationAttempts = 5

	// OTP issue throttle per phone number.
	otpIssueLimit  = 3
	otpIssueWindow = 10 * time.Minute
)

// PublicBusiness resolves a business by its public slug.
//
// GET /public/businesses/:slug
func PublicBusiness(c *fiber.Ctx) error {
	business, err := businessBySlug(c)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"name":          business.Name,
		"slug":          business.Slug,
		"business_type": business.BusinessType,
		"timezone":      business.Timezone,
	}})
}

// PublicServices lists the active services of a business.
//
// GET /public/businesses/:slug/services
func PublicServices(c *fiber.Ctx) error {
	business, err := businessBySlug(c)
	if err != nil {
		return fail(c, err)
	}

	var services []models.Service
	if err := db.DB.Where("business_id = ? AND is_active = ?", business.ID, true).
		Order("name").Find(&services).Error; err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"data": services})
}

// PublicStaff lists the bookable staff of a business, name and id only.
//
// GET /public/businesses/:slug/staff
func PublicStaff(c *fiber.Ctx) error {
	business, err := businessBySlug(c)
	if err != nil {
		return fail(c, err)
	}

	var staff []models.User
	err = db.DB.Where("business_id = ? AND is_active = ?", business.ID, true).
		Where("role IN ?", models.StaffRoles).
		Order("name").Find(&staff).Error
	if err != nil {
		return fail(c, err)
	}

	out := make([]fiber.Map, 0, len(staff))
	for _, s := range staff {
		out = append(out, fiber.Map{"id": s.ID, "name": s.Name})
	}
	return c.JSON(fiber.Map{"data": out})
}

// PublicAvailability returns open slots for the public widget.
//
// GET /public/businesses/:slug/availability?service_id=&date=&staff_id=
func PublicAvailability(c *fiber.Ctx) error {
	business, err := businessBySlug(c)
	if err != nil {
		return fail(c, err)
	}

	serviceID := uint(c.QueryInt("service_id"))
	date := c.Query("date")
	if serviceID == 0 || date == "" {
		return badRequest(c, "service_id and date are required")
	}
	staffID := uint(c.QueryInt("staff_id"))
	if staffID == 0 {
		staffID = defaultStaffID(business.ID)
	}

	engine := scheduling.NewEngine(db.DB)
	slots, err := engine.SlotsForDay(business.ID, staffID, serviceID, date)
	if err != nil {
		return fail(c, err)
	}
	if slots == nil {
		slots = []scheduling.Slot{}
	}

	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.JSON(fiber.Map{"data": slots})
}

type publicBookingInput struct {
	ServiceID uint   `json:"service_id" validate:"required"`
	StaffID   uint   `json:"staff_id"`
	StartsAt  string `json:"starts_at" validate:"required"`
	Name      string `json:"name" validate:"required,min=2,max=120"`
	Phone     string `json:"phone" validate:"required"`
	Notes     string `json:"notes" validate:"max=1000"`
}

// PublicCreateBooking books a slot anonymously. The requested start must
// be one of the currently derivable slots, and the booking stays hidden
// from staff until its phone is verified with the one-time code.
//
// POST /public/businesses/:slug/bookings
func PublicCreateBooking(c *fiber.Ctx) error {
	business, err := businessBySlug(c)
	if err != nil {
		return fail(c, err)
	}
	if sub := tenantSubscription(business.ID); sub != nil && !sub.LimitsSnapshot.PublicBooking {
		return c.Status(fiber.StatusForbidden).JSON(ErrorResponse{
			Message: "Online booking is not enabled for this business",
		})
	}

	var in publicBookingInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "Cannot parse JSON")
	}
	if err := validate.Struct(in); err != nil {
		return failValidation(c, err)
	}

	phone := utils.NormalizePhone(in.Phone)
	if phone == "" {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(ErrorResponse{
			Message: "Invalid phone number",
			Errors:  map[string][]string{"phone": {"Invalid phone number"}},
		})
	}
	if !cache.AllowOTPIssue(phone, otpIssueLimit, otpIssueWindow) {
		return c.Status(fiber.StatusTooManyRequests).JSON(ErrorResponse{
			Message: "Too many booking attempts, try again later",
		})
	}

	loc := business.Location()
	start, err := utils.ParseDateTime(in.StartsAt, loc)
	if err != nil {
		return badRequest(c, "starts_at must be formatted as YYYY-MM-DD HH:MM")
	}

	staffID := in.StaffID
	if staffID == 0 {
		staffID = defaultStaffID(business.ID)
	}

	// The requested start must still be offered: this re-derivation
	// enforces grid alignment and the lead-time buffer on top of the
	// transactional overlap guard.
	engine := scheduling.NewEngine(db.DB)
	slots, err := engine.SlotsForDay(business.ID, staffID, in.ServiceID, start.Format(utils.DateFormat))
	if err != nil {
		return fail(c, err)
	}
	offered := false
	for _, s := range slots {
		if s.StartsAt.Equal(start) {
			offered = true
			break
		}
	}
	if !offered {
		return fail(c, scheduling.ErrSlotTaken())
	}

	client, err := upsertClient(business.ID, in.Name, phone)
	if err != nil {
		return fail(c, err)
	}

	code := utils.GenerateOTP()
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return fail(c, err)
	}

	tenant := models.TenantContext{BusinessID: business.ID}
	booking, err := engine.CreateBooking(tenant, scheduling.BookingInput{
		ServiceID:   in.ServiceID,
		StaffID:     staffID,
		StartsAt:    start,
		ClientID:    &client.ID,
		ClientName:  in.Name,
		ClientPhone: phone,
		Notes:       in.Notes,
		Status:      models.StatusPending,
		Source:      "public",
		Verify: &scheduling.Verification{
			CodeHash:  string(hash),
			ExpiresAt: time.Now().Add(verificationTTL),
		},
	})
	if err != nil {
		return fail(c, err)
	}

	go utils.NotifyVerificationCode(phone, code, int(verificationTTL.Minutes()))

	log.Info().Uint("business_id", business.ID).Str("code", booking.BookingCode).Msg("public booking created")

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": fiber.Map{
		"booking_code": booking.BookingCode,
		"status":       booking.Status,
		"starts_at":    utils.FormatStored(booking.StartsAt),
		"ends_at":      utils.FormatStored(booking.EndsAt),
		"message":      "Enter the verification code sent to your phone",
	}})
}

// PublicBooking shows a booking by its public code.
//
// GET /public/bookings/:code
func PublicBooking(c *fiber.Ctx) error {
	booking, err := bookingByCode(c)
	if err != nil {
		return fail(c, err)
	}

	out := fiber.Map{
		"booking_code": booking.BookingCode,
		"status":       booking.Status,
		"starts_at":    utils.FormatStored(booking.StartsAt),
		"ends_at":      utils.FormatStored(booking.EndsAt),
		"verified":     booking.IsVerified(),
		"final_price":  booking.FinalPrice,
		"currency":     booking.Currency,
	}
	// preloads can come back nil when catalog rows were removed since
	if booking.Service != nil {
		out["service"] = booking.Service.Name
	}
	if booking.Staff != nil {
		out["staff"] = booking.Staff.Name
	}
	if booking.Business != nil {
		out["business"] = booking.Business.Name
	}
	return c.JSON(fiber.Map{"data": out})
}

type verifyInput struct {
	Code string `json:"code" validate:"required,len=4,numeric"`
}

// PublicVerifyPhone checks the one-time code against the stored hash.
// Five wrong codes lock the booking out; an expired code cannot verify.
//
// POST /public/bookings/:code/verify
func PublicVerifyPhone(c *fiber.Ctx) error {
	booking, err := bookingByCode(c)
	if err != nil {
		return fail(c, err)
	}

	var in verifyInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "Cannot parse JSON")
	}
	if err := validate.Struct(in); err != nil {
		return failValidation(c, err)
	}

	if booking.IsVerified() {
		return c.JSON(fiber.Map{"ok": true, "status": booking.Status})
	}
	if booking.PhoneVerificationExpires != nil && time.Now().After(*booking.PhoneVerificationExpires) {
		return fail(c, &scheduling.Error{
			Code: scheduling.CodeCodeExpired, Field: "code",
			Message: "verification code has expired",
		})
	}

	// The attempt is reserved before the hash compare. One conditional
	// update enforces the cap even under concurrent requests.
	ok, err := booking.ConsumeVerificationAttempt(db.DB, maxVerificationAttempts)
	if err != nil {
		return fail(c, err)
	}
	if !ok {
		metrics.VerificationFailures.Inc()
		return fail(c, &scheduling.Error{
			Code: scheduling.CodeTooManyAttempts, Field: "code",
			Message: "too many verification attempts",
		})
	}

	if bcrypt.CompareHashAndPassword([]byte(*booking.PhoneVerificationCodeHash), []byte(in.Code)) != nil {
		metrics.VerificationFailures.Inc()
		return fail(c, &scheduling.Error{
			Code: scheduling.CodeValidation, Field: "code",
			Message: "wrong verification code",
		})
	}

	now := time.Now()
	err = db.DB.Model(booking).Updates(map[string]interface{}{
		"phone_verified_at":            now,
		"phone_verification_code_hash": nil,
	}).Error
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"ok": true, "status": booking.Status})
}

// PublicCancelBooking cancels a booking by its public code.
//
// POST /public/bookings/:code/cancel
func PublicCancelBooking(c *fiber.Ctx) error {
	booking, err := bookingByCode(c)
	if err != nil {
		return fail(c, err)
	}

	if err := booking.Transition(db.DB, models.StatusCancelled); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(ErrorResponse{Message: err.Error()})
	}
	return c.JSON(fiber.Map{"ok": true, "status": booking.Status})
}

func businessBySlug(c *fiber.Ctx) (*models.Business, error) {
	slug := c.Params("slug")
	if slug == "" {
		return nil, gorm.ErrRecordNotFound
	}

	var business models.Business
	if err := db.DB.Where("slug = ?", slug).First(&business).Error; err != nil {
		return nil, err
	}
	return &business, nil
}

func bookingByCode(c *fiber.Ctx) (*models.Booking, error) {
	code := c.Params("code")
	if code == "" {
		return nil, gorm.ErrRecordNotFound
	}

	var booking models.Booking
	err := db.DB.Preload("Service").Preload("Staff").Preload("Business").
		Where("booking_code = ?", code).First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// upsertClient finds or creates the per-business client record for a
// normalized phone, refreshing the name on repeat contact.
func upsertClient(businessID uint, name, phone string) (*models.Client, error) {
	var client models.Client
	err := db.DB.Where("business_id = ? AND phone = ?", businessID, phone).First(&client).Error
	if err == nil {
		if client.Name != name {
			client.Name = name
			if err := db.DB.Save(&client).Error; err != nil {
				return nil, err
			}
		}
		return &client, nil
	}

	client = models.Client{BusinessID: businessID, Name: name, Phone: phone}
	if err := db.DB.Create(&client).Error; err != nil {
		return nil, err
	}
	return &client, nil
}
