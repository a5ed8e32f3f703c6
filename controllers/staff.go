package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/bookora/bookora/db"
	"github.com/bookora/bookora/middleware"
	"github.com/bookora/bookora/models"
)

type staffInput struct {
	Name     string `json:"name" validate:"required,min=2,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"omitempty,oneof=manager staff"`
}

// ListStaff returns the business' staff accounts, passwords stripped.
//
// GET /staff
func ListStaff(c *fiber.Ctx) error {
	tenant := middleware.Tenant(c)

	q := db.DB.Where("business_id = ?", tenant.BusinessID).
		Where("role IN ?", models.StaffRoles)
	if c.Query("active") == "true" {
		q = q.Where("is_active = ?", true)
	}

	var staff []models.User
	if err := q.Order("name").Find(&staff).Error; err != nil {
		return fail(c, err)
	}
	for i := range staff {
		staff[i].Password = ""
	}
	return c.JSON(fiber.Map{"data": staff})
}

// CreateStaff adds a staff or manager account. The active seat count is
// capped by the subscription's snapshotted limit; deactivated accounts
// free their seat.
//
// POST /staff
func CreateStaff(c *fiber.Ctx) error {
	tenant := middleware.Tenant(c)

	var in staffInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "Cannot parse JSON")
	}
	if err := validate.Struct(in); err != nil {
		return failValidation(c, err)
	}

	role := models.Role(in.Role)
	if role == "" {
		role = models.RoleStaff
	}
	// Managers may add staff but not other managers.
	if role == models.RoleManager && tenant.Role != models.RoleOwner && !tenant.IsSuperAdmin() {
		return c.Status(fiber.StatusForbidden).JSON(ErrorResponse{
			Message: "Only the owner can add managers",
		})
	}

	var existing models.User
	if db.DB.Where("email = ?", in.Email).First(&existing).RowsAffected > 0 {
		return c.Status(fiber.StatusConflict).JSON(ErrorResponse{
			Message: "User with this email already exists",
		})
	}

	if sub := tenantSubscription(tenant.BusinessID); sub != nil {
		var seats int64
		db.DB.Model(&models.User{}).
			Where("business_id = ? AND is_active = ?", tenant.BusinessID, true).
			Where("role IN ?", models.StaffRoles).
			Count(&seats)
		if seats >= int64(sub.SeatLimit()) {
			return c.Status(fiber.StatusForbidden).JSON(ErrorResponse{
				Message: "Staff limit reached for the current plan",
			})
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return fail(c, err)
	}

	staff := models.User{
		Name:       in.Name,
		Email:      in.Email,
		Password:   string(hashed),
		Role:       role,
		BusinessID: tenant.BusinessID,
		IsActive:   true,
	}
	if err := db.DB.Create(&staff).Error; err != nil {
		return fail(c, err)
	}

	log.Info().Uint("business_id", tenant.BusinessID).Uint("staff_id", staff.ID).Msg("staff created")

	staff.Password = ""
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": staff})
}

// SetStaffActive activates or deactivates a staff account. Deactivated
// staff keep their bookings but offer no slots and cannot log in.
//
// PATCH /staff/:id/active
func SetStaffActive(c *fiber.Ctx) error {
	tenant := middleware.Tenant(c)

	staff, err := loadStaff(c, tenant)
	if err != nil {
		return fail(c, err)
	}
	if staff.Role == models.RoleOwner {
		return c.Status(fiber.StatusForbidden).JSON(ErrorResponse{
			Message: "The owner account cannot be deactivated",
		})
	}

	var in struct {
		IsActive bool `json:"is_active"`
	}
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "Cannot parse JSON")
	}

	if in.IsActive && !staff.IsActive {
		if sub := tenantSubscription(tenant.BusinessID); sub != nil {
			var seats int64
			db.DB.Model(&models.User{}).
				Where("business_id = ? AND is_active = ?", tenant.BusinessID, true).
				Where("role IN ?", models.StaffRoles).
				Count(&seats)
			if seats >= int64(sub.SeatLimit()) {
				return c.Status(fiber.StatusForbidden).JSON(ErrorResponse{
					Message: "Staff limit reached for the current plan",
				})
			}
		}
	}

	staff.IsActive = in.IsActive
	if err := db.DB.Save(staff).Error; err != nil {
		return fail(c, err)
	}

	staff.Password = ""
	return c.JSON(fiber.Map{"data": staff})
}
