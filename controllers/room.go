package controllers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/bookora/bookora/db"
	"github.com/bookora/bookora/middleware"
	"github.com/bookora/bookora/models"
)

type roomInput struct {
	Name string `json:"name" validate:"required,min=1,max=120"`
	Type string `json:"type" validate:"max=60"`
}

// ListRooms: GET /rooms (clinics only)
func ListRooms(c *fiber.Ctx) error {
	tenant := middleware.Tenant(c)

	if err := requireClinic(tenant); err != nil {
		return fail(c, err)
	}

	var rooms []models.Room
	if err := db.DB.Where("business_id = ?", tenant.BusinessID).
		Order("name").Find(&rooms).Error; err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"data": rooms})
}

// CreateRoom: POST /rooms (clinics only)
func CreateRoom(c *fiber.Ctx) error {
	tenant := middleware.Tenant(c)

	if err := requireClinic(tenant); err != nil {
		return fail(c, err)
	}

	var in roomInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "Cannot parse JSON")
	}
	if err := validate.Struct(in); err != nil {
		return failValidation(c, err)
	}

	if sub := tenantSubscription(tenant.BusinessID); sub != nil {
		var count int64
		db.DB.Model(&models.Room{}).
			Where("business_id = ?", tenant.BusinessID).Count(&count)
		if count >= int64(sub.LimitsSnapshot.MaxRooms) {
			return c.Status(fiber.StatusForbidden).JSON(ErrorResponse{
				Message: "Room limit reached for the current plan",
			})
		}
	}

	room := models.Room{
		BusinessID: tenant.BusinessID,
		Name:       in.Name,
		Type:       in.Type,
		IsActive:   true,
	}
	if err := db.DB.Create(&room).Error; err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": room})
}

// SetRoomActive: PATCH /rooms/:id/active
func SetRoomActive(c *fiber.Ctx) error {
	tenant := middleware.Tenant(c)

	if err := requireClinic(tenant); err != nil {
		return fail(c, err)
	}

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badRequest(c, "invalid room id")
	}

	var room models.Room
	if err := db.DB.First(&room, id).Error; err != nil {
		return fail(c, err)
	}
	if !tenant.SameBusiness(room.BusinessID) {
		return fail(c, gorm.ErrRecordNotFound)
	}

	var in struct {
		IsActive bool `json:"is_active"`
	}
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "Cannot parse JSON")
	}

	room.IsActive = in.IsActive
	if err := db.DB.Save(&room).Error; err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"data": room})
}

// requireClinic rejects room operations for non-clinic businesses.
func requireClinic(tenant models.TenantContext) error {
	business, err := tenantBusiness(tenant)
	if err != nil {
		return err
	}
	if !business.IsClinic() {
		return gorm.ErrRecordNotFound
	}
	return nil
}
