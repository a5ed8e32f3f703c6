package controllers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/bookora/bookora/db"
	"github.com/bookora/bookora/middleware"
	"github.com/bookora/bookora/models"
)

type serviceInput struct {
	Name            string  `json:"name" validate:"required,min=2,max=120"`
	Description     string  `json:"description" validate:"max=1000"`
	DurationMinutes int     `json:"duration_minutes" validate:"required,min=5,max=600"`
	Price           float64 `json:"price" validate:"min=0"`
	Currency        string  `json:"currency" validate:"omitempty,len=3"`
}

// ListServices returns the services of the acting business.
//
// GET /services
func ListServices(c *fiber.Ctx) error {
	tenant := middleware.Tenant(c)

	q := db.DB.Where("business_id = ?", tenant.BusinessID)
	if c.Query("active") == "true" {
		q = q.Where("is_active = ?", true)
	}

	var services []models.Service
	if err := q.Order("name").Find(&services).Error; err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"data": services})
}

// CreateService adds a service, enforcing the subscription service cap.
//
// POST /services
func CreateService(c *fiber.Ctx) error {
	tenant := middleware.Tenant(c)

	var in serviceInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "Cannot parse JSON")
	}
	if err := validate.Struct(in); err != nil {
		return failValidation(c, err)
	}

	if sub := tenantSubscription(tenant.BusinessID); sub != nil {
		var count int64
		db.DB.Model(&models.Service{}).
			Where("business_id = ?", tenant.BusinessID).Count(&count)
		if count >= int64(sub.LimitsSnapshot.MaxServices) {
			return c.Status(fiber.StatusForbidden).JSON(ErrorResponse{
				Message: "Service limit reached for the current plan",
			})
		}
	}

	service := models.Service{
		BusinessID:      tenant.BusinessID,
		Name:            in.Name,
		Description:     in.Description,
		DurationMinutes: in.DurationMinutes,
		Price:           in.Price,
		Currency:        in.Currency,
		IsActive:        true,
	}
	if service.Currency == "" {
		service.Currency = "AMD"
	}
	if err := db.DB.Create(&service).Error; err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": service})
}

// UpdateService: PUT /services/:id
func UpdateService(c *fiber.Ctx) error {
	tenant := middleware.Tenant(c)

	service, err := loadService(c, tenant)
	if err != nil {
		return fail(c, err)
	}

	var in serviceInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "Cannot parse JSON")
	}
	if err := validate.Struct(in); err != nil {
		return failValidation(c, err)
	}

	service.Name = in.Name
	service.Description = in.Description
	service.DurationMinutes = in.DurationMinutes
	service.Price = in.Price
	if in.Currency != "" {
		service.Currency = in.Currency
	}
	if err := db.DB.Save(service).Error; err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"data": service})
}

// SetServiceActive toggles a service on or off without deleting history.
//
// PATCH /services/:id/active
func SetServiceActive(c *fiber.Ctx) error {
	tenant := middleware.Tenant(c)

	service, err := loadService(c, tenant)
	if err != nil {
		return fail(c, err)
	}

	var in struct {
		IsActive bool `json:"is_active"`
	}
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "Cannot parse JSON")
	}

	service.IsActive = in.IsActive
	if err := db.DB.Save(service).Error; err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"data": service})
}

// DeleteService soft-deletes a service. Existing bookings keep their
// snapshotted price and duration.
//
// DELETE /services/:id
func DeleteService(c *fiber.Ctx) error {
	tenant := middleware.Tenant(c)

	service, err := loadService(c, tenant)
	if err != nil {
		return fail(c, err)
	}
	if err := db.DB.Delete(service).Error; err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

func loadService(c *fiber.Ctx, tenant models.TenantContext) (*models.Service, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return nil, gorm.ErrRecordNotFound
	}

	var service models.Service
	if err := db.DB.First(&service, id).Error; err != nil {
		return nil, err
	}
	if !tenant.SameBusiness(service.BusinessID) {
		return nil, gorm.ErrRecordNotFound
	}
	return &service, nil
}
