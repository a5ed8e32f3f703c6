package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bookora/bookora/db"
	"github.com/bookora/bookora/middleware"
	"github.com/bookora/bookora/models"
	"github.com/bookora/bookora/scheduling"
	"github.com/bookora/bookora/utils"
)

// ListBlocks returns blocks intersecting [from, to].
//
// GET /blocks?from=YYYY-MM-DD&to=YYYY-MM-DD&staff_id=optional
func ListBlocks(c *fiber.Ctx) error {
	tenant := middleware.Tenant(c)

	business, err := tenantBusiness(tenant)
	if err != nil {
		return fail(c, err)
	}
	loc := business.Location()

	from, err1 := utils.ParseDate(c.Query("from"), loc)
	to, err2 := utils.ParseDate(c.Query("to"), loc)
	if err1 != nil || err2 != nil {
		return badRequest(c, "from and to are required as YYYY-MM-DD")
	}

	q := db.DB.
		Where("business_id = ?", tenant.BusinessID).
		Where("starts_at < ? AND ends_at > ?", to.AddDate(0, 0, 1), from).
		Order("starts_at")
	if staffID := c.QueryInt("staff_id"); staffID > 0 {
		q = q.Where("staff_id = ?", staffID)
	}

	var blocks []models.BookingBlock
	if err := q.Find(&blocks).Error; err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"data": blocks})
}

type createBlockInput struct {
	StartsAt string `json:"starts_at" validate:"required"`
	EndsAt   string `json:"ends_at" validate:"required"`
	Reason   string `json:"reason" validate:"max=190"`
	StaffID  *uint  `json:"staff_id"`
}

// CreateBlock registers a closed interval (break / day off).
//
// POST /blocks
func CreateBlock(c *fiber.Ctx) error {
	tenant := middleware.Tenant(c)

	var in createBlockInput
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

	start, err1 := utils.ParseDateTime(in.StartsAt, loc)
	end, err2 := utils.ParseDateTime(in.EndsAt, loc)
	if err1 != nil || err2 != nil {
		return badRequest(c, "times must be formatted as YYYY-MM-DD HH:MM")
	}

	block, err := scheduling.CreateBlock(db.DB, tenant, in.StaffID, start, end, in.Reason)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": block})
}

// DeleteBlock removes a block. Bookings made elsewhere are unaffected.
//
// DELETE /blocks/:id
func DeleteBlock(c *fiber.Ctx) error {
	tenant := middleware.Tenant(c)

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badRequest(c, "invalid block id")
	}

	if err := scheduling.DeleteBlock(db.DB, tenant, uint(id)); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}
