package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bookora/bookora/db"
	"github.com/bookora/bookora/middleware"
	"github.com/bookora/bookora/scheduling"
)

// Availability returns the open slots for a (staff, service, date)
// triple inside the tenant's business.
//
// GET /availability?service_id=..&date=YYYY-MM-DD&staff_id=optional
func Availability(c *fiber.Ctx) error {
	tenant := middleware.Tenant(c)

	serviceID := uint(c.QueryInt("service_id"))
	date := c.Query("date")
	if serviceID == 0 || date == "" {
		return badRequest(c, "service_id and date are required")
	}

	staffID := uint(c.QueryInt("staff_id"))
	if staffID == 0 {
		staffID = defaultStaffID(tenant.BusinessID)
	}
	if staffID == 0 {
		return c.JSON(fiber.Map{"data": []scheduling.Slot{}})
	}

	engine := scheduling.NewEngine(db.DB)
	slots, err := engine.SlotsForDay(tenant.BusinessID, staffID, serviceID, date)
	if err != nil {
		return fail(c, err)
	}
	if slots == nil {
		slots = []scheduling.Slot{}
	}

	c.Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
	return c.JSON(fiber.Map{"data": slots})
}
