package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bookora/bookora/db"
	"github.com/bookora/bookora/middleware"
	"github.com/bookora/bookora/models"
	"github.com/bookora/bookora/scheduling"
	"github.com/bookora/bookora/utils"
)

type scheduleDayInput struct {
	DayOfWeek  int     `json:"day_of_week" validate:"min=0,max=6"`
	IsClosed   bool    `json:"is_closed"`
	StartTime  string  `json:"start_time" validate:"required_if=IsClosed false"`
	EndTime    string  `json:"end_time" validate:"required_if=IsClosed false"`
	BreakStart *string `json:"break_start"`
	BreakEnd   *string `json:"break_end"`
}

type scheduleInput struct {
	Days []scheduleDayInput `json:"days" validate:"required,min=1,max=7,dive"`
}

// GetBusinessSchedule returns the business-level weekly hours.
//
// GET /schedule
func GetBusinessSchedule(c *fiber.Ctx) error {
	tenant := middleware.Tenant(c)

	var rows []models.BusinessWorkingHour
	if err := db.DB.Where("business_id = ?", tenant.BusinessID).
		Order("day_of_week").Find(&rows).Error; err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"data": rows})
}

// UpdateBusinessSchedule upserts business weekly hours day by day.
//
// PUT /schedule
func UpdateBusinessSchedule(c *fiber.Ctx) error {
	tenant := middleware.Tenant(c)

	var in scheduleInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "Cannot parse JSON")
	}
	if err := validate.Struct(in); err != nil {
		return failValidation(c, err)
	}
	if err := validateDays(in.Days); err != nil {
		return fail(c, err)
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		for _, day := range in.Days {
			row := models.BusinessWorkingHour{
				BusinessID: tenant.BusinessID,
				DayOfWeek:  models.DayOfWeek(day.DayOfWeek),
				StartTime:  day.StartTime,
				EndTime:    day.EndTime,
				BreakStart: day.BreakStart,
				BreakEnd:   day.BreakEnd,
				IsClosed:   day.IsClosed,
			}
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "business_id"}, {Name: "day_of_week"}},
				UpdateAll: true,
			}).Create(&row).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

// GetStaffSchedule returns one staff member's weekly hours.
//
// GET /schedule/staff/:id
func GetStaffSchedule(c *fiber.Ctx) error {
	tenant := middleware.Tenant(c)

	staff, err := loadStaff(c, tenant)
	if err != nil {
		return fail(c, err)
	}

	var rows []models.StaffWorkingHour
	if err := db.DB.Where("business_id = ? AND staff_id = ?", tenant.BusinessID, staff.ID).
		Order("day_of_week").Find(&rows).Error; err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"data": rows})
}

// UpdateStaffSchedule replaces a staff member's weekly hours.
//
// PUT /schedule/staff/:id
func UpdateStaffSchedule(c *fiber.Ctx) error {
	tenant := middleware.Tenant(c)

	staff, err := loadStaff(c, tenant)
	if err != nil {
		return fail(c, err)
	}

	var in scheduleInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "Cannot parse JSON")
	}
	if err := validate.Struct(in); err != nil {
		return failValidation(c, err)
	}
	if err := validateDays(in.Days); err != nil {
		return fail(c, err)
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("business_id = ? AND staff_id = ?", tenant.BusinessID, staff.ID).
			Delete(&models.StaffWorkingHour{}).Error; err != nil {
			return err
		}
		for _, day := range in.Days {
			row := models.StaffWorkingHour{
				BusinessID: tenant.BusinessID,
				StaffID:    staff.ID,
				DayOfWeek:  models.DayOfWeek(day.DayOfWeek),
				StartTime:  day.StartTime,
				EndTime:    day.EndTime,
				BreakStart: day.BreakStart,
				BreakEnd:   day.BreakEnd,
				IsClosed:   day.IsClosed,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

type exceptionInput struct {
	StaffID    *uint   `json:"staff_id"`
	Date       string  `json:"date" validate:"required"`
	IsClosed   bool    `json:"is_closed"`
	StartTime  *string `json:"start_time"`
	EndTime    *string `json:"end_time"`
	BreakStart *string `json:"break_start"`
	BreakEnd   *string `json:"break_end"`
	Note       string  `json:"note" validate:"max=255"`
}

// ListExceptions: GET /schedule/exceptions
func ListExceptions(c *fiber.Ctx) error {
	tenant := middleware.Tenant(c)

	var rows []models.ScheduleException
	if err := db.DB.Where("business_id = ?", tenant.BusinessID).
		Order("date desc").Find(&rows).Error; err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"data": rows})
}

// CreateException upserts a one-date schedule override, staff-specific
// or business-wide.
//
// POST /schedule/exceptions
func CreateException(c *fiber.Ctx) error {
	tenant := middleware.Tenant(c)

	var in exceptionInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "Cannot parse JSON")
	}
	if err := validate.Struct(in); err != nil {
		return failValidation(c, err)
	}
	if _, err := utils.ParseDate(in.Date, loadLocation(tenant)); err != nil {
		return badRequest(c, "date must be formatted as YYYY-MM-DD")
	}
	if !in.IsClosed && (in.StartTime == nil || in.EndTime == nil) {
		return badRequest(c, "open exceptions need start_time and end_time")
	}

	if in.StaffID != nil {
		var staff models.User
		if err := db.DB.First(&staff, *in.StaffID).Error; err != nil || !tenant.SameBusiness(staff.BusinessID) {
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Message: "Staff not found"})
		}
	}

	exc := models.ScheduleException{
		BusinessID: tenant.BusinessID,
		StaffID:    in.StaffID,
		Date:       in.Date,
		IsClosed:   in.IsClosed,
		StartTime:  in.StartTime,
		EndTime:    in.EndTime,
		BreakStart: in.BreakStart,
		BreakEnd:   in.BreakEnd,
		Note:       in.Note,
	}

	// one exception per (staff, date): replace any previous row
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		del := tx.Where("business_id = ? AND date = ?", tenant.BusinessID, in.Date)
		if in.StaffID == nil {
			del = del.Where("staff_id IS NULL")
		} else {
			del = del.Where("staff_id = ?", *in.StaffID)
		}
		if err := del.Delete(&models.ScheduleException{}).Error; err != nil {
			return err
		}
		return tx.Create(&exc).Error
	})
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": exc})
}

// DeleteException: DELETE /schedule/exceptions/:id
func DeleteException(c *fiber.Ctx) error {
	tenant := middleware.Tenant(c)

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badRequest(c, "invalid exception id")
	}

	var exc models.ScheduleException
	if err := db.DB.First(&exc, id).Error; err != nil {
		return fail(c, err)
	}
	if !tenant.SameBusiness(exc.BusinessID) {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Message: "Not found"})
	}
	if err := db.DB.Delete(&exc).Error; err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

func validateDays(days []scheduleDayInput) error {
	for _, day := range days {
		if day.IsClosed {
			continue
		}
		if day.StartTime >= day.EndTime {
			return &scheduling.Error{Code: scheduling.CodeValidation, Field: "start_time", Message: "start_time must be before end_time"}
		}
	}
	return nil
}

func loadStaff(c *fiber.Ctx, tenant models.TenantContext) (*models.User, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return nil, gorm.ErrRecordNotFound
	}

	var staff models.User
	if err := db.DB.First(&staff, id).Error; err != nil {
		return nil, err
	}
	if !tenant.SameBusiness(staff.BusinessID) {
		return nil, gorm.ErrRecordNotFound
	}
	return &staff, nil
}

func loadLocation(tenant models.TenantContext) *time.Location {
	business, err := tenantBusiness(tenant)
	if err != nil {
		return time.UTC
	}
	return business.Location()
}
