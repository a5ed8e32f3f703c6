package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/bookora/bookora/models"
	"github.com/bookora/bookora/utils"
)

// Test fixtures run on in-memory SQLite; the ability to do so is why
// the conflict guard gates FOR UPDATE on the dialect.

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dbx, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := dbx.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, dbx.AutoMigrate(
		&models.Business{},
		&models.User{},
		&models.Service{},
		&models.Client{},
		&models.Room{},
		&models.Booking{},
		&models.BookingBlock{},
		&models.BusinessWorkingHour{},
		&models.StaffWorkingHour{},
		&models.ScheduleException{},
	))
	return dbx
}

// seedSalon creates a business with default 09:00-18:00 hours and a
// 15-minute grid, one schedulable staff member and one 60-minute service.
func seedSalon(t *testing.T, dbx *gorm.DB) (*models.Business, *models.User, *models.Service) {
	t.Helper()

	business := models.Business{
		Name:            "Cut & Go",
		Slug:            "cut-and-go",
		BusinessType:    models.TypeSalon,
		WorkStart:       "09:00",
		WorkEnd:         "18:00",
		SlotStepMinutes: 15,
		Timezone:        "UTC",
	}
	require.NoError(t, dbx.Create(&business).Error)

	staff := models.User{
		Name:       "Ani",
		Email:      "ani@cutandgo.test",
		Role:       models.RoleStaff,
		BusinessID: business.ID,
		IsActive:   true,
	}
	require.NoError(t, dbx.Create(&staff).Error)

	service := models.Service{
		BusinessID:      business.ID,
		Name:            "Haircut",
		DurationMinutes: 60,
		Price:           5000,
		Currency:        "AMD",
		IsActive:        true,
	}
	require.NoError(t, dbx.Create(&service).Error)

	return &business, &staff, &service
}

// testEngine returns an engine with a pinned clock well before testDate,
// so the lead-time filter stays out of the way unless a test moves Now.
func testEngine(dbx *gorm.DB) *Engine {
	return &Engine{DB: dbx, Now: func() time.Time {
		return time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	}}
}

// testDate is a Thursday.
const testDate = "2026-09-10"

func ts(t *testing.T, s string) time.Time {
	t.Helper()
	v, err := utils.ParseDateTime(s, time.UTC)
	require.NoError(t, err)
	return v
}

func ownerContext(business *models.Business) models.TenantContext {
	return models.TenantContext{UserID: 999, BusinessID: business.ID, Role: models.RoleOwner}
}

func seedBooking(t *testing.T, dbx *gorm.DB, business *models.Business, staff *models.User, service *models.Service, start, end string, status models.BookingStatus) *models.Booking {
	t.Helper()

	booking := models.Booking{
		BusinessID:  business.ID,
		ServiceID:   service.ID,
		StaffID:     staff.ID,
		ClientName:  "Walk-in",
		StartsAt:    ts(t, start),
		EndsAt:      ts(t, end),
		Status:      status,
		BookingCode: utils.GenerateBookingCode(),
	}
	require.NoError(t, dbx.Create(&booking).Error)
	return &booking
}
