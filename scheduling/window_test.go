package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookora/bookora/models"
	"github.com/bookora/bookora/utils"
)

func windowDay(t *testing.T) time.Time {
	t.Helper()
	day, err := utils.ParseDate(testDate, time.UTC)
	require.NoError(t, err)
	return day
}

func TestEffectiveWindowFallbackHours(t *testing.T) {
	dbx := newTestDB(t)
	business, staff, _ := seedSalon(t, dbx)

	w, err := EffectiveWindow(dbx, business, staff.ID, windowDay(t))
	require.NoError(t, err)

	assert.False(t, w.Closed)
	assert.Equal(t, testDate+" 09:00:00", utils.FormatStored(w.Start))
	assert.Equal(t, testDate+" 18:00:00", utils.FormatStored(w.End))
}

func TestEffectiveWindowBusinessWeeklyOverridesFallback(t *testing.T) {
	dbx := newTestDB(t)
	business, staff, _ := seedSalon(t, dbx)
	require.NoError(t, dbx.Create(&models.BusinessWorkingHour{
		BusinessID: business.ID,
		DayOfWeek:  models.Thursday,
		StartTime:  "10:00",
		EndTime:    "16:00",
	}).Error)

	w, err := EffectiveWindow(dbx, business, staff.ID, windowDay(t))
	require.NoError(t, err)

	assert.Equal(t, testDate+" 10:00:00", utils.FormatStored(w.Start))
	assert.Equal(t, testDate+" 16:00:00", utils.FormatStored(w.End))
}

func TestEffectiveWindowStaffWeeklyWinsOverBusiness(t *testing.T) {
	dbx := newTestDB(t)
	business, staff, _ := seedSalon(t, dbx)
	require.NoError(t, dbx.Create(&models.BusinessWorkingHour{
		BusinessID: business.ID,
		DayOfWeek:  models.Thursday,
		StartTime:  "10:00",
		EndTime:    "16:00",
	}).Error)
	require.NoError(t, dbx.Create(&models.StaffWorkingHour{
		BusinessID: business.ID,
		StaffID:    staff.ID,
		DayOfWeek:  models.Thursday,
		StartTime:  "11:00",
		EndTime:    "15:00",
	}).Error)

	w, err := EffectiveWindow(dbx, business, staff.ID, windowDay(t))
	require.NoError(t, err)

	assert.Equal(t, testDate+" 11:00:00", utils.FormatStored(w.Start))
	assert.Equal(t, testDate+" 15:00:00", utils.FormatStored(w.End))
}

func TestEffectiveWindowStaffScheduleMissingWeekdayMeansClosed(t *testing.T) {
	dbx := newTestDB(t)
	business, staff, _ := seedSalon(t, dbx)
	// staff works Mondays only; testDate is a Thursday
	require.NoError(t, dbx.Create(&models.StaffWorkingHour{
		BusinessID: business.ID,
		StaffID:    staff.ID,
		DayOfWeek:  models.Monday,
		StartTime:  "09:00",
		EndTime:    "18:00",
	}).Error)

	w, err := EffectiveWindow(dbx, business, staff.ID, windowDay(t))
	require.NoError(t, err)
	assert.True(t, w.Closed)
}

func TestEffectiveWindowBusinessExceptionOverridesWeekly(t *testing.T) {
	dbx := newTestDB(t)
	business, staff, _ := seedSalon(t, dbx)
	require.NoError(t, dbx.Create(&models.StaffWorkingHour{
		BusinessID: business.ID,
		StaffID:    staff.ID,
		DayOfWeek:  models.Thursday,
		StartTime:  "09:00",
		EndTime:    "18:00",
	}).Error)
	start, end := "12:00", "14:00"
	require.NoError(t, dbx.Create(&models.ScheduleException{
		BusinessID: business.ID,
		Date:       testDate,
		StartTime:  &start,
		EndTime:    &end,
		Note:       "inventory day",
	}).Error)

	w, err := EffectiveWindow(dbx, business, staff.ID, windowDay(t))
	require.NoError(t, err)

	assert.Equal(t, testDate+" 12:00:00", utils.FormatStored(w.Start))
	assert.Equal(t, testDate+" 14:00:00", utils.FormatStored(w.End))
}

func TestEffectiveWindowStaffExceptionWinsOverBusinessException(t *testing.T) {
	dbx := newTestDB(t)
	business, staff, _ := seedSalon(t, dbx)
	start, end := "12:00", "14:00"
	require.NoError(t, dbx.Create(&models.ScheduleException{
		BusinessID: business.ID,
		Date:       testDate,
		StartTime:  &start,
		EndTime:    &end,
	}).Error)
	require.NoError(t, dbx.Create(&models.ScheduleException{
		BusinessID: business.ID,
		StaffID:    &staff.ID,
		Date:       testDate,
		IsClosed:   true,
		Note:       "day off",
	}).Error)

	w, err := EffectiveWindow(dbx, business, staff.ID, windowDay(t))
	require.NoError(t, err)
	assert.True(t, w.Closed)
}

func TestEffectiveWindowOvernightWraps(t *testing.T) {
	dbx := newTestDB(t)
	business, staff, _ := seedSalon(t, dbx)
	require.NoError(t, dbx.Model(business).Updates(map[string]interface{}{
		"work_start": "18:00",
		"work_end":   "02:00",
	}).Error)
	require.NoError(t, dbx.First(business, business.ID).Error)

	w, err := EffectiveWindow(dbx, business, staff.ID, windowDay(t))
	require.NoError(t, err)

	assert.Equal(t, testDate+" 18:00:00", utils.FormatStored(w.Start))
	assert.Equal(t, "2026-09-11 02:00:00", utils.FormatStored(w.End))
}

func TestEffectiveWindowForeignStaff(t *testing.T) {
	dbx := newTestDB(t)
	business, _, _ := seedSalon(t, dbx)
	other := models.User{Name: "Vahe", Email: "vahe@other.test", Role: models.RoleStaff, BusinessID: business.ID + 7, IsActive: true}
	require.NoError(t, dbx.Create(&other).Error)

	_, err := EffectiveWindow(dbx, business, other.ID, windowDay(t))
	require.Error(t, err)

	de, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, CodeTenantMismatch, de.Code)
}

func TestWindowContains(t *testing.T) {
	bs := ts(t, testDate+" 13:00")
	be := ts(t, testDate+" 14:00")
	w := Window{
		Start:      ts(t, testDate+" 09:00"),
		End:        ts(t, testDate+" 18:00"),
		BreakStart: &bs,
		BreakEnd:   &be,
	}

	assert.True(t, w.Contains(ts(t, testDate+" 09:00"), ts(t, testDate+" 10:00")))
	assert.True(t, w.Contains(ts(t, testDate+" 17:00"), ts(t, testDate+" 18:00")))
	// touching the break is fine, overlapping it is not
	assert.True(t, w.Contains(ts(t, testDate+" 12:00"), ts(t, testDate+" 13:00")))
	assert.True(t, w.Contains(ts(t, testDate+" 14:00"), ts(t, testDate+" 15:00")))
	assert.False(t, w.Contains(ts(t, testDate+" 12:30"), ts(t, testDate+" 13:30")))
	assert.False(t, w.Contains(ts(t, testDate+" 08:00"), ts(t, testDate+" 09:30")))
	assert.False(t, w.Contains(ts(t, testDate+" 17:30"), ts(t, testDate+" 18:30")))
	assert.False(t, closedWindow.Contains(ts(t, testDate+" 10:00"), ts(t, testDate+" 11:00")))
}
