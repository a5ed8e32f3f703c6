package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookora/bookora/models"
	"github.com/bookora/bookora/utils"
)

func slotStarts(slots []Slot) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, utils.FormatStored(s.StartsAt))
	}
	return out
}

func TestSlotsForDayFullGrid(t *testing.T) {
	dbx := newTestDB(t)
	business, staff, service := seedSalon(t, dbx)
	eng := testEngine(dbx)

	slots, err := eng.SlotsForDay(business.ID, staff.ID, service.ID, testDate)
	require.NoError(t, err)

	// 09:00 through 17:00 on a 15-minute grid with a 60-minute service
	require.Len(t, slots, 37)
	assert.Equal(t, testDate+" 09:00:00", utils.FormatStored(slots[0].StartsAt))
	assert.Equal(t, testDate+" 10:00:00", utils.FormatStored(slots[0].EndsAt))
	assert.Equal(t, testDate+" 17:00:00", utils.FormatStored(slots[36].StartsAt))
	assert.Equal(t, testDate+" 18:00:00", utils.FormatStored(slots[36].EndsAt))
}

func TestSlotsForDaySkipsBookedInterval(t *testing.T) {
	dbx := newTestDB(t)
	business, staff, service := seedSalon(t, dbx)
	seedBooking(t, dbx, business, staff, service,
		testDate+" 10:00", testDate+" 11:00", models.StatusConfirmed)
	eng := testEngine(dbx)

	slots, err := eng.SlotsForDay(business.ID, staff.ID, service.ID, testDate)
	require.NoError(t, err)

	starts := slotStarts(slots)
	assert.Contains(t, starts, testDate+" 09:00:00")
	assert.Contains(t, starts, testDate+" 11:00:00")
	for _, s := range []string{"09:15", "09:30", "09:45", "10:00", "10:15", "10:30", "10:45"} {
		assert.NotContains(t, starts, testDate+" "+s+":00")
	}
	assert.Len(t, slots, 30)
}

func TestSlotsForDayCancelledBookingFreesSlot(t *testing.T) {
	dbx := newTestDB(t)
	business, staff, service := seedSalon(t, dbx)
	seedBooking(t, dbx, business, staff, service,
		testDate+" 10:00", testDate+" 11:00", models.StatusCancelled)
	eng := testEngine(dbx)

	slots, err := eng.SlotsForDay(business.ID, staff.ID, service.ID, testDate)
	require.NoError(t, err)
	assert.Len(t, slots, 37)
}

func TestSlotsForDayBusinessWideBlock(t *testing.T) {
	dbx := newTestDB(t)
	business, staff, service := seedSalon(t, dbx)
	_, err := CreateBlock(dbx, ownerContext(business), nil,
		ts(t, testDate+" 12:00"), ts(t, testDate+" 13:00"), "lunch meeting")
	require.NoError(t, err)
	eng := testEngine(dbx)

	slots, err := eng.SlotsForDay(business.ID, staff.ID, service.ID, testDate)
	require.NoError(t, err)

	starts := slotStarts(slots)
	assert.Contains(t, starts, testDate+" 11:00:00")
	assert.Contains(t, starts, testDate+" 13:00:00")
	for _, s := range []string{"11:15", "11:45", "12:00", "12:45"} {
		assert.NotContains(t, starts, testDate+" "+s+":00")
	}
	assert.Len(t, slots, 30)
}

func TestSlotsForDayBreakBehavesLikeBlock(t *testing.T) {
	dbx := newTestDB(t)
	business, staff, service := seedSalon(t, dbx)
	breakStart, breakEnd := "13:00", "14:00"
	require.NoError(t, dbx.Create(&models.BusinessWorkingHour{
		BusinessID: business.ID,
		DayOfWeek:  models.Thursday,
		StartTime:  "09:00",
		EndTime:    "18:00",
		BreakStart: &breakStart,
		BreakEnd:   &breakEnd,
	}).Error)
	eng := testEngine(dbx)

	slots, err := eng.SlotsForDay(business.ID, staff.ID, service.ID, testDate)
	require.NoError(t, err)

	starts := slotStarts(slots)
	assert.Contains(t, starts, testDate+" 12:00:00")
	assert.Contains(t, starts, testDate+" 14:00:00")
	for _, s := range []string{"12:15", "13:00", "13:45"} {
		assert.NotContains(t, starts, testDate+" "+s+":00")
	}
	assert.Len(t, slots, 30)
}

func TestSlotsForDayLeadTimeToday(t *testing.T) {
	dbx := newTestDB(t)
	business, staff, service := seedSalon(t, dbx)
	eng := &Engine{DB: dbx, Now: func() time.Time {
		return time.Date(2026, 9, 10, 10, 0, 0, 0, time.UTC)
	}}

	slots, err := eng.SlotsForDay(business.ID, staff.ID, service.ID, testDate)
	require.NoError(t, err)

	require.NotEmpty(t, slots)
	// 10:00 and earlier fall inside the 5-minute lead buffer
	assert.Equal(t, testDate+" 10:15:00", utils.FormatStored(slots[0].StartsAt))
}

func TestSlotsForDayEmptyOnInvalidRefs(t *testing.T) {
	dbx := newTestDB(t)
	business, staff, service := seedSalon(t, dbx)
	eng := testEngine(dbx)

	t.Run("unknown service", func(t *testing.T) {
		slots, err := eng.SlotsForDay(business.ID, staff.ID, 9999, testDate)
		require.NoError(t, err)
		assert.Empty(t, slots)
	})

	t.Run("foreign staff", func(t *testing.T) {
		other := models.User{Name: "Nare", Email: "nare@other.test", Role: models.RoleStaff, BusinessID: business.ID + 100, IsActive: true}
		require.NoError(t, dbx.Create(&other).Error)

		slots, err := eng.SlotsForDay(business.ID, other.ID, service.ID, testDate)
		require.NoError(t, err)
		assert.Empty(t, slots)
	})

	t.Run("inactive staff", func(t *testing.T) {
		require.NoError(t, dbx.Model(staff).Update("is_active", false).Error)
		defer dbx.Model(staff).Update("is_active", true)

		slots, err := eng.SlotsForDay(business.ID, staff.ID, service.ID, testDate)
		require.NoError(t, err)
		assert.Empty(t, slots)
	})

	t.Run("malformed date", func(t *testing.T) {
		slots, err := eng.SlotsForDay(business.ID, staff.ID, service.ID, "10-09-2026")
		require.NoError(t, err)
		assert.Empty(t, slots)
	})

	t.Run("out of range duration", func(t *testing.T) {
		long := models.Service{BusinessID: business.ID, Name: "Marathon", DurationMinutes: 700, IsActive: true}
		require.NoError(t, dbx.Create(&long).Error)

		slots, err := eng.SlotsForDay(business.ID, staff.ID, long.ID, testDate)
		require.NoError(t, err)
		assert.Empty(t, slots)
	})
}

func TestSlotsForDayClinicAnnotatesRooms(t *testing.T) {
	dbx := newTestDB(t)
	business, staff, service := seedSalon(t, dbx)
	require.NoError(t, dbx.Model(business).Update("business_type", models.TypeClinic).Error)

	room := models.Room{BusinessID: business.ID, Name: "Cabinet 1", Type: "exam", IsActive: true}
	require.NoError(t, dbx.Create(&room).Error)

	eng := testEngine(dbx)
	slots, err := eng.SlotsForDay(business.ID, staff.ID, service.ID, testDate)
	require.NoError(t, err)

	require.NotEmpty(t, slots)
	require.Len(t, slots[0].AvailableRooms, 1)
	assert.Equal(t, room.ID, slots[0].AvailableRooms[0].ID)
	assert.Equal(t, "Cabinet 1", slots[0].AvailableRooms[0].Name)
}
