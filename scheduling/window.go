package scheduling

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/bookora/bookora/models"
	"github.com/bookora/bookora/utils"
)

// Window is the effective working interval of one staff member on one
// calendar date, with an optional break carved out of it.
type Window struct {
	Start      time.Time
	End        time.Time
	BreakStart *time.Time
	BreakEnd   *time.Time
	Closed     bool
}

var closedWindow = Window{Closed: true}

// HasBreak reports whether the window carries a break interval.
func (w Window) HasBreak() bool {
	return w.BreakStart != nil && w.BreakEnd != nil
}

// Contains reports whether [start,end) fits inside the window without
// touching the break. Breaks behave like implicit blocks.
func (w Window) Contains(start, end time.Time) bool {
	if w.Closed {
		return false
	}
	if start.Before(w.Start) || end.After(w.End) {
		return false
	}
	if w.HasBreak() && utils.Overlaps(start, end, *w.BreakStart, *w.BreakEnd) {
		return false
	}
	return true
}

// EffectiveWindow resolves the working window for a staff member on a
// date. Resolution order: staff-specific exception, business-wide
// exception, staff weekly row, business weekly row (only when the staff
// member has no weekly schedule at all), business fallback daily hours.
func EffectiveWindow(dbx *gorm.DB, business *models.Business, staffID uint, date time.Time) (Window, error) {
	var staff models.User
	if err := dbx.First(&staff, staffID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return closedWindow, ErrTenantMismatch("staff_id")
		}
		return closedWindow, err
	}
	if staff.BusinessID != business.ID {
		return closedWindow, ErrTenantMismatch("staff_id")
	}

	loc := business.Location()
	dateStr := date.In(loc).Format(utils.DateFormat)

	// (a) staff-specific exception for this date
	var exc models.ScheduleException
	err := dbx.Where("business_id = ? AND staff_id = ? AND date = ?", business.ID, staffID, dateStr).
		First(&exc).Error
	if err == nil {
		return windowFromException(&exc, date, loc)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return closedWindow, err
	}

	// (b) business-wide exception for this date
	err = dbx.Where("business_id = ? AND staff_id IS NULL AND date = ?", business.ID, dateStr).
		First(&exc).Error
	if err == nil {
		return windowFromException(&exc, date, loc)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return closedWindow, err
	}

	dow := models.DayOfWeek(date.In(loc).Weekday())

	// (c) staff weekly schedule
	var staffRows int64
	if err := dbx.Model(&models.StaffWorkingHour{}).
		Where("business_id = ? AND staff_id = ?", business.ID, staffID).
		Count(&staffRows).Error; err != nil {
		return closedWindow, err
	}
	if staffRows > 0 {
		var row models.StaffWorkingHour
		err := dbx.Where("business_id = ? AND staff_id = ? AND day_of_week = ?", business.ID, staffID, dow).
			First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return closedWindow, nil // not working this weekday
		}
		if err != nil {
			return closedWindow, err
		}
		if row.IsClosed {
			return closedWindow, nil
		}
		return buildWindow(date, row.StartTime, row.EndTime, row.BreakStart, row.BreakEnd, loc)
	}

	// (d) business weekly schedule
	var bizRow models.BusinessWorkingHour
	err = dbx.Where("business_id = ? AND day_of_week = ?", business.ID, dow).
		First(&bizRow).Error
	if err == nil {
		if bizRow.IsClosed {
			return closedWindow, nil
		}
		return buildWindow(date, bizRow.StartTime, bizRow.EndTime, bizRow.BreakStart, bizRow.BreakEnd, loc)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return closedWindow, err
	}

	// (e) business-level fallback daily hours
	workStart, workEnd := business.WorkStart, business.WorkEnd
	if workStart == "" {
		workStart = "09:00"
	}
	if workEnd == "" {
		workEnd = "18:00"
	}
	return buildWindow(date, workStart, workEnd, nil, nil, loc)
}

func windowFromException(exc *models.ScheduleException, date time.Time, loc *time.Location) (Window, error) {
	if exc.IsClosed || exc.StartTime == nil || exc.EndTime == nil {
		return closedWindow, nil
	}
	return buildWindow(date, *exc.StartTime, *exc.EndTime, exc.BreakStart, exc.BreakEnd, loc)
}

func buildWindow(date time.Time, start, end string, breakStart, breakEnd *string, loc *time.Location) (Window, error) {
	ws, err := utils.OnDate(date, start, loc)
	if err != nil {
		return closedWindow, err
	}
	we, err := utils.OnDate(date, end, loc)
	if err != nil {
		return closedWindow, err
	}
	// overnight windows wrap to the next day
	if !we.After(ws) {
		we = we.AddDate(0, 0, 1)
	}

	w := Window{Start: ws, End: we}

	if breakStart != nil && breakEnd != nil {
		bs, err := utils.OnDate(date, *breakStart, loc)
		if err != nil {
			return closedWindow, err
		}
		be, err := utils.OnDate(date, *breakEnd, loc)
		if err != nil {
			return closedWindow, err
		}
		if be.After(bs) {
			w.BreakStart, w.BreakEnd = &bs, &be
		}
	}

	return w, nil
}
