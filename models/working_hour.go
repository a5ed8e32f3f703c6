package models

import (
	"gorm.io/gorm"
)

type DayOfWeek int

const (
	Sunday DayOfWeek = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

// BusinessWorkingHour is the business-level weekly schedule: one row per
// weekday. Used as the fallback window when a staff member has no weekly
// schedule of their own.
type BusinessWorkingHour struct {
	gorm.Model
	BusinessID uint      `json:"business_id" gorm:"index:idx_biz_weekday,unique"`
	DayOfWeek  DayOfWeek `json:"day_of_week" gorm:"index:idx_biz_weekday,unique"`
	StartTime  string    `json:"start_time"` // "HH:MM" in 24h
	EndTime    string    `json:"end_time"`
	BreakStart *string   `json:"break_start"`
	BreakEnd   *string   `json:"break_end"`
	IsClosed   bool      `json:"is_closed"`
}

// StaffWorkingHour is the per-staff weekly schedule. Absence of a row for
// a weekday means the staff member does not work that day (when any rows
// exist for them at all).
type StaffWorkingHour struct {
	gorm.Model
	BusinessID uint      `json:"business_id" gorm:"index:idx_staff_weekday,unique"`
	StaffID    uint      `json:"staff_id" gorm:"index:idx_staff_weekday,unique"`
	DayOfWeek  DayOfWeek `json:"day_of_week" gorm:"index:idx_staff_weekday,unique"`
	StartTime  string    `json:"start_time"`
	EndTime    string    `json:"end_time"`
	BreakStart *string   `json:"break_start"`
	BreakEnd   *string   `json:"break_end"`
	IsClosed   bool      `json:"is_closed"`
}
