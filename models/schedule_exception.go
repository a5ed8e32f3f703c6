package models

import (
	"gorm.io/gorm"
)

// ScheduleException overrides the weekly schedule for one calendar date.
// StaffID nil means the override applies business-wide. A staff-specific
// exception wins over a business-wide one.
type ScheduleException struct {
	gorm.Model
	BusinessID uint    `json:"business_id" gorm:"index:idx_exc_lookup"`
	StaffID    *uint   `json:"staff_id" gorm:"index:idx_exc_lookup"`
	Date       string  `json:"date" gorm:"index:idx_exc_lookup"` // "YYYY-MM-DD"
	IsClosed   bool    `json:"is_closed"`
	StartTime  *string `json:"start_time"` // "HH:MM", nil when closed
	EndTime    *string `json:"end_time"`
	BreakStart *string `json:"break_start"`
	BreakEnd   *string `json:"break_end"`
	Note       string  `json:"note"`
}
