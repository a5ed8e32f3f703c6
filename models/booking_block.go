package models

import (
	"time"

	"gorm.io/gorm"
)

// MaxBlockSpanDays caps a single block; longer closures go through
// schedule exceptions instead.
const MaxBlockSpanDays = 14

// BookingBlock is an ad-hoc closed interval (break, day off), independent
// of the weekly schedule. StaffID nil blocks every staff member.
type BookingBlock struct {
	gorm.Model
	BusinessID uint      `json:"business_id" gorm:"index"`
	StaffID    *uint     `json:"staff_id"`
	StartsAt   time.Time `json:"starts_at"`
	EndsAt     time.Time `json:"ends_at"`
	Reason     string    `json:"reason"`
}
