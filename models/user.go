package models

import (
	"time"
)

type User struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Name       string    `json:"name"`
	Email      string    `json:"email" gorm:"unique"`
	Password   string    `json:"password,omitempty"`
	Role       Role      `json:"role" gorm:"default:staff"`
	BusinessID uint      `json:"business_id" gorm:"index"`
	Business   *Business `json:"business,omitempty" gorm:"foreignKey:BusinessID"`
	IsActive   bool      `json:"is_active" gorm:"default:true"`

	WorkingHours  []StaffWorkingHour `json:"working_hours,omitempty" gorm:"foreignKey:StaffID"`
	StaffBookings []Booking          `json:"staff_bookings,omitempty" gorm:"foreignKey:StaffID"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Schedulable staff roles: anyone who can be the assigned staff of a
// booking. Super admins have no business and are never schedulable.
var StaffRoles = []Role{RoleOwner, RoleManager, RoleStaff}

func (u *User) IsSchedulable() bool {
	if !u.IsActive {
		return false
	}
	for _, r := range StaffRoles {
		if u.Role == r {
			return true
		}
	}
	return false
}
