package models

import (
	"gorm.io/gorm"
)

// Room is a clinic-only resource. Slot listing annotates free rooms but
// room assignment stays optimistic; only staff overlap is a hard
// constraint at booking time.
type Room struct {
	gorm.Model
	BusinessID uint   `json:"business_id" gorm:"index"`
	Name       string `json:"name"`
	Type       string `json:"type"`
	IsActive   bool   `json:"is_active" gorm:"default:true"`
}
