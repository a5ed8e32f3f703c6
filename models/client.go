package models

import (
	"gorm.io/gorm"
)

// Client is a per-business customer record keyed by normalized phone.
// Public bookings upsert one on first contact.
type Client struct {
	gorm.Model
	BusinessID uint   `json:"business_id" gorm:"index"`
	Name       string `json:"name"`
	Phone      string `json:"phone" gorm:"index"`
	Notes      string `json:"notes"`
}
