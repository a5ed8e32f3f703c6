package models

import (
	"gorm.io/gorm"
)

const (
	// Allowed range for a service duration in minutes.
	MinServiceDuration = 5
	MaxServiceDuration = 600
)

type Service struct {
	gorm.Model
	BusinessID      uint      `json:"business_id" gorm:"index"`
	Business        *Business `json:"business,omitempty" gorm:"foreignKey:BusinessID"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	DurationMinutes int       `json:"duration_minutes"`
	Price           float64   `json:"price"`
	Currency        string    `json:"currency" gorm:"default:AMD"`
	IsActive        bool      `json:"is_active" gorm:"default:true"`
}

// HasValidDuration reports whether the duration falls inside the allowed
// range. Out-of-range services yield no bookable slots.
func (s *Service) HasValidDuration() bool {
	return s.DurationMinutes >= MinServiceDuration && s.DurationMinutes <= MaxServiceDuration
}
