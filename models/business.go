package models

import (
	"time"

	"gorm.io/gorm"
)

type BusinessType string

const (
	TypeSalon  BusinessType = "salon"
	TypeClinic BusinessType = "clinic"
)

type Business struct {
	gorm.Model
	Name            string       `json:"name"`
	Slug            string       `json:"slug" gorm:"uniqueIndex"`
	BusinessType    BusinessType `json:"business_type" gorm:"default:salon"`
	Phone           string       `json:"phone"`
	Address         string       `json:"address"`
	WorkStart       string       `json:"work_start" gorm:"default:09:00"` // "HH:MM", fallback daily hours
	WorkEnd         string       `json:"work_end" gorm:"default:18:00"`
	SlotStepMinutes int          `json:"slot_step_minutes" gorm:"default:15"`
	Timezone        string       `json:"timezone" gorm:"default:UTC"`

	Users    []User    `json:"users,omitempty" gorm:"foreignKey:BusinessID"`
	Services []Service `json:"services,omitempty" gorm:"foreignKey:BusinessID"`
	Rooms    []Room    `json:"rooms,omitempty" gorm:"foreignKey:BusinessID"`
}

func (b *Business) IsClinic() bool {
	return b.BusinessType == TypeClinic
}

// Location resolves the business timezone, falling back to UTC when the
// stored name is empty or unknown.
func (b *Business) Location() *time.Location {
	if b.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(b.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// SlotStep returns the slot granularity clamped to [5,60] minutes.
func (b *Business) SlotStep() int {
	step := b.SlotStepMinutes
	if step < 5 {
		step = 5
	}
	if step > 60 {
		step = 60
	}
	return step
}
