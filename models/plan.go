package models

import (
	"time"

	"gorm.io/gorm"
)

// PlanLimits is a typed set of plan features with explicit defaults.
// Limits are flat columns, not an open JSON map consulted ad hoc.
type PlanLimits struct {
	MaxStaff       int  `json:"max_staff" gorm:"default:3"`
	MaxServices    int  `json:"max_services" gorm:"default:20"`
	MaxRooms       int  `json:"max_rooms" gorm:"default:0"`
	PublicBooking  bool `json:"public_booking" gorm:"default:true"`
	EmailReminders bool `json:"email_reminders" gorm:"default:false"`
}

type Plan struct {
	gorm.Model
	Code     string     `json:"code" gorm:"uniqueIndex"`
	Name     string     `json:"name"`
	Price    float64    `json:"price"`
	Currency string     `json:"currency" gorm:"default:AMD"`
	Limits   PlanLimits `json:"limits" gorm:"embedded;embeddedPrefix:limit_"`
	IsActive bool       `json:"is_active" gorm:"default:true"`
}

// Subscription ties a business to a plan. Limits are snapshotted at
// assignment time; editing the plan afterwards must not change what an
// already-subscribed business is entitled to.
type Subscription struct {
	gorm.Model
	BusinessID uint       `json:"business_id" gorm:"uniqueIndex"`
	PlanID     uint       `json:"plan_id"`
	Plan       *Plan      `json:"plan,omitempty" gorm:"foreignKey:PlanID"`
	Status     string     `json:"status" gorm:"default:active"`
	StartedAt  time.Time  `json:"started_at"`
	ExpiresAt  *time.Time `json:"expires_at"`

	// Snapshot of the plan limits at assignment time.
	LimitsSnapshot PlanLimits `json:"limits_snapshot" gorm:"embedded;embeddedPrefix:snap_"`
}

// AssignPlan creates or replaces the business subscription, copying the
// plan limits into the snapshot fields.
func AssignPlan(tx *gorm.DB, businessID uint, plan *Plan) (*Subscription, error) {
	sub := Subscription{
		BusinessID:     businessID,
		PlanID:         plan.ID,
		Status:         "active",
		StartedAt:      time.Now(),
		LimitsSnapshot: plan.Limits,
	}

	if err := tx.Where("business_id = ?", businessID).Delete(&Subscription{}).Error; err != nil {
		return nil, err
	}
	if err := tx.Create(&sub).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

// SeatLimit returns the maximum number of active schedulable users, from
// the snapshot taken at assignment.
func (s *Subscription) SeatLimit() int {
	return s.LimitsSnapshot.MaxStaff
}
