package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusDone      BookingStatus = "done"
	StatusCancelled BookingStatus = "cancelled"
)

type Booking struct {
	gorm.Model
	BusinessID uint      `json:"business_id" gorm:"index"`
	Business   *Business `json:"business,omitempty" gorm:"foreignKey:BusinessID"`
	ServiceID  uint      `json:"service_id"`
	Service    *Service  `json:"service,omitempty" gorm:"foreignKey:ServiceID"`
	StaffID    uint      `json:"staff_id" gorm:"index"`
	Staff      *User     `json:"staff,omitempty" gorm:"foreignKey:StaffID"`
	ClientID   *uint     `json:"client_id"`
	Client     *Client   `json:"client,omitempty" gorm:"foreignKey:ClientID"`
	RoomID     *uint     `json:"room_id"`
	Room       *Room     `json:"room,omitempty" gorm:"foreignKey:RoomID"`

	ClientName  string `json:"client_name"`
	ClientPhone string `json:"client_phone"`
	Notes       string `json:"notes"`

	StartsAt time.Time     `json:"starts_at" gorm:"index"`
	EndsAt   time.Time     `json:"ends_at"`
	Status   BookingStatus `json:"status" gorm:"default:pending"`

	BookingCode string `json:"booking_code" gorm:"uniqueIndex"`

	// Price snapshot taken at creation; later service price changes do
	// not alter existing bookings.
	FinalPrice float64 `json:"final_price"`
	Currency   string  `json:"currency"`

	// Phone verification for anonymous public bookings. A booking with a
	// non-nil code hash and nil VerifiedAt is hidden from staff listings.
	PhoneVerificationCodeHash *string    `json:"-"`
	PhoneVerificationExpires  *time.Time `json:"phone_verification_expires_at,omitempty"`
	PhoneVerifiedAt           *time.Time `json:"phone_verified_at,omitempty"`
	PhoneVerificationAttempts int        `json:"-"`
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.Status == "" {
		b.Status = StatusPending
	}
	return nil
}

// IsVerified reports whether the booking is visible to staff listings.
// Staff-created bookings carry no verification hash and are always visible.
func (b *Booking) IsVerified() bool {
	return b.PhoneVerificationCodeHash == nil || b.PhoneVerifiedAt != nil
}

// ConsumeVerificationAttempt reserves one phone verification attempt
// with a single conditional update, so concurrent requests cannot slip
// past the cap between a read and a write. Returns false once max
// attempts are spent.
func (b *Booking) ConsumeVerificationAttempt(tx *gorm.DB, max int) (bool, error) {
	res := tx.Model(&Booking{}).
		Where("id = ? AND phone_verification_attempts < ?", b.ID, max).
		Update("phone_verification_attempts", gorm.Expr("phone_verification_attempts + 1"))
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	b.PhoneVerificationAttempts++
	return true, nil
}

// Transition moves the booking through its status state machine and
// persists the change. done and cancelled are terminal.
func (b *Booking) Transition(tx *gorm.DB, newStatus BookingStatus) error {
	switch b.Status {
	case StatusPending:
		if newStatus != StatusConfirmed && newStatus != StatusCancelled {
			return fmt.Errorf("invalid transition from pending to %s", newStatus)
		}
	case StatusConfirmed:
		if newStatus != StatusDone && newStatus != StatusCancelled {
			return fmt.Errorf("invalid transition from confirmed to %s", newStatus)
		}
	case StatusDone, StatusCancelled:
		return fmt.Errorf("no transitions allowed from %s", b.Status)
	}

	b.Status = newStatus
	return tx.Model(b).Update("status", newStatus).Error
}
