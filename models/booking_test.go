package models

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func bookingTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dbx, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := dbx.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, dbx.AutoMigrate(&Booking{}))
	return dbx
}

var bookingCodeSeq int

func newBooking(t *testing.T, dbx *gorm.DB, status BookingStatus) *Booking {
	t.Helper()
	bookingCodeSeq++
	b := Booking{
		BusinessID:  1,
		ServiceID:   1,
		StaffID:     1,
		StartsAt:    time.Date(2026, 9, 10, 10, 0, 0, 0, time.UTC),
		EndsAt:      time.Date(2026, 9, 10, 11, 0, 0, 0, time.UTC),
		Status:      status,
		BookingCode: fmt.Sprintf("BK-TEST%04d", bookingCodeSeq),
	}
	require.NoError(t, dbx.Create(&b).Error)
	return &b
}

func TestBookingTransitions(t *testing.T) {
	dbx := bookingTestDB(t)

	t.Run("pending to confirmed", func(t *testing.T) {
		b := newBooking(t, dbx, StatusPending)
		require.NoError(t, b.Transition(dbx, StatusConfirmed))

		var stored Booking
		require.NoError(t, dbx.First(&stored, b.ID).Error)
		assert.Equal(t, StatusConfirmed, stored.Status)
	})

	t.Run("pending to cancelled", func(t *testing.T) {
		b := newBooking(t, dbx, StatusPending)
		assert.NoError(t, b.Transition(dbx, StatusCancelled))
	})

	t.Run("pending cannot complete", func(t *testing.T) {
		b := newBooking(t, dbx, StatusPending)
		assert.Error(t, b.Transition(dbx, StatusDone))
	})

	t.Run("confirmed to done", func(t *testing.T) {
		b := newBooking(t, dbx, StatusConfirmed)
		assert.NoError(t, b.Transition(dbx, StatusDone))
	})

	t.Run("done is terminal", func(t *testing.T) {
		b := newBooking(t, dbx, StatusDone)
		assert.Error(t, b.Transition(dbx, StatusCancelled))
		assert.Error(t, b.Transition(dbx, StatusConfirmed))
	})

	t.Run("cancelled is terminal", func(t *testing.T) {
		b := newBooking(t, dbx, StatusCancelled)
		assert.Error(t, b.Transition(dbx, StatusConfirmed))
	})
}

func TestBookingDefaultsToPending(t *testing.T) {
	dbx := bookingTestDB(t)

	b := Booking{BusinessID: 1, ServiceID: 1, StaffID: 1, BookingCode: "BK-DEFAULT1"}
	require.NoError(t, dbx.Create(&b).Error)
	assert.Equal(t, StatusPending, b.Status)
}

func TestConsumeVerificationAttempt(t *testing.T) {
	dbx := bookingTestDB(t)
	b := newBooking(t, dbx, StatusPending)

	for i := 0; i < 5; i++ {
		ok, err := b.ConsumeVerificationAttempt(dbx, 5)
		require.NoError(t, err)
		assert.True(t, ok, "attempt %d should be granted", i+1)
	}

	// the cap holds no matter how many more callers race in
	for i := 0; i < 3; i++ {
		ok, err := b.ConsumeVerificationAttempt(dbx, 5)
		require.NoError(t, err)
		assert.False(t, ok)
	}

	var stored Booking
	require.NoError(t, dbx.First(&stored, b.ID).Error)
	assert.Equal(t, 5, stored.PhoneVerificationAttempts)
}

func TestBookingIsVerified(t *testing.T) {
	hash := "$2a$10$hash"
	now := time.Now()

	staffMade := Booking{}
	assert.True(t, staffMade.IsVerified())

	awaiting := Booking{PhoneVerificationCodeHash: &hash}
	assert.False(t, awaiting.IsVerified())

	verified := Booking{PhoneVerificationCodeHash: &hash, PhoneVerifiedAt: &now}
	assert.True(t, verified.IsVerified())
}
