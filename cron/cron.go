package cron

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/bookora/bookora/db"
	"github.com/bookora/bookora/models"
	"github.com/bookora/bookora/utils"
)

// Unverified public bookings older than this past their verification
// expiry are cancelled to release the slot.
const sweepGrace = 5 * time.Minute

// StartCronJobs starts the background scheduler: booking reminders and
// the unverified-booking sweeper, both once a minute.
func StartCronJobs() {
	c := cron.New()

	if _, err := c.AddFunc("* * * * *", sendBookingReminders); err != nil {
		log.Fatal().Err(err).Msg("failed to schedule reminder job")
	}
	if _, err := c.AddFunc("* * * * *", sweepUnverifiedBookings); err != nil {
		log.Fatal().Err(err).Msg("failed to schedule sweep job")
	}

	c.Start()
	log.Info().Msg("cron scheduler started")
}

// sendBookingReminders emails staff about confirmed bookings starting in
// about an hour. Businesses without the email-reminders plan feature are
// skipped.
func sendBookingReminders() {
	now := time.Now()
	startWindow := now.Add(55 * time.Minute)
	endWindow := now.Add(65 * time.Minute)

	var bookings []models.Booking
	err := db.DB.Preload("Staff").Preload("Service").
		Where("status = ? AND starts_at BETWEEN ? AND ?", models.StatusConfirmed, startWindow, endWindow).
		Find(&bookings).Error
	if err != nil {
		log.Error().Err(err).Msg("fetching bookings for reminders")
		return
	}

	enabled := map[uint]bool{}
	for _, booking := range bookings {
		allowed, seen := enabled[booking.BusinessID]
		if !seen {
			allowed = remindersEnabled(booking.BusinessID)
			enabled[booking.BusinessID] = allowed
		}
		if !allowed || booking.Staff == nil || booking.Staff.Email == "" {
			continue
		}

		if err := sendReminderEmail(&booking); err != nil {
			log.Error().Err(err).Uint("booking_id", booking.ID).Msg("sending reminder")
			continue
		}
		log.Info().Uint("booking_id", booking.ID).Str("to", booking.Staff.Email).Msg("reminder sent")
	}
}

// sweepUnverifiedBookings cancels pending public bookings whose phone
// verification window expired, freeing the slot for others.
func sweepUnverifiedBookings() {
	cutoff := time.Now().Add(-sweepGrace)

	result := db.DB.Model(&models.Booking{}).
		Where("status = ?", models.StatusPending).
		Where("phone_verification_code_hash IS NOT NULL").
		Where("phone_verified_at IS NULL").
		Where("phone_verification_expires < ?", cutoff).
		Update("status", models.StatusCancelled)
	if result.Error != nil {
		log.Error().Err(result.Error).Msg("sweeping unverified bookings")
		return
	}
	if result.RowsAffected > 0 {
		log.Info().Int64("cancelled", result.RowsAffected).Msg("swept unverified bookings")
	}
}

func remindersEnabled(businessID uint) bool {
	var sub models.Subscription
	err := db.DB.Where("business_id = ? AND status = ?", businessID, "active").First(&sub).Error
	if err != nil {
		return false
	}
	return sub.LimitsSnapshot.EmailReminders
}

func sendReminderEmail(booking *models.Booking) error {
	serviceName := ""
	if booking.Service != nil {
		serviceName = booking.Service.Name
	}

	subject := fmt.Sprintf("Upcoming booking at %s", booking.StartsAt.Format("15:04"))
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>You have a booking starting in about an hour.</p>
		<ul>
			<li><strong>Client:</strong> %s (%s)</li>
			<li><strong>Service:</strong> %s</li>
			<li><strong>Starts:</strong> %s</li>
			<li><strong>Ends:</strong> %s</li>
		</ul>
	`, booking.Staff.Name, booking.ClientName, booking.ClientPhone, serviceName,
		utils.FormatStored(booking.StartsAt), utils.FormatStored(booking.EndsAt))

	return utils.SendEmail(booking.Staff.Email, subject, body)
}
