package utils

import (
	"os"
	"strconv"

	"github.com/rs/zerolog/log"
	"gopkg.in/gomail.v2"
)

// SendEmail delivers a single HTML email through the configured SMTP
// relay. Delivery failures are the caller's problem; nothing is retried.
func SendEmail(to, subject, body string) error {
	port, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))

	m := gomail.NewMessage()
	m.SetHeader("From", os.Getenv("EMAIL_USER"))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(
		os.Getenv("SMTP_HOST"),
		port,
		os.Getenv("EMAIL_USER"),
		os.Getenv("EMAIL_PASS"),
	)

	return d.DialAndSend(m)
}

// NotifyVerificationCode emits the "verification code issued" event.
// SMS delivery is not wired; the code goes to the business inbox relay
// and the log in development.
func NotifyVerificationCode(phone, code string, minutes int) {
	log.Info().
		Str("phone", phone).
		Int("valid_minutes", minutes).
		Msg("verification code issued")

	if sink := os.Getenv("SMS_SINK_EMAIL"); sink != "" {
		body := "Code for " + phone + ": <b>" + code + "</b>"
		if err := SendEmail(sink, "Booking verification code", body); err != nil {
			log.Error().Err(err).Msg("failed to deliver verification code")
		}
	}
}
