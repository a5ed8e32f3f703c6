package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bookora/bookora/controllers"
	"github.com/bookora/bookora/middleware"
)

// SetupBookingRoutes configures the staff-facing booking and
// availability routes.
func SetupBookingRoutes(app *fiber.App) {
	app.Get("/availability", middleware.Protected(), controllers.Availability)

	bookings := app.Group("/bookings", middleware.Protected())
	bookings.Get("/", controllers.ListBookings)
	bookings.Post("/", controllers.CreateBooking)
	bookings.Get("/:id", controllers.GetBooking)
	bookings.Put("/:id", controllers.UpdateBooking)
	bookings.Patch("/:id/confirm", controllers.ConfirmBooking)
	bookings.Patch("/:id/cancel", controllers.CancelBooking)
	bookings.Patch("/:id/done", controllers.DoneBooking)
	bookings.Patch("/:id/time", controllers.RescheduleBooking)
}
