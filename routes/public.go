package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bookora/bookora/controllers"
)

// SetupPublicRoutes configures the unauthenticated booking widget
// surface.
func SetupPublicRoutes(app *fiber.App) {
	public := app.Group("/public")

	public.Get("/businesses/:slug", controllers.PublicBusiness)
	public.Get("/businesses/:slug/services", controllers.PublicServices)
	public.Get("/businesses/:slug/staff", controllers.PublicStaff)
	public.Get("/businesses/:slug/availability", controllers.PublicAvailability)
	public.Post("/businesses/:slug/bookings", controllers.PublicCreateBooking)

	public.Get("/bookings/:code", controllers.PublicBooking)
	public.Post("/bookings/:code/verify", controllers.PublicVerifyPhone)
	public.Post("/bookings/:code/cancel", controllers.PublicCancelBooking)
}
