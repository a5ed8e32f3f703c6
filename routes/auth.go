package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bookora/bookora/controllers"
	"github.com/bookora/bookora/middleware"
)

// SetupAuthRoutes configures registration, login and profile routes.
func SetupAuthRoutes(app *fiber.App) {
	auth := app.Group("/auth")

	auth.Post("/register", controllers.Register)
	auth.Post("/login", controllers.Login)

	auth.Get("/me", middleware.Protected(), controllers.Me)
}
