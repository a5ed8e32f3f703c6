package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bookora/bookora/controllers"
	"github.com/bookora/bookora/middleware"
	"github.com/bookora/bookora/models"
)

// SetupCatalogRoutes configures service, staff and room management.
func SetupCatalogRoutes(app *fiber.App) {
	services := app.Group("/services", middleware.Protected())
	services.Get("/", controllers.ListServices)
	services.Post("/", middleware.RequireManager(), controllers.CreateService)
	services.Put("/:id", middleware.RequireManager(), controllers.UpdateService)
	services.Patch("/:id/active", middleware.RequireManager(), controllers.SetServiceActive)
	services.Delete("/:id", middleware.RequireRole(models.RoleOwner, models.RoleSuperAdmin), controllers.DeleteService)

	staff := app.Group("/staff", middleware.Protected())
	staff.Get("/", controllers.ListStaff)
	staff.Post("/", middleware.RequireManager(), controllers.CreateStaff)
	staff.Patch("/:id/active", middleware.RequireManager(), controllers.SetStaffActive)

	rooms := app.Group("/rooms", middleware.Protected())
	rooms.Get("/", controllers.ListRooms)
	rooms.Post("/", middleware.RequireManager(), controllers.CreateRoom)
	rooms.Patch("/:id/active", middleware.RequireManager(), controllers.SetRoomActive)
}
