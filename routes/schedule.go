package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bookora/bookora/controllers"
	"github.com/bookora/bookora/middleware"
)

// SetupScheduleRoutes configures working-hour, exception and block
// management. Reads are open to all staff; writes need a manager.
func SetupScheduleRoutes(app *fiber.App) {
	schedule := app.Group("/schedule", middleware.Protected())
	schedule.Get("/", controllers.GetBusinessSchedule)
	schedule.Put("/", middleware.RequireManager(), controllers.UpdateBusinessSchedule)
	schedule.Get("/staff/:id", controllers.GetStaffSchedule)
	schedule.Put("/staff/:id", middleware.RequireManager(), controllers.UpdateStaffSchedule)
	schedule.Get("/exceptions", controllers.ListExceptions)
	schedule.Post("/exceptions", middleware.RequireManager(), controllers.CreateException)
	schedule.Delete("/exceptions/:id", middleware.RequireManager(), controllers.DeleteException)

	blocks := app.Group("/blocks", middleware.Protected())
	blocks.Get("/", controllers.ListBlocks)
	blocks.Post("/", controllers.CreateBlock)
	blocks.Delete("/:id", controllers.DeleteBlock)
}
