package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bookora/bookora/models"
)

// RequireManager admits owners, managers and super admins.
func RequireManager() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tenant := Tenant(c)
		if !tenant.Role.CanManageSchedule() {
			return forbidden(c)
		}
		return c.Next()
	}
}

// RequireRole admits only the listed roles.
func RequireRole(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tenant := Tenant(c)
		for _, r := range roles {
			if tenant.Role == r {
				return c.Next()
			}
		}
		return forbidden(c)
	}
}

func forbidden(c *fiber.Ctx) error {
	return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
		"error": "Access denied",
	})
}
