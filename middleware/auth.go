package middleware

import (
	"os"

	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	"github.com/golang-jwt/jwt/v4"

	"github.com/bookora/bookora/models"
)

// TenantKey is the Locals key holding the request's TenantContext.
const TenantKey = "tenant"

func jwtSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "dev_only_secret"
	}
	return []byte(secret)
}

// Protected validates the bearer token and materializes the tenant
// context every downstream query is scoped with.
func Protected() fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:   jwtSecret(),
		ErrorHandler: jwtError,
		SuccessHandler: func(c *fiber.Ctx) error {
			token, ok := c.Locals("user").(*jwt.Token)
			if !ok {
				return unauthorized(c, "invalid token")
			}
			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return unauthorized(c, "invalid token claims")
			}

			userID, ok := claimUint(claims, "id")
			if !ok {
				return unauthorized(c, "invalid user id in token")
			}
			businessID, _ := claimUint(claims, "business_id")

			role, _ := claims["role"].(string)
			tenant := models.TenantContext{
				UserID:     userID,
				BusinessID: businessID,
				Role:       models.Role(role),
			}
			if !tenant.Role.Valid() {
				return unauthorized(c, "invalid role in token")
			}
			if tenant.BusinessID == 0 && !tenant.IsSuperAdmin() {
				return unauthorized(c, "token carries no business")
			}

			c.Locals(TenantKey, tenant)
			return c.Next()
		},
	})
}

// Tenant extracts the TenantContext set by Protected.
func Tenant(c *fiber.Ctx) models.TenantContext {
	tenant, _ := c.Locals(TenantKey).(models.TenantContext)
	return tenant
}

func claimUint(claims jwt.MapClaims, key string) (uint, bool) {
	v, ok := claims[key].(float64)
	if !ok || v < 0 {
		return 0, false
	}
	return uint(v), true
}

func unauthorized(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": msg,
	})
}

func jwtError(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error":   "Unauthorized",
		"details": err.Error(),
	})
}
