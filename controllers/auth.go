package controllers

import (
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/bookora/bookora/db"
	"github.com/bookora/bookora/middleware"
	"github.com/bookora/bookora/models"
	"github.com/bookora/bookora/utils"
)

type registerInput struct {
	BusinessName string `json:"business_name" validate:"required,min=2,max=120"`
	BusinessType string `json:"business_type" validate:"omitempty,oneof=salon clinic"`
	Timezone     string `json:"timezone"`
	Name         string `json:"name" validate:"required,min=2,max=120"`
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=8"`
}

// Register onboards a business with its owner account.
func Register(c *fiber.Ctx) error {
	var in registerInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "Cannot parse JSON")
	}
	if err := validate.Struct(in); err != nil {
		return failValidation(c, err)
	}

	var existing models.User
	if db.DB.Where("email = ?", in.Email).First(&existing).RowsAffected > 0 {
		return c.Status(fiber.StatusConflict).JSON(ErrorResponse{
			Message: "User with this email already exists",
		})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return fail(c, err)
	}

	businessType := models.BusinessType(in.BusinessType)
	if businessType == "" {
		businessType = models.TypeSalon
	}

	var owner models.User
	err = db.DB.Transaction(func(tx *gorm.DB) error {
		business := models.Business{
			Name:         in.BusinessName,
			Slug:         slugify(in.BusinessName),
			BusinessType: businessType,
			Timezone:     in.Timezone,
		}
		if err := tx.Create(&business).Error; err != nil {
			return err
		}

		owner = models.User{
			Name:       in.Name,
			Email:      in.Email,
			Password:   string(hashed),
			Role:       models.RoleOwner,
			BusinessID: business.ID,
			IsActive:   true,
		}
		if err := tx.Create(&owner).Error; err != nil {
			return err
		}

		// New businesses start on the starter plan when one is seeded;
		// the subscription snapshots the plan limits at this moment.
		var starter models.Plan
		if err := tx.Where("code = ? AND is_active = ?", "starter", true).First(&starter).Error; err == nil {
			if _, err := models.AssignPlan(tx, business.ID, &starter); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return fail(c, err)
	}

	log.Info().Uint("business_id", owner.BusinessID).Str("email", owner.Email).Msg("business registered")

	owner.Password = ""
	return c.Status(fiber.StatusCreated).JSON(owner)
}

type loginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login authenticates a user and issues a tenant-scoped token.
func Login(c *fiber.Ctx) error {
	var in loginInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "Cannot parse JSON")
	}
	if err := validate.Struct(in); err != nil {
		return failValidation(c, err)
	}

	var user models.User
	if db.DB.Where("email = ?", in.Email).First(&user).RowsAffected == 0 {
		return unauthorized(c)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)) != nil {
		return unauthorized(c)
	}
	if !user.IsActive {
		return c.Status(fiber.StatusForbidden).JSON(ErrorResponse{Message: "Account is deactivated"})
	}

	token, err := issueToken(&user)
	if err != nil {
		return fail(c, err)
	}

	user.Password = ""
	return c.JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}

// Me returns the authenticated user's profile.
func Me(c *fiber.Ctx) error {
	tenant := middleware.Tenant(c)

	var user models.User
	if err := db.DB.Preload("Business").First(&user, tenant.UserID).Error; err != nil {
		return fail(c, err)
	}
	user.Password = ""
	return c.JSON(user)
}

func issueToken(user *models.User) (string, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "dev_only_secret"
	}

	claims := jwt.MapClaims{
		"id":          user.ID,
		"role":        string(user.Role),
		"business_id": user.BusinessID,
		"exp":         time.Now().Add(24 * time.Hour).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{Message: "Invalid credentials"})
}

func slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r == ' ' || r == '-' || r == '_':
			return '-'
		default:
			return -1
		}
	}, s)
	s = strings.Trim(s, "-")
	if s == "" {
		s = "business"
	}
	// suffix keeps slugs unique without a lookup loop
	return s + "-" + strings.ToLower(utils.GenerateBookingCode()[3:])
}
