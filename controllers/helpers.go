package controllers

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/bookora/bookora/db"
	"github.com/bookora/bookora/models"
	"github.com/bookora/bookora/scheduling"
)

var validate = validator.New()

// ErrorResponse is the error payload shape shared by all endpoints.
type ErrorResponse struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

// fail renders err. Domain errors become field-attributed 422/429
// responses; anything else is a 500.
func fail(c *fiber.Ctx, err error) error {
	if de, ok := scheduling.AsError(err); ok {
		return c.Status(de.HTTPStatus()).JSON(ErrorResponse{
			Message: de.Message,
			Errors:  map[string][]string{de.Field: {de.Message}},
		})
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Message: "Not found"})
	}

	log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Message: "Internal error"})
}

// failValidation renders validator.v10 errors field by field.
func failValidation(c *fiber.Ctx, err error) error {
	fields := map[string][]string{}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			fields[fe.Field()] = append(fields[fe.Field()], "failed on "+fe.Tag())
		}
	}
	return c.Status(fiber.StatusUnprocessableEntity).JSON(ErrorResponse{
		Message: "Validation failed",
		Errors:  fields,
	})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Message: msg})
}

// tenantBusiness loads the acting tenant's business.
func tenantBusiness(tenant models.TenantContext) (*models.Business, error) {
	var business models.Business
	if err := db.DB.First(&business, tenant.BusinessID).Error; err != nil {
		return nil, err
	}
	return &business, nil
}

// tenantSubscription loads the active subscription of a business, or nil
// when the business has none. Limits come from the snapshot, never from
// the live plan row.
func tenantSubscription(businessID uint) *models.Subscription {
	var sub models.Subscription
	err := db.DB.Where("business_id = ? AND status = ?", businessID, "active").First(&sub).Error
	if err != nil {
		return nil
	}
	return &sub
}

// defaultStaffID picks the first active schedulable user of a business.
// Used when an availability or public booking request names no staff.
func defaultStaffID(businessID uint) uint {
	var staff models.User
	err := db.DB.
		Where("business_id = ? AND is_active = ?", businessID, true).
		Where("role IN ?", models.StaffRoles).
		Order("id").
		First(&staff).Error
	if err != nil {
		return 0
	}
	return staff.ID
}
