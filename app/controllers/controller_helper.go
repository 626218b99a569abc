package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/taskfox/taskfox/app/models"
	"github.com/taskfox/taskfox/internal/pkg/billing"
	"github.com/taskfox/taskfox/internal/pkg/usercontext"
)

// currentUser returns the authenticated user installed by the auth
// middleware. Handlers behind the middleware can rely on it being non-nil.
func currentUser(c *fiber.Ctx) *models.User {
	return usercontext.GetUser(c)
}

// billingErrorStatus maps domain error codes to HTTP status codes.
func billingErrorStatus(code billing.Code) int {
	switch code {
	case billing.CodeValidation:
		return fiber.StatusUnprocessableEntity
	case billing.CodeNotFound:
		return fiber.StatusNotFound
	case billing.CodeConflict:
		return fiber.StatusConflict
	case billing.CodeForbidden, billing.CodeQuotaExceeded:
		return fiber.StatusForbidden
	case billing.CodeInvalidState:
		return fiber.StatusBadRequest
	case billing.CodeGateway:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// respondBillingError renders a billing error as the JSON error envelope.
// Detail entries (quota usage context etc.) are merged into the body.
func respondBillingError(c *fiber.Ctx, err error) error {
	code := billing.CodeOf(err)
	status := billingErrorStatus(code)

	if status == fiber.StatusInternalServerError {
		log.Errorf("[API] Internal error on %s %s: %v", c.Method(), c.Path(), err)
	}

	body := fiber.Map{
		"error":   string(code),
		"message": billing.MessageOf(err),
	}
	for k, v := range billing.DetailsOf(err) {
		body[k] = v
	}
	return c.Status(status).JSON(body)
}

// parseIDParam reads a positive integer route parameter.
func parseIDParam(c *fiber.Ctx, name string) (uint, error) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid "+name)
	}
	return uint(id), nil
}
