package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/taskfox/taskfox/internal/pkg/billing"
)

// HandleListPlans returns the public plan catalog, cheapest first.
func HandleListPlans(c *fiber.Ctx) error {
	plans, err := billing.GetService().ListPlans(c.UserContext())
	if err != nil {
		return respondBillingError(c, err)
	}
	return c.JSON(fiber.Map{"plans": plans})
}

// HandleGetPlan returns a single plan by id.
func HandleGetPlan(c *fiber.Ctx) error {
	planID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	plan, err := billing.GetService().GetPlan(c.UserContext(), planID)
	if err != nil {
		return respondBillingError(c, err)
	}
	return c.JSON(fiber.Map{"plan": plan})
}
