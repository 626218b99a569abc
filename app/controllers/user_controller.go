package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/taskfox/taskfox/internal/pkg/billing"
)

// HandleCurrentPlan returns the user's active plan, expiry and quota state.
func HandleCurrentPlan(c *fiber.Ctx) error {
	user := currentUser(c)
	info, err := billing.GetService().CurrentPlanInfo(c.UserContext(), user)
	if err != nil {
		return respondBillingError(c, err)
	}
	return c.JSON(info)
}

// HandleTasksCount returns the live task usage against the current plan.
func HandleTasksCount(c *fiber.Ctx) error {
	user := currentUser(c)
	quota, err := billing.GetService().CheckQuota(c.UserContext(), user)
	if err != nil {
		return respondBillingError(c, err)
	}
	return c.JSON(quota)
}
