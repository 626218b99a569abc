package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/taskfox/taskfox/internal/pkg/billing"
)

type orderRequest struct {
	PlanID uint `json:"plan_id"`
}

// HandleListOrders returns the authenticated user's orders, newest first.
func HandleListOrders(c *fiber.Ctx) error {
	user := currentUser(c)
	orders, err := billing.GetService().ListOrders(c.UserContext(), user.ID)
	if err != nil {
		return respondBillingError(c, err)
	}
	return c.JSON(fiber.Map{"orders": orders})
}

// HandleGetOrder returns one of the user's orders.
func HandleGetOrder(c *fiber.Ctx) error {
	orderID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	user := currentUser(c)
	order, err := billing.GetService().GetOrder(c.UserContext(), user.ID, orderID)
	if err != nil {
		return respondBillingError(c, err)
	}
	return c.JSON(fiber.Map{"order": order})
}

// HandleCreateOrder opens a pending upgrade order for the requested plan.
func HandleCreateOrder(c *fiber.Ctx) error {
	var req orderRequest
	if err := c.BodyParser(&req); err != nil || req.PlanID == 0 {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":   "validation_error",
			"message": "plan_id is required",
		})
	}

	user := currentUser(c)
	order, err := billing.GetService().CreateOrder(c.UserContext(), user, req.PlanID)
	if err != nil {
		return respondBillingError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"order": order})
}

// HandleUpdateOrder moves a pending order to another target plan.
func HandleUpdateOrder(c *fiber.Ctx) error {
	orderID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req orderRequest
	if err := c.BodyParser(&req); err != nil || req.PlanID == 0 {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":   "validation_error",
			"message": "plan_id is required",
		})
	}

	user := currentUser(c)
	order, err := billing.GetService().UpdateOrder(c.UserContext(), user, orderID, req.PlanID)
	if err != nil {
		return respondBillingError(c, err)
	}
	return c.JSON(fiber.Map{"order": order})
}

// HandleCancelOrder cancels a pending order.
func HandleCancelOrder(c *fiber.Ctx) error {
	orderID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	user := currentUser(c)
	order, err := billing.GetService().CancelOrder(c.UserContext(), user, orderID)
	if err != nil {
		return respondBillingError(c, err)
	}
	return c.JSON(fiber.Map{"order": order, "message": "order cancelled"})
}

// HandleDeleteOrder soft-deletes a non-completed order.
func HandleDeleteOrder(c *fiber.Ctx) error {
	orderID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	user := currentUser(c)
	if err := billing.GetService().DeleteOrder(c.UserContext(), user, orderID); err != nil {
		return respondBillingError(c, err)
	}
	return c.JSON(fiber.Map{"message": "order deleted"})
}
