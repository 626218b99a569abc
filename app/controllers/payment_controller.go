package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/taskfox/taskfox/internal/pkg/billing"
)

type paymentRequest struct {
	OrderID uint `json:"order_id"`
}

// HandleListPayments returns the payments attached to the user's orders.
func HandleListPayments(c *fiber.Ctx) error {
	user := currentUser(c)
	payments, err := billing.GetService().ListPayments(c.UserContext(), user.ID)
	if err != nil {
		return respondBillingError(c, err)
	}
	return c.JSON(fiber.Map{"payments": payments})
}

// HandleGetPayment returns one payment owned by the user.
func HandleGetPayment(c *fiber.Ctx) error {
	paymentID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	user := currentUser(c)
	payment, err := billing.GetService().GetPayment(c.UserContext(), user, paymentID)
	if err != nil {
		return respondBillingError(c, err)
	}
	return c.JSON(fiber.Map{"payment": payment})
}

// HandleCreatePayment opens the payment intent for a pending order and
// returns the gateway token the client checkout needs.
func HandleCreatePayment(c *fiber.Ctx) error {
	var req paymentRequest
	if err := c.BodyParser(&req); err != nil || req.OrderID == 0 {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":   "validation_error",
			"message": "order_id is required",
		})
	}

	user := currentUser(c)
	payment, err := billing.GetService().CreatePayment(c.UserContext(), user, req.OrderID)
	if err != nil {
		return respondBillingError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"payment":    payment,
		"snap_token": payment.SnapToken,
	})
}

// HandlePaymentCallback processes asynchronous gateway status notifications.
// Every recognized, replayed or unknown-reference outcome is acknowledged
// with 200 so the gateway stops retrying; only internal failures return 500.
func HandlePaymentCallback(c *fiber.Ctx) error {
	var in billing.CallbackInput
	if err := c.BodyParser(&in); err != nil || in.ReferenceKey == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "validation_error",
			"message": "invalid callback payload",
		})
	}

	result, err := billing.GetService().ProcessCallback(c.UserContext(), in)
	if err != nil {
		log.Errorf("[API] Callback processing failed for %s: %v", in.ReferenceKey, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_error",
			"message": "callback processing failed",
		})
	}
	return c.JSON(fiber.Map{
		"message": result.Message,
		"status":  string(result.Outcome),
	})
}

// HandleDownloadInvoice streams the stored invoice PDF for one of the user's
// completed orders.
func HandleDownloadInvoice(c *fiber.Ctx) error {
	orderID, err := parseIDParam(c, "order_id")
	if err != nil {
		return err
	}

	user := currentUser(c)
	invoice, data, err := billing.GetService().DownloadInvoice(c.UserContext(), user, orderID)
	if err != nil {
		return respondBillingError(c, err)
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+invoice.InvoiceNumber+`.pdf"`)
	return c.Send(data)
}
