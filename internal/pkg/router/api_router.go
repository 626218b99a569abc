package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/taskfox/taskfox/app/controllers"
	"github.com/taskfox/taskfox/internal/pkg/middleware"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New())
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Hello from api",
		})
	})

	v1 := api.Group("/v1")

	// Public: plan catalog and the gateway status callback.
	v1.Get("/plans", controllers.HandleListPlans)
	v1.Get("/plans/:id", controllers.HandleGetPlan)
	v1.Post("/payments/callback", controllers.HandlePaymentCallback)

	// Everything else requires a bearer API token.
	auth := v1.Group("", middleware.BearerAuthMiddleware())

	auth.Get("/orders", controllers.HandleListOrders)
	auth.Post("/orders", controllers.HandleCreateOrder)
	auth.Get("/orders/:id", controllers.HandleGetOrder)
	auth.Put("/orders/:id", controllers.HandleUpdateOrder)
	auth.Post("/orders/:id/cancel", controllers.HandleCancelOrder)
	auth.Delete("/orders/:id", controllers.HandleDeleteOrder)

	auth.Get("/payments", controllers.HandleListPayments)
	auth.Post("/payments", controllers.HandleCreatePayment)
	auth.Get("/payments/:id", controllers.HandleGetPayment)

	auth.Get("/invoice/download/:order_id", controllers.HandleDownloadInvoice)

	auth.Get("/user/current-plan", controllers.HandleCurrentPlan)
	auth.Get("/user/tasks/count", controllers.HandleTasksCount)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
