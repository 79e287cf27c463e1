package orderRoutes

import (
	controllers "lms/controllers/order"
	"lms/middleware"
	validators "lms/validators/order"

	"github.com/gofiber/fiber/v2"
)

func SetupOrderRoutes(app *fiber.App) {
	orderGroup := app.Group("/order")

	orderGroup.Post("/create", middleware.JWTMiddleware, validators.CreateOrder(), controllers.CreateOrder)
	orderGroup.Get("/list", middleware.JWTMiddleware, validators.OrderList(), controllers.GetMyOrders)
	orderGroup.Get("/:id", middleware.JWTMiddleware, validators.OrderID(), controllers.GetOrder)

	adminGroup := app.Group("/admin/order")
	adminGroup.Get("/list", middleware.JWTMiddleware, validators.OrderList(), controllers.AdminGetAllOrders)
	adminGroup.Post("/:id/status", middleware.JWTMiddleware, validators.UpdateOrderStatus(), controllers.AdminUpdateOrderStatus)
}
