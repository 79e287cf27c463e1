package batchRoutes

import (
	controllers "lms/controllers/batch"
	"lms/middleware"
	validators "lms/validators/batch"

	"github.com/gofiber/fiber/v2"
)

func SetupBatchRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin/batch")

	adminGroup.Post("/create", middleware.JWTMiddleware, validators.CreateBatch(), controllers.AdminCreateBatch)
	adminGroup.Get("/list", middleware.JWTMiddleware, controllers.AdminGetBatches)
	adminGroup.Put("/:id", middleware.JWTMiddleware, validators.UpdateBatch(), controllers.AdminUpdateBatch)
	adminGroup.Delete("/:id", middleware.JWTMiddleware, validators.BatchID(), controllers.AdminDeleteBatch)
	adminGroup.Post("/:id/assign", middleware.JWTMiddleware, validators.AssignBatch(), controllers.AdminAssignBatch)
}
