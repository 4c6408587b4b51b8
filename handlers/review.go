// handlers/review_routes.go
package handlers

import (
	"qr-request-manager/middleware"
	"qr-request-manager/services"

	"github.com/gofiber/fiber/v2"
)

func SetupReviewRoutes(app *fiber.App, reviewService *services.ReviewService, exportService *services.ExportService) {
	admin := app.Group("/admin", middleware.AdminAuthMiddleware())

	admin.Get("/identities", reviewService.GetIdentities)
	admin.Get("/identities.csv", exportService.ExportIdentities)
	admin.Get("/rewards", reviewService.GetLedger)
	admin.Post("/rewards", reviewService.AddAdjustment)
	admin.Post("/rewards/pay", reviewService.PayIdentity)
	admin.Post("/rewards/clear", reviewService.ClearLedger)
}
