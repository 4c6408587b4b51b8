// handlers/request_routes.go
package handlers

import (
	"qr-request-manager/middleware"
	"qr-request-manager/services"

	"github.com/gofiber/fiber/v2"
)

func SetupRequestRoutes(app *fiber.App, requestService *services.RequestService, exportService *services.ExportService) {
	// 🔐 Admin routes — password enforced via middleware
	admin := app.Group("/admin", middleware.AdminAuthMiddleware())

	admin.Post("/requests", requestService.CreateRequest)
	admin.Get("/requests", requestService.GetAllRequests)
	admin.Get("/requests/:id", requestService.GetRequestByID)
	admin.Get("/requests/:id/link", requestService.GetRequestLink)
	admin.Patch("/requests/:id", requestService.UpdateRequest)
	admin.Put("/requests/:id/status", requestService.UpdateRequestStatus)
	admin.Delete("/requests/:id", requestService.DeleteRequest)

	admin.Get("/requests/:id/submissions", requestService.GetSubmissions)
	admin.Post("/requests/:id/submissions", requestService.AddSubmission)
	admin.Get("/requests/:id/submissions.csv", exportService.ExportSubmissions)
}
