// handlers/settings_routes.go
package handlers

import (
	"qr-request-manager/middleware"
	"qr-request-manager/services"

	"github.com/gofiber/fiber/v2"
)

func SetupSettingsRoutes(app *fiber.App, settingsService *services.SettingsService) {
	admin := app.Group("/admin", middleware.AdminAuthMiddleware())

	admin.Get("/settings", settingsService.GetSettings)
	admin.Put("/settings", settingsService.UpdateSetting)
	admin.Post("/wipe", settingsService.WipeAll)
}
