// handlers/form_routes.go
package handlers

import (
	"qr-request-manager/services"

	"github.com/gofiber/fiber/v2"
)

func SetupFormRoutes(app *fiber.App, formService *services.FormService) {
	// 🔓 Public routes — token is the only credential
	app.Get("/form/:token", formService.GetForm)
	app.Post("/form/:token", formService.SubmitForm)
}
