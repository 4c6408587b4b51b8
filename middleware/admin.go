// middleware/admin.go
package middleware

import (
	"log"
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// AdminAuthMiddleware protects the admin surface with the shared
// password from ADMIN_PASSWORD. The public form routes never pass
// through here.
func AdminAuthMiddleware() fiber.Handler {
	expected := os.Getenv("ADMIN_PASSWORD")
	if expected == "" {
		log.Fatal("❌ ADMIN_PASSWORD is not set — admin surface cannot be protected")
	}

	return func(c *fiber.Ctx) error {
		password := c.Get("X-Admin-Password")
		if password == "" {
			authHeader := c.Get("Authorization")
			password = strings.TrimPrefix(authHeader, "Bearer ")
			if password == authHeader {
				password = ""
			}
		}

		if password == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "admin password missing",
			})
		}
		if password != expected {
			log.Printf("🚫 [ADMIN_AUTH] Invalid password for %s", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid admin password",
			})
		}
		return c.Next()
	}
}
