package services

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"qr-request-manager/models"
	"qr-request-manager/store"
)

// respondError maps store errors onto HTTP responses. Anything the store
// did not classify is a 500 with a generic body.
func respondError(c *fiber.Ctx, err error) error {
	var verr *store.ValidationError
	if errors.As(err, &verr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": verr.Error(), "field": verr.Field})
	}
	var derr *store.DuplicateSubmissionError
	if errors.As(err, &derr) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": derr.Error()})
	}
	var terr *store.TokenStateError
	if errors.As(err, &terr) {
		status := fiber.StatusNotFound
		if terr.State != models.TokenUnknown {
			status = fiber.StatusGone
		}
		return c.Status(status).JSON(fiber.Map{"error": terr.Error(), "state": string(terr.State)})
	}
	if errors.Is(err, store.ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	}
	if errors.Is(err, store.ErrWipeNotConfirmed) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
}
