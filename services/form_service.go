// services/form_service.go
package services

import (
	"github.com/gofiber/fiber/v2"

	"qr-request-manager/models"
	"qr-request-manager/store"
)

// FormService is the public surface. Token holders see only what the
// form needs: never the request's points value or its admin metadata.
type FormService struct {
	Store *store.Store
}

func NewFormService(s *store.Store) *FormService {
	return &FormService{Store: s}
}

// GetForm resolves a token so the form can render. Closed and exhausted
// tokens report their state instead of the form fields.
func (s *FormService) GetForm(c *fiber.Ctx) error {
	req, err := s.Store.GetRequestByToken(c.Params("token"))
	if err == store.ErrNotFound {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "invalid or expired token",
			"state": string(models.TokenUnknown),
		})
	}
	if err != nil {
		return respondError(c, err)
	}

	state := req.GateState()
	if state != models.TokenUsable {
		terr := &store.TokenStateError{State: state}
		return c.Status(fiber.StatusGone).JSON(fiber.Map{
			"error": terr.Error(),
			"state": string(state),
		})
	}

	return c.JSON(fiber.Map{
		"title":          req.Title,
		"description":    req.Description,
		"custom_content": req.CustomContent,
		"state":          string(state),
	})
}

type submitFormInput struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// SubmitForm accepts a public submission against a token.
func (s *FormService) SubmitForm(c *fiber.Ctx) error {
	var input submitFormInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	sub, err := s.Store.SubmitByToken(c.Params("token"), input.Name, input.Phone, input.Email)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "submission received",
		"id":      sub.ID,
	})
}
