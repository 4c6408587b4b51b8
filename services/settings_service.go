// services/settings_service.go
package services

import (
	"github.com/gofiber/fiber/v2"

	"qr-request-manager/store"
)

type SettingsService struct {
	Store *store.Store
}

func NewSettingsService(s *store.Store) *SettingsService {
	return &SettingsService{Store: s}
}

func (s *SettingsService) GetSettings(c *fiber.Ctx) error {
	settings, err := s.Store.ListSettings()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(settings)
}

type settingInput struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func (s *SettingsService) UpdateSetting(c *fiber.Ctx) error {
	var input settingInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := s.Store.SetSetting(input.Key, input.Value); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"key": input.Key, "value": input.Value})
}

type wipeInput struct {
	Confirm string `json:"confirm"`
}

// WipeAll deletes every record in the system. The body must carry
// {"confirm": "DELETE"}; anything else is rejected and nothing happens.
func (s *SettingsService) WipeAll(c *fiber.Ctx) error {
	var input wipeInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := s.Store.Wipe(input.Confirm); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "all data wiped"})
}
