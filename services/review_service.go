// services/review_service.go
package services

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"qr-request-manager/store"
)

// ReviewService is the admin surface over the identity aggregation and
// the rewards ledger.
type ReviewService struct {
	Store *store.Store
}

func NewReviewService(s *store.Store) *ReviewService {
	return &ReviewService{Store: s}
}

// GetIdentities returns the review table: every submitting identity with
// its totals. Filters: ?name= (substring, case insensitive), ?phone=
// (substring), ?from= and ?to= (RFC3339, on the latest submission).
func (s *ReviewService) GetIdentities(c *fiber.Ctx) error {
	filter := store.IdentityFilter{
		Name:  c.Query("name"),
		Phone: c.Query("phone"),
	}
	if raw := c.Query("from"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid from timestamp, use RFC3339"})
		}
		filter.From = &from
	}
	if raw := c.Query("to"); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid to timestamp, use RFC3339"})
		}
		filter.To = &to
	}

	rows, err := s.Store.AggregateIdentities(filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(rows)
}

type identityInput struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type adjustmentInput struct {
	identityInput
	Points int    `json:"points"`
	Reason string `json:"reason"`
}

// AddAdjustment appends a signed bonus or deduction to an identity's
// ledger.
func (s *ReviewService) AddAdjustment(c *fiber.Ctx) error {
	var input adjustmentInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	entry, err := s.Store.AddRewardEntry(input.Name, input.Phone, input.Points, input.Reason)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

// GetLedger returns an identity's full reward history, newest-first.
func (s *ReviewService) GetLedger(c *fiber.Ctx) error {
	name := c.Query("name")
	phone := c.Query("phone")
	if name == "" || phone == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name and phone are required"})
	}
	entries, err := s.Store.ListRewardEntries(name, phone)
	if err != nil {
		return respondError(c, err)
	}
	balance, err := s.Store.Balance(name, phone)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"entries": entries, "balance": balance})
}

// PayIdentity zeroes an identity's balance with a "paid" ledger entry.
func (s *ReviewService) PayIdentity(c *fiber.Ctx) error {
	var input identityInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	paid, err := s.Store.PayInFull(input.Name, input.Phone)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "paid in full", "points": paid})
}

// ClearLedger deletes an identity's entire reward history.
func (s *ReviewService) ClearLedger(c *fiber.Ctx) error {
	var input identityInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	removed, err := s.Store.ClearRewardEntries(input.Name, input.Phone)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "ledger cleared", "removed": removed})
}
