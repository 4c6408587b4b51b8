// services/request_service.go
package services

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"qr-request-manager/models"
	"qr-request-manager/store"
)

type RequestService struct {
	Store *store.Store
}

func NewRequestService(s *store.Store) *RequestService {
	return &RequestService{Store: s}
}

type createRequestInput struct {
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Points        int        `json:"points"`
	OneTimeUse    bool       `json:"one_time_use"`
	CustomContent string     `json:"custom_content"`
	CloseAt       *time.Time `json:"close_at"`
	Count         int        `json:"count"`
}

// CreateRequest creates one request, or a numbered batch when count > 1.
// Batch entries get "#1".."#N" suffixed to the title, each with its own
// token.
func (s *RequestService) CreateRequest(c *fiber.Ctx) error {
	var input createRequestInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	count := input.Count
	if count <= 0 {
		count = 1
	}
	if count > 100 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "count must be at most 100"})
	}

	opts := store.RequestOptions{
		Points:        input.Points,
		OneTimeUse:    input.OneTimeUse,
		CustomContent: input.CustomContent,
		CloseAt:       input.CloseAt,
	}

	if count == 1 {
		req, err := s.Store.CreateRequest(input.Title, input.Description, opts)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(req)
	}

	created := make([]*models.Request, 0, count)
	for i := 1; i <= count; i++ {
		title := fmt.Sprintf("%s #%d", input.Title, i)
		req, err := s.Store.CreateRequest(title, input.Description, opts)
		if err != nil {
			return respondError(c, err)
		}
		created = append(created, req)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// GetAllRequests lists requests newest-first; ?status=open|closed filters.
func (s *RequestService) GetAllRequests(c *fiber.Ctx) error {
	requests, err := s.Store.ListRequests(c.Query("status"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(requests)
}

func (s *RequestService) GetRequestByID(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request id"})
	}
	req, err := s.Store.GetRequest(id)
	if err != nil {
		return respondError(c, err)
	}
	count, err := s.Store.CountSubmissions(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"request": req, "submission_count": count})
}

// GetRequestLink returns the public form URL for a request, built from
// the configured base URL. This is the string the QR code encodes.
func (s *RequestService) GetRequestLink(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request id"})
	}
	req, err := s.Store.GetRequest(id)
	if err != nil {
		return respondError(c, err)
	}
	base, err := s.Store.GetSetting(models.SettingBaseURL, defaultBaseURL(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"token": req.Token,
		"url":   store.FormURL(base, req.Token),
	})
}

type updateStatusInput struct {
	Status string `json:"status"`
}

func (s *RequestService) UpdateRequestStatus(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request id"})
	}
	var input updateStatusInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := s.Store.UpdateStatus(id, input.Status); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"id": id, "status": input.Status})
}

type updateRequestInput struct {
	Points        *int       `json:"points"`
	OneTimeUse    *bool      `json:"one_time_use"`
	CustomContent *string    `json:"custom_content"`
	CloseAt       *time.Time `json:"close_at"`
	ClearCloseAt  bool       `json:"clear_close_at"`
}

// UpdateRequest patches per-request metadata. Only fields present in the
// body are touched.
func (s *RequestService) UpdateRequest(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request id"})
	}
	var input updateRequestInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if input.Points != nil {
		if err := s.Store.SetPoints(id, *input.Points); err != nil {
			return respondError(c, err)
		}
	}
	if input.OneTimeUse != nil {
		if err := s.Store.SetOneTimeUse(id, *input.OneTimeUse); err != nil {
			return respondError(c, err)
		}
	}
	if input.CustomContent != nil {
		if err := s.Store.SetCustomContent(id, *input.CustomContent); err != nil {
			return respondError(c, err)
		}
	}
	if input.CloseAt != nil || input.ClearCloseAt {
		closeAt := input.CloseAt
		if input.ClearCloseAt {
			closeAt = nil
		}
		if err := s.Store.SetCloseAt(id, closeAt); err != nil {
			return respondError(c, err)
		}
	}

	req, err := s.Store.GetRequest(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(req)
}

// DeleteRequest removes a request and its submissions. Reward entries
// already granted stay on the ledger.
func (s *RequestService) DeleteRequest(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request id"})
	}
	if err := s.Store.DeleteRequest(id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "request deleted", "id": id})
}

func (s *RequestService) GetSubmissions(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request id"})
	}
	if _, err := s.Store.GetRequest(id); err != nil {
		return respondError(c, err)
	}
	subs, err := s.Store.ListSubmissions(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(subs)
}

type addSubmissionInput struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// AddSubmission records a manual submission against a request, skipping
// the token gate. Used for walk-ins collected outside the QR flow.
func (s *RequestService) AddSubmission(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request id"})
	}
	var input addSubmissionInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	sub, err := s.Store.AddSubmission(id, input.Name, input.Phone, input.Email)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(sub)
}

func parseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// defaultBaseURL falls back to the request's own origin when no base URL
// has been configured yet.
func defaultBaseURL(c *fiber.Ctx) string {
	return c.Protocol() + "://" + c.Hostname() + "/form"
}
