// services/export_service.go
package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gosimple/slug"

	"qr-request-manager/store"
	"qr-request-manager/utils"
)

// ExportService produces CSV downloads of submissions and the review
// table. Exports are written to the local exports dir and, when R2 is
// configured, mirrored to the bucket.
type ExportService struct {
	Store *store.Store
}

func NewExportService(s *store.Store) *ExportService {
	return &ExportService{Store: s}
}

// ExportSubmissions streams a request's submissions as CSV. ?upload=true
// also pushes a copy to R2 and returns its URL in the X-Export-URL
// header.
func (s *ExportService) ExportSubmissions(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request id"})
	}
	req, err := s.Store.GetRequest(id)
	if err != nil {
		return respondError(c, err)
	}
	subs, err := s.Store.ListSubmissions(id)
	if err != nil {
		return respondError(c, err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"id", "name", "phone", "email", "created_at"})
	for _, sub := range subs {
		_ = w.Write([]string{
			strconv.FormatUint(uint64(sub.ID), 10),
			sub.Name,
			sub.Phone,
			sub.Email,
			sub.CreatedAt.Format(time.RFC3339),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to build CSV"})
	}

	filename := fmt.Sprintf("submissions-%s-%s.csv", slug.Make(req.Title), time.Now().Format("20060102-150405"))
	return s.deliver(c, filename, buf.Bytes())
}

// ExportIdentities streams the full review table as CSV, honoring the
// same filters as the identities endpoint.
func (s *ExportService) ExportIdentities(c *fiber.Ctx) error {
	filter := store.IdentityFilter{
		Name:  c.Query("name"),
		Phone: c.Query("phone"),
	}
	rows, err := s.Store.AggregateIdentities(filter)
	if err != nil {
		return respondError(c, err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"name", "phone", "submissions", "earned", "adjustments", "balance"})
	for _, row := range rows {
		_ = w.Write([]string{
			row.Name,
			row.Phone,
			strconv.Itoa(row.Submissions),
			strconv.Itoa(row.Earned),
			strconv.Itoa(row.Adjustments),
			strconv.Itoa(row.Balance),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to build CSV"})
	}

	filename := fmt.Sprintf("identities-%s.csv", time.Now().Format("20060102-150405"))
	return s.deliver(c, filename, buf.Bytes())
}

func (s *ExportService) deliver(c *fiber.Ctx, filename string, data []byte) error {
	localPath := utils.GetExportPath(filename)
	if err := utils.SaveBytes(data, localPath); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save export locally"})
	}

	if c.QueryBool("upload") && utils.R2Enabled() {
		url, err := utils.UploadBytesToR2("exports/"+filename, "text/csv", data)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to upload export to R2"})
		}
		c.Set("X-Export-URL", url)
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}
