package store

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"qr-request-manager/models"
)

// RequestOptions carries per-request metadata set at creation time.
type RequestOptions struct {
	Points        int
	OneTimeUse    bool
	CustomContent string
	CloseAt       *time.Time
}

// NewToken returns a fresh 32-character hex token. Not guessable; the
// unique index on requests.token is the final arbiter of uniqueness.
func NewToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// FormURL builds the public form URL for a token. The QR layer depends on
// this exact format: {base}{sep}view=form&token={token}, where sep is "&"
// when the base already carries a query string and "?" otherwise.
func FormURL(baseURL, token string) string {
	sep := "?"
	if strings.Contains(baseURL, "?") {
		sep = "&"
	}
	return baseURL + sep + "view=form&token=" + token
}

// CreateRequest persists a new open request with a fresh token. Retries
// token generation when the unique index reports a collision.
func (s *Store) CreateRequest(title, description string, opts RequestOptions) (*models.Request, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, &ValidationError{Field: "title", Msg: "is required"}
	}
	if opts.Points < 0 {
		return nil, &ValidationError{Field: "points", Msg: "must not be negative"}
	}

	req := &models.Request{
		Title:               title,
		Description:         strings.TrimSpace(description),
		Status:              models.RequestStatusOpen,
		OneTimeUse:          opts.OneTimeUse,
		PointsPerSubmission: opts.Points,
		CustomContent:       strings.TrimSpace(opts.CustomContent),
		CloseAt:             opts.CloseAt,
	}

	for attempt := 0; attempt < 3; attempt++ {
		req.Token = NewToken()
		err := s.DB.Create(req).Error
		if err == nil {
			return req, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
	}
	return nil, errors.New("could not generate a unique token")
}

// ListRequests returns requests newest-first, optionally filtered by
// status ("open" or "closed"; empty means all).
func (s *Store) ListRequests(status string) ([]models.Request, error) {
	q := s.DB.Order("created_at DESC, id DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var requests []models.Request
	if err := q.Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

func (s *Store) GetRequest(id uint) (*models.Request, error) {
	var req models.Request
	if err := s.DB.First(&req, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &req, nil
}

func (s *Store) GetRequestByToken(token string) (*models.Request, error) {
	var req models.Request
	if err := s.DB.First(&req, "token = ?", token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &req, nil
}

// UpdateStatus sets a request's status. Idempotent: setting the current
// status again is a no-op, not an error.
func (s *Store) UpdateStatus(id uint, status string) error {
	if status != models.RequestStatusOpen && status != models.RequestStatusClosed {
		return &ValidationError{Field: "status", Msg: "must be open or closed"}
	}
	return s.updateRequest(id, map[string]any{"status": status})
}

// SetOneTimeUse flips the one-time flag. Flipping it on for a request
// that already has submissions freezes the token (used_count > 0).
func (s *Store) SetOneTimeUse(id uint, oneTime bool) error {
	return s.updateRequest(id, map[string]any{"one_time_use": oneTime})
}

func (s *Store) SetPoints(id uint, points int) error {
	if points < 0 {
		return &ValidationError{Field: "points", Msg: "must not be negative"}
	}
	return s.updateRequest(id, map[string]any{"points_per_submission": points})
}

func (s *Store) SetCustomContent(id uint, content string) error {
	return s.updateRequest(id, map[string]any{"custom_content": strings.TrimSpace(content)})
}

func (s *Store) SetCloseAt(id uint, closeAt *time.Time) error {
	return s.updateRequest(id, map[string]any{"close_at": closeAt})
}

func (s *Store) updateRequest(id uint, fields map[string]any) error {
	res := s.DB.Model(&models.Request{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := s.DB.Model(&models.Request{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
	}
	return nil
}

// DeleteRequest removes a request together with all its submissions.
// Reward entries are untouched; they live independently of the request
// lifecycle. The deleted request's token becomes available again.
func (s *Store) DeleteRequest(id uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("request_id = ?", id).Delete(&models.Submission{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Request{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// CloseExpired closes every open request whose close_at deadline has
// passed and returns how many were closed. Called by the scheduler.
func (s *Store) CloseExpired(now time.Time) (int64, error) {
	res := s.DB.Model(&models.Request{}).
		Where("status = ? AND close_at IS NOT NULL AND close_at <= ?", models.RequestStatusOpen, now).
		Update("status", models.RequestStatusClosed)
	return res.RowsAffected, res.Error
}
