package store

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"qr-request-manager/models"
)

// SubmitByToken records a public-form submission against the request the
// token resolves to. The whole flow runs in one transaction: the token
// gate consume and the duplicate-phone check commit or roll back
// together, so a rejected duplicate never burns a one-time token.
func (s *Store) SubmitByToken(token, name, phone, email string) (*models.Submission, error) {
	name = strings.TrimSpace(name)
	phone = strings.TrimSpace(phone)
	email = strings.TrimSpace(email)
	if err := validateSubmission(name, phone, email); err != nil {
		return nil, err
	}

	var sub *models.Submission
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var req models.Request
		if err := tx.First(&req, "token = ?", token).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &TokenStateError{State: models.TokenUnknown}
			}
			return err
		}

		// Guarded consume: only succeeds while the request is open and,
		// for one-time tokens, unused. Under concurrency exactly one
		// writer passes the used_count = 0 guard.
		res := tx.Model(&models.Request{}).
			Where("id = ? AND status = ?", req.ID, models.RequestStatusOpen).
			Where("one_time_use = ? OR used_count = 0", false).
			Update("used_count", gorm.Expr("used_count + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			if err := tx.First(&req, "id = ?", req.ID).Error; err != nil {
				return err
			}
			state := req.GateState()
			if state == models.TokenUsable {
				// Lost the race to another one-time consumer in between.
				state = models.TokenExhausted
			}
			return &TokenStateError{State: state}
		}

		var err error
		sub, err = insertSubmission(tx, req.ID, name, phone, email)
		return err
	})
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// AddSubmission records a submission directly against a request id,
// bypassing the token gate but not the duplicate-phone constraint. Used
// by the admin surface for manual entry.
func (s *Store) AddSubmission(requestID uint, name, phone, email string) (*models.Submission, error) {
	name = strings.TrimSpace(name)
	phone = strings.TrimSpace(phone)
	email = strings.TrimSpace(email)
	if err := validateSubmission(name, phone, email); err != nil {
		return nil, err
	}

	var sub *models.Submission
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Request{}).Where("id = ?", requestID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
		if err := tx.Model(&models.Request{}).Where("id = ?", requestID).
			Update("used_count", gorm.Expr("used_count + 1")).Error; err != nil {
			return err
		}
		var err error
		sub, err = insertSubmission(tx, requestID, name, phone, email)
		return err
	})
	if err != nil {
		return nil, err
	}
	return sub, nil
}

func insertSubmission(tx *gorm.DB, requestID uint, name, phone, email string) (*models.Submission, error) {
	sub := &models.Submission{
		RequestID:       requestID,
		Name:            name,
		Phone:           phone,
		PhoneNormalized: NormalizePhone(phone),
		Email:           email,
	}
	if err := tx.Create(sub).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &DuplicateSubmissionError{RequestID: requestID, Phone: phone}
		}
		return nil, err
	}
	return sub, nil
}

// ListSubmissions returns a request's submissions newest-first.
func (s *Store) ListSubmissions(requestID uint) ([]models.Submission, error) {
	var subs []models.Submission
	err := s.DB.Where("request_id = ?", requestID).
		Order("created_at DESC, id DESC").
		Find(&subs).Error
	if err != nil {
		return nil, err
	}
	return subs, nil
}

// ListAllSubmissions returns every submission newest-first, for exports.
func (s *Store) ListAllSubmissions() ([]models.Submission, error) {
	var subs []models.Submission
	if err := s.DB.Order("created_at DESC, id DESC").Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

// CountSubmissions returns the number of submissions for a request.
func (s *Store) CountSubmissions(requestID uint) (int64, error) {
	var count int64
	err := s.DB.Model(&models.Submission{}).Where("request_id = ?", requestID).Count(&count).Error
	return count, err
}
