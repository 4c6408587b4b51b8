package models

import "time"

// Submission is one public-form entry. Phone keeps the formatting the
// submitter typed; PhoneNormalized is the digits-only form that the
// per-request uniqueness constraint compares, so "555-1234" and
// "(555) 1234" count as the same number.
type Submission struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	RequestID       uint   `gorm:"not null;index;uniqueIndex:idx_submissions_request_phone" json:"request_id"`
	Name            string `gorm:"size:100;not null" json:"name"`
	Phone           string `gorm:"size:20;not null" json:"phone"`
	PhoneNormalized string `gorm:"size:20;not null;uniqueIndex:idx_submissions_request_phone" json:"-"`
	Email           string `gorm:"size:100" json:"email,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
