package models

import "time"

// Well-known setting keys.
const (
	SettingBaseURL = "base_url" // external base URL encoded into form links
)

// Setting is an admin-configurable key/value pair. Writes are
// last-write-wins; settings are admin-only and low frequency, so
// concurrent writers race freely and the later commit stands.
type Setting struct {
	Key       string    `gorm:"primaryKey;size:100" json:"key"`
	Value     string    `gorm:"not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}
