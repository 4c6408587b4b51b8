package store

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"qr-request-manager/models"
)

// SetSetting upserts a key. Last write wins; there are no merge semantics.
func (s *Store) SetSetting(key, value string) error {
	if key == "" {
		return &ValidationError{Field: "key", Msg: "is required"}
	}
	return s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&models.Setting{Key: key, Value: value}).Error
}

// GetSetting returns the stored value, or def when the key is absent.
func (s *Store) GetSetting(key, def string) (string, error) {
	var setting models.Setting
	err := s.DB.First(&setting, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return def, nil
	}
	if err != nil {
		return "", err
	}
	return setting.Value, nil
}

// ListSettings returns all settings ordered by key.
func (s *Store) ListSettings() ([]models.Setting, error) {
	var settings []models.Setting
	if err := s.DB.Order("key ASC").Find(&settings).Error; err != nil {
		return nil, err
	}
	return settings, nil
}
