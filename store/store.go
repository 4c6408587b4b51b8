package store

import (
	"errors"

	"gorm.io/gorm"

	"qr-request-manager/models"
)

// Store is the persistence core behind the admin and public surfaces:
// settings, the request registry, the token gate, the submission ledger
// and the rewards ledger. Every mutating operation either fully applies
// or fully fails; multi-row writes run in a single transaction.
type Store struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{DB: db}
}

// WipeConfirmToken is the confirmation the caller must pass to Wipe.
// Mirrors the typed "DELETE" confirmation in the admin UI so the factory
// reset cannot be triggered accidentally.
const WipeConfirmToken = "DELETE"

var ErrWipeNotConfirmed = errors.New(`wipe not confirmed: pass confirm="DELETE"`)

// Wipe permanently deletes all settings, requests, submissions and reward
// entries. Irreversible. Order matters: submissions reference requests.
func (s *Store) Wipe(confirm string) error {
	if confirm != WipeConfirmToken {
		return ErrWipeNotConfirmed
	}
	return s.DB.Transaction(func(tx *gorm.DB) error {
		for _, m := range []any{
			&models.Submission{},
			&models.Request{},
			&models.RewardEntry{},
			&models.Setting{},
		} {
			if err := tx.Where("1 = 1").Delete(m).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
