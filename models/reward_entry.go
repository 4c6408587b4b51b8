package models

import "time"

// RewardEntry is one signed adjustment in the append-only rewards ledger.
// Positive points credit, negative points debit (payouts use reason
// "paid"). The (Name, Phone) identity is matched byte-for-byte, case
// sensitive — near-duplicate spellings fragment a person's balance. That
// mirrors how admins key adjustments and is a documented limitation, not
// something this layer normalizes away.
type RewardEntry struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	Name   string `gorm:"size:100;not null;index:idx_reward_entries_identity" json:"name"`
	Phone  string `gorm:"size:20;not null;index:idx_reward_entries_identity" json:"phone"`
	Points int    `gorm:"not null" json:"points"`
	Reason string `json:"reason"`

	CreatedAt time.Time `json:"created_at"`
}

// PayoutReason marks ledger entries written by the pay-in-full operation.
const PayoutReason = "paid"
