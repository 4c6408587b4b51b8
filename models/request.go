package models

import "time"

const (
	RequestStatusOpen   = "open"
	RequestStatusClosed = "closed"
)

// Request is a scannable form request. Token is the opaque identifier the
// QR layer embeds in the code; it is generated once at creation and never
// changes. UsedCount is incremented exactly once per accepted submission.
type Request struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"not null" json:"title"`
	Description string `json:"description"`
	Status      string `gorm:"not null;default:'open';index" json:"status"` // open | closed
	Token       string `gorm:"uniqueIndex;size:64;not null" json:"token"`

	OneTimeUse bool `gorm:"not null;default:false" json:"one_time_use"`
	UsedCount  int  `gorm:"not null;default:0" json:"used_count"`

	// Per-request reward metadata. Previously string-keyed settings
	// (points_{id}, qr_custom_{id}); now typed fields on the record.
	PointsPerSubmission int    `gorm:"not null;default:0" json:"points_per_submission"`
	CustomContent       string `json:"custom_content,omitempty"` // overrides the generated link as QR payload

	// Optional deadline; the scheduler closes open requests once passed.
	CloseAt *time.Time `json:"close_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`

	Submissions []Submission `json:"submissions,omitempty" gorm:"foreignKey:RequestID"`
}

// TokenState classifies whether a request's token may still be used.
type TokenState string

const (
	TokenUnknown   TokenState = "UNKNOWN_TOKEN"
	TokenClosed    TokenState = "CLOSED"
	TokenExhausted TokenState = "EXHAUSTED"
	TokenUsable    TokenState = "USABLE"
)

// GateState returns the token gate decision for r. A nil request is an
// unknown token. CLOSED and EXHAUSTED are terminal for the token itself;
// only an admin action (reopen, new request) changes them.
func (r *Request) GateState() TokenState {
	if r == nil {
		return TokenUnknown
	}
	if r.Status != RequestStatusOpen {
		return TokenClosed
	}
	if r.OneTimeUse && r.UsedCount > 0 {
		return TokenExhausted
	}
	return TokenUsable
}
