package store

import (
	"errors"
	"fmt"

	"qr-request-manager/models"
)

// ErrNotFound reports an operation on a nonexistent record.
var ErrNotFound = errors.New("record not found")

// ValidationError reports malformed input. It never corrupts state; the
// caller can re-prompt and retry.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Msg)
}

// DuplicateSubmissionError reports that a phone number was already used
// for the same request.
type DuplicateSubmissionError struct {
	RequestID uint
	Phone     string
}

func (e *DuplicateSubmissionError) Error() string {
	return "a submission with this phone number already exists for this request"
}

// TokenStateError reports a token that cannot be used for submission.
type TokenStateError struct {
	State models.TokenState
}

func (e *TokenStateError) Error() string {
	switch e.State {
	case models.TokenUnknown:
		return "invalid or expired token"
	case models.TokenClosed:
		return "this form is currently closed"
	case models.TokenExhausted:
		return "this QR code has already been used"
	}
	return "token not usable: " + string(e.State)
}
