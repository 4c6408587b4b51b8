package store

import (
	"errors"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var (
	phonePattern = regexp.MustCompile(`^[0-9+\-()\s]{7,20}$`)
	nonDigits    = regexp.MustCompile(`[^0-9]`)
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// NormalizePhone strips formatting characters, leaving digits only. This
// is the form the per-request uniqueness constraint compares; the stored
// Phone keeps the submitter's formatting for display.
func NormalizePhone(phone string) string {
	return nonDigits.ReplaceAllString(phone, "")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Charset and digit count both have to pass: "+1 (555) 000-1111" is
	// valid, "12 345" is not (only 5 digits).
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		phone := fl.Field().String()
		if !phonePattern.MatchString(phone) {
			return false
		}
		digits := len(NormalizePhone(phone))
		return digits >= 7 && digits <= 20
	})
	_ = v.RegisterValidation("formemail", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	return v
}

// submissionInput carries the already-trimmed public-form fields.
type submissionInput struct {
	Name  string `validate:"required,min=2,max=100"`
	Phone string `validate:"required,phone"`
	Email string `validate:"omitempty,formemail,max=100"`
}

func validateSubmission(name, phone, email string) error {
	err := validate.Struct(submissionInput{Name: name, Phone: phone, Email: email})
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		switch verrs[0].Field() {
		case "Name":
			return &ValidationError{Field: "name", Msg: "must be 2-100 characters"}
		case "Phone":
			return &ValidationError{Field: "phone", Msg: "must be a valid phone number (7-20 digits)"}
		case "Email":
			return &ValidationError{Field: "email", Msg: "must be a valid email address of at most 100 characters"}
		}
	}
	return err
}
