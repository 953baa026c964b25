package form

import (
	"regexp"
	"strings"

	"user-registration/pkg/models"
)

// Validation messages shown next to the failing field.
const (
	MsgEmailRequired     = "Email is required"
	MsgEmailInvalid      = "Please enter a valid email address"
	MsgFirstNameRequired = "First name is required"
	MsgLastNameRequired  = "Last name is required"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether email has a local@domain.tld shape.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// Validate checks every field and returns the messages for those failing.
// The result is empty when data may be submitted.
func Validate(data models.UserData) models.FormErrors {
	errs := models.FormErrors{}

	if strings.TrimSpace(data.Email) == "" {
		errs[models.FieldEmail] = MsgEmailRequired
	} else if !ValidEmail(data.Email) {
		errs[models.FieldEmail] = MsgEmailInvalid
	}

	if strings.TrimSpace(data.FirstName) == "" {
		errs[models.FieldFirstName] = MsgFirstNameRequired
	}

	if strings.TrimSpace(data.LastName) == "" {
		errs[models.FieldLastName] = MsgLastNameRequired
	}

	return errs
}
