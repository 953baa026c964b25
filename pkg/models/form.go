package models

// Form field names, as posted by the registration form and used as FormErrors keys
const (
	FieldEmail     = "email"
	FieldFirstName = "firstName"
	FieldLastName  = "lastName"
)

// Fields lists the registration form fields in display order
var Fields = []string{FieldEmail, FieldFirstName, FieldLastName}

// UserData represents the data structure coming from the registration form
type UserData struct {
	Email     string `json:"email" form:"email"`
	FirstName string `json:"firstName" form:"firstName"`
	LastName  string `json:"lastName" form:"lastName"`
}

// Get returns the value of the named field
func (u UserData) Get(field string) (string, bool) {
	switch field {
	case FieldEmail:
		return u.Email, true
	case FieldFirstName:
		return u.FirstName, true
	case FieldLastName:
		return u.LastName, true
	}
	return "", false
}

// Set updates the named field and reports whether the name is known
func (u *UserData) Set(field, value string) bool {
	switch field {
	case FieldEmail:
		u.Email = value
	case FieldFirstName:
		u.FirstName = value
	case FieldLastName:
		u.LastName = value
	default:
		return false
	}
	return true
}

// FormErrors maps a field name to its validation message.
// Only fields that currently fail validation have an entry.
type FormErrors map[string]string

// Has reports whether field has a non-empty message
func (e FormErrors) Has(field string) bool {
	return e[field] != ""
}

// StatusType tags a SubmitStatus
type StatusType string

const (
	StatusSuccess StatusType = "success"
	StatusError   StatusType = "error"
)

// SubmitStatus describes the outcome of the last submission
type SubmitStatus struct {
	Type    StatusType `json:"type"`
	Message string     `json:"message"`
}
