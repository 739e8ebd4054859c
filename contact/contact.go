package contact

import (
	"regexp"
	"strings"
	"time"

	"contactmanager/errs"
)

// MaxNameLength bounds the stored contact name.
const MaxNameLength = 100

var (
	ErrInvalidName     = errs.Errorf(errs.EINVALID, "Name is required")
	ErrNameTooLong     = errs.Errorf(errs.EINVALID, "Name must be at most %d characters", MaxNameLength)
	ErrInvalidEmail    = errs.Errorf(errs.EINVALID, "Please enter a valid email address")
	ErrInvalidPhone    = errs.Errorf(errs.EINVALID, "Please enter a valid phone number")
	ErrContactNotFound = errs.Errorf(errs.ENOTFOUND, "Contact not found")
	ErrNotAuthorized   = errs.Errorf(errs.EUNAUTHORIZED, "Not authorized")
	ErrOwnerRequired   = errs.Errorf(errs.EUNAUTHORIZED, "No token, authorization denied")
)

var (
	EmailPattern = regexp.MustCompile(`(?i)^[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}$`)
	PhonePattern = regexp.MustCompile(`^\+?[1-9]\d{0,15}$`)
)

// Contact is a person record owned by exactly one user.
type Contact struct {
	ID        string    `json:"id"`
	Owner     string    `json:"user"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"createdAt"`
}

// OwnedBy reports whether userID owns the contact.
func (c Contact) OwnedBy(userID string) bool {
	return userID != "" && c.Owner == userID
}

// Input carries the user-editable fields of a contact.
type Input struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Normalize trims surrounding whitespace from every field.
func (in Input) Normalize() Input {
	return Input{
		Name:  strings.TrimSpace(in.Name),
		Email: strings.TrimSpace(in.Email),
		Phone: strings.TrimSpace(in.Phone),
	}
}

// Validate checks a normalized input. Email and phone are optional.
func (in Input) Validate() error {
	if in.Name == "" {
		return ErrInvalidName
	}

	if len([]rune(in.Name)) > MaxNameLength {
		return ErrNameTooLong
	}

	if in.Email != "" && !EmailPattern.MatchString(in.Email) {
		return ErrInvalidEmail
	}

	if in.Phone != "" && !PhonePattern.MatchString(in.Phone) {
		return ErrInvalidPhone
	}

	return nil
}

// Apply replaces the editable fields of c with in.
func (c Contact) Apply(in Input) Contact {
	c.Name = in.Name
	c.Email = in.Email
	c.Phone = in.Phone
	return c
}
