package user

import (
	"context"
	"regexp"
	"strings"
	"time"

	"contactmanager/errs"
)

// MinPasswordLength is the shortest password accepted at signup.
const MinPasswordLength = 6

var (
	ErrInvalidName        = errs.Errorf(errs.EINVALID, "Name is required")
	ErrInvalidEmail       = errs.Errorf(errs.EINVALID, "Please enter a valid email address")
	ErrInvalidPassword    = errs.Errorf(errs.EINVALID, "Password must be at least %d characters", MinPasswordLength)
	ErrUserNotFound       = errs.Errorf(errs.ENOTFOUND, "user: not found")
	ErrEmailAlreadyExists = errs.Errorf(errs.ECONFLICT, "User already exists")
)

var emailPattern = regexp.MustCompile(`(?i)^[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}$`)

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`

	// Password is the plain text password; it is only set between signup
	// validation and hashing.
	Password string `json:"-"`
}

// Repository persists users. GetByEmail returns ErrUserNotFound when no user
// has the email and CreateUser returns ErrEmailAlreadyExists on a duplicate.
type Repository interface {
	CreateUser(ctx context.Context, u User) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
}

// NormalizeEmail lower-cases and trims an email so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (u User) Validate() error {
	if strings.TrimSpace(u.Name) == "" {
		return ErrInvalidName
	}

	if !emailPattern.MatchString(strings.TrimSpace(u.Email)) {
		return ErrInvalidEmail
	}

	if len(u.Password) < MinPasswordLength {
		return ErrInvalidPassword
	}

	return nil
}
