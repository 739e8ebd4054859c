// nolint: nestif
package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"contactmanager/errs"
	"contactmanager/user"
)

var (
	ErrInvalidCredentials = errs.Errorf(errs.EUNAUTHORIZED, "Invalid credentials")
	ErrAccountLocked      = errs.Errorf(errs.ETOOMANYREQUESTS, "Account temporarily locked, try again later")
	ErrInvalidToken       = errs.Errorf(errs.EUNAUTHORIZED, "Token is not valid")
)

type Service interface {
	Signup(ctx context.Context, name, email, password string) (string, error)
	Login(ctx context.Context, email, password string) (string, error)
	Authenticate(token string) (string, error)
}

type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
	CreateUser(ctx context.Context, u user.User) (user.User, error)
}

type LoginAttempt struct {
	FailedCount int
	JailedUntil time.Time
}

type LoginAttemptRepository interface {
	Get(ctx context.Context, email string) (LoginAttempt, error)
	Save(ctx context.Context, email string, attempt LoginAttempt) error
	Reset(ctx context.Context, email string) error
}

type PasswordHasher interface {
	Compare(hashed, plain string) error
	Hash(password string) (string, error)
}

// TokenProvider issues access tokens and resolves them back to a user id.
type TokenProvider interface {
	GenerateAccessToken(u user.User) (string, error)
	ParseAccessToken(token string) (string, error)
}

type Usecase struct {
	userRepo       UserRepository
	attemptsRepo   LoginAttemptRepository
	passwordHasher PasswordHasher
	tokenProvider  TokenProvider
	maxRetries     int
	jailDuration   time.Duration
	now            func() time.Time
}

func NewUsecase(
	userRepo UserRepository,
	attemptsRepo LoginAttemptRepository,
	passwordHasher PasswordHasher,
	tokenProvider TokenProvider,
) *Usecase {
	return &Usecase{
		userRepo:       userRepo,
		attemptsRepo:   attemptsRepo,
		passwordHasher: passwordHasher,
		tokenProvider:  tokenProvider,
		maxRetries:     5,
		jailDuration:   15 * time.Minute,
		now: func() time.Time {
			return time.Now().UTC()
		},
	}
}

func (uc *Usecase) Signup(ctx context.Context, name, email, password string) (string, error) {
	u := user.User{
		Name:     strings.TrimSpace(name),
		Email:    user.NormalizeEmail(email),
		Password: password,
	}
	if err := u.Validate(); err != nil {
		return "", err
	}

	hashed, err := uc.passwordHasher.Hash(u.Password)
	if err != nil {
		return "", err
	}
	u.Password = ""
	u.PasswordHash = hashed
	u.CreatedAt = uc.now()

	created, err := uc.userRepo.CreateUser(ctx, u)
	if err != nil {
		return "", err
	}

	return uc.tokenProvider.GenerateAccessToken(created)
}

func (uc *Usecase) Login(ctx context.Context, email, password string) (string, error) {
	email = user.NormalizeEmail(email)

	attempt, err := uc.attemptsRepo.Get(ctx, email)
	if err != nil {
		return "", err
	}

	if !attempt.JailedUntil.IsZero() {
		if attempt.JailedUntil.After(uc.now()) {
			return "", ErrAccountLocked
		}
		attempt.JailedUntil = time.Time{}
		attempt.FailedCount = 0
		if err := uc.attemptsRepo.Save(ctx, email, attempt); err != nil {
			return "", err
		}
	}

	u, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, user.ErrUserNotFound) {
			return "", err
		}
		if err := uc.recordFailure(ctx, email, attempt); err != nil {
			return "", err
		}
		return "", ErrInvalidCredentials
	}

	if err := uc.passwordHasher.Compare(u.PasswordHash, password); err != nil {
		if err := uc.recordFailure(ctx, email, attempt); err != nil {
			return "", err
		}
		return "", ErrInvalidCredentials
	}

	if err := uc.attemptsRepo.Reset(ctx, email); err != nil {
		return "", err
	}

	return uc.tokenProvider.GenerateAccessToken(u)
}

// Authenticate resolves an access token to the id of the user it was issued to.
func (uc *Usecase) Authenticate(token string) (string, error) {
	if strings.TrimSpace(token) == "" {
		return "", ErrInvalidToken
	}

	userID, err := uc.tokenProvider.ParseAccessToken(token)
	if err != nil || userID == "" {
		return "", ErrInvalidToken
	}
	return userID, nil
}

func (uc *Usecase) recordFailure(ctx context.Context, email string, attempt LoginAttempt) error {
	attempt.FailedCount++
	if attempt.FailedCount >= uc.maxRetries {
		attempt.FailedCount = 0
		attempt.JailedUntil = uc.now().Add(uc.jailDuration)
	}
	return uc.attemptsRepo.Save(ctx, email, attempt)
}
