package memory

import (
	"context"
	"sync"

	"contactmanager/auth"
	"contactmanager/user"

	"github.com/google/uuid"
)

// UserRepository is an in-memory user store keyed by normalized email.
type UserRepository struct {
	users map[string]user.User
	mu    sync.RWMutex
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]user.User)}
}

func (r *UserRepository) CreateUser(_ context.Context, u user.User) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	email := user.NormalizeEmail(u.Email)
	if _, ok := r.users[email]; ok {
		return user.User{}, user.ErrEmailAlreadyExists
	}

	u.ID = uuid.NewString()
	u.Email = email
	u.Password = ""
	r.users[email] = u
	return u, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[user.NormalizeEmail(email)]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

// LoginAttemptRepository keeps failed login counters in memory.
type LoginAttemptRepository struct {
	attempts map[string]auth.LoginAttempt
	mu       sync.Mutex
}

func NewLoginAttemptRepository() *LoginAttemptRepository {
	return &LoginAttemptRepository{attempts: make(map[string]auth.LoginAttempt)}
}

func (r *LoginAttemptRepository) Get(_ context.Context, email string) (auth.LoginAttempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.attempts[email], nil
}

func (r *LoginAttemptRepository) Save(_ context.Context, email string, attempt auth.LoginAttempt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attempts[email] = attempt
	return nil
}

func (r *LoginAttemptRepository) Reset(_ context.Context, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.attempts, email)
	return nil
}
