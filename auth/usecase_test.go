package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"contactmanager/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(user.User), args.Error(1)
}

func (m *mockUserRepository) CreateUser(ctx context.Context, u user.User) (user.User, error) {
	args := m.Called(ctx, u)
	return args.Get(0).(user.User), args.Error(1)
}

type mockAttemptRepository struct {
	mock.Mock
}

func (m *mockAttemptRepository) Get(ctx context.Context, email string) (LoginAttempt, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(LoginAttempt), args.Error(1)
}

func (m *mockAttemptRepository) Save(ctx context.Context, email string, attempt LoginAttempt) error {
	return m.Called(ctx, email, attempt).Error(0)
}

func (m *mockAttemptRepository) Reset(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (plainHasher) Compare(hashed, plain string) error {
	if hashed != "hashed:"+plain {
		return errors.New("mismatch")
	}
	return nil
}

type fakeTokens struct{}

func (fakeTokens) GenerateAccessToken(u user.User) (string, error) { return "token-" + u.ID, nil }

func (fakeTokens) ParseAccessToken(token string) (string, error) {
	if len(token) > 6 && token[:6] == "token-" {
		return token[6:], nil
	}
	return "", errors.New("bad token")
}

var now = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func newTestUsecase(users *mockUserRepository, attempts *mockAttemptRepository) *Usecase {
	uc := NewUsecase(users, attempts, plainHasher{}, fakeTokens{})
	uc.now = func() time.Time { return now }
	return uc
}

func TestSignup(t *testing.T) {
	t.Run("should create user and return token", func(t *testing.T) {
		users := new(mockUserRepository)
		uc := newTestUsecase(users, new(mockAttemptRepository))

		users.On("CreateUser", mock.Anything, mock.MatchedBy(func(u user.User) bool {
			return u.Email == "alice@example.com" && u.PasswordHash == "hashed:secret1" && u.Password == ""
		})).Return(user.User{ID: "u-1", Email: "alice@example.com"}, nil).Once()

		token, err := uc.Signup(context.Background(), "Alice", " Alice@Example.com ", "secret1")

		require.NoError(t, err)
		assert.Equal(t, "token-u-1", token)
		users.AssertExpectations(t)
	})

	t.Run("should reject short password", func(t *testing.T) {
		users := new(mockUserRepository)
		uc := newTestUsecase(users, new(mockAttemptRepository))

		_, err := uc.Signup(context.Background(), "Alice", "alice@example.com", "123")

		assert.Equal(t, user.ErrInvalidPassword, err)
		users.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	})

	t.Run("should surface duplicate email", func(t *testing.T) {
		users := new(mockUserRepository)
		uc := newTestUsecase(users, new(mockAttemptRepository))
		users.On("CreateUser", mock.Anything, mock.Anything).Return(user.User{}, user.ErrEmailAlreadyExists).Once()

		_, err := uc.Signup(context.Background(), "Alice", "alice@example.com", "secret1")

		assert.Equal(t, user.ErrEmailAlreadyExists, err)
	})
}

func TestLogin(t *testing.T) {
	stored := user.User{ID: "u-1", Email: "alice@example.com", PasswordHash: "hashed:secret1"}

	t.Run("should return token and reset attempts", func(t *testing.T) {
		users, attempts := new(mockUserRepository), new(mockAttemptRepository)
		uc := newTestUsecase(users, attempts)
		attempts.On("Get", mock.Anything, "alice@example.com").Return(LoginAttempt{FailedCount: 2}, nil).Once()
		users.On("GetByEmail", mock.Anything, "alice@example.com").Return(stored, nil).Once()
		attempts.On("Reset", mock.Anything, "alice@example.com").Return(nil).Once()

		token, err := uc.Login(context.Background(), "ALICE@example.com", "secret1")

		require.NoError(t, err)
		assert.Equal(t, "token-u-1", token)
		attempts.AssertExpectations(t)
	})

	t.Run("should record failure on wrong password", func(t *testing.T) {
		users, attempts := new(mockUserRepository), new(mockAttemptRepository)
		uc := newTestUsecase(users, attempts)
		attempts.On("Get", mock.Anything, "alice@example.com").Return(LoginAttempt{FailedCount: 1}, nil).Once()
		users.On("GetByEmail", mock.Anything, "alice@example.com").Return(stored, nil).Once()
		attempts.On("Save", mock.Anything, "alice@example.com", LoginAttempt{FailedCount: 2}).Return(nil).Once()

		_, err := uc.Login(context.Background(), "alice@example.com", "wrong")

		assert.Equal(t, ErrInvalidCredentials, err)
		attempts.AssertExpectations(t)
	})

	t.Run("should treat unknown email as invalid credentials", func(t *testing.T) {
		users, attempts := new(mockUserRepository), new(mockAttemptRepository)
		uc := newTestUsecase(users, attempts)
		attempts.On("Get", mock.Anything, "bob@example.com").Return(LoginAttempt{}, nil).Once()
		users.On("GetByEmail", mock.Anything, "bob@example.com").Return(user.User{}, user.ErrUserNotFound).Once()
		attempts.On("Save", mock.Anything, "bob@example.com", LoginAttempt{FailedCount: 1}).Return(nil).Once()

		_, err := uc.Login(context.Background(), "bob@example.com", "whatever")

		assert.Equal(t, ErrInvalidCredentials, err)
	})

	t.Run("should jail after max retries", func(t *testing.T) {
		users, attempts := new(mockUserRepository), new(mockAttemptRepository)
		uc := newTestUsecase(users, attempts)
		attempts.On("Get", mock.Anything, "alice@example.com").Return(LoginAttempt{FailedCount: 4}, nil).Once()
		users.On("GetByEmail", mock.Anything, "alice@example.com").Return(stored, nil).Once()
		attempts.On("Save", mock.Anything, "alice@example.com", LoginAttempt{JailedUntil: now.Add(15 * time.Minute)}).Return(nil).Once()

		_, err := uc.Login(context.Background(), "alice@example.com", "wrong")

		assert.Equal(t, ErrInvalidCredentials, err)
		attempts.AssertExpectations(t)
	})

	t.Run("should refuse while jailed", func(t *testing.T) {
		users, attempts := new(mockUserRepository), new(mockAttemptRepository)
		uc := newTestUsecase(users, attempts)
		attempts.On("Get", mock.Anything, "alice@example.com").Return(LoginAttempt{JailedUntil: now.Add(time.Minute)}, nil).Once()

		_, err := uc.Login(context.Background(), "alice@example.com", "secret1")

		assert.Equal(t, ErrAccountLocked, err)
		users.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
	})

	t.Run("should propagate store failure", func(t *testing.T) {
		users, attempts := new(mockUserRepository), new(mockAttemptRepository)
		uc := newTestUsecase(users, attempts)
		storeErr := errors.New("db down")
		attempts.On("Get", mock.Anything, "alice@example.com").Return(LoginAttempt{}, nil).Once()
		users.On("GetByEmail", mock.Anything, "alice@example.com").Return(user.User{}, storeErr).Once()

		_, err := uc.Login(context.Background(), "alice@example.com", "secret1")

		assert.ErrorIs(t, err, storeErr)
		attempts.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAuthenticate(t *testing.T) {
	uc := newTestUsecase(new(mockUserRepository), new(mockAttemptRepository))

	userID, err := uc.Authenticate("token-u-1")
	require.NoError(t, err)
	assert.Equal(t, "u-1", userID)

	_, err = uc.Authenticate("garbage")
	assert.Equal(t, ErrInvalidToken, err)

	_, err = uc.Authenticate(" ")
	assert.Equal(t, ErrInvalidToken, err)
}
