package postgres

import (
	"context"
	"errors"
	"time"

	"contactmanager/user"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserModel represents the database model for users
type UserModel struct {
	ID           string    `gorm:"type:uuid;primaryKey"`
	Name         string    `gorm:"not null"`
	Email        string    `gorm:"not null;unique"`
	PasswordHash string    `gorm:"not null"`
	CreatedAt    time.Time `gorm:"not null"`
}

// TableName specifies the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// UserRepository implements user.Repository interface
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByEmail implements [auth.UserRepository].
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	var model UserModel

	err := r.db.WithContext(ctx).Where("email = ?", user.NormalizeEmail(email)).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, err
	}

	return toDomainUser(model), nil
}

// CreateUser creates a new user in the database
func (r *UserRepository) CreateUser(ctx context.Context, u user.User) (user.User, error) {
	u.ID = uuid.NewString()
	model := toModelUser(u)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return user.User{}, user.ErrEmailAlreadyExists
		}
		return user.User{}, err
	}
	return toDomainUser(model), nil
}

func toDomainUser(model UserModel) user.User {
	return user.User{
		ID:           model.ID,
		Name:         model.Name,
		Email:        model.Email,
		PasswordHash: model.PasswordHash,
		CreatedAt:    model.CreatedAt.UTC(),
	}
}

func toModelUser(u user.User) UserModel {
	createdAt := u.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	return UserModel{
		ID:           u.ID,
		Name:         u.Name,
		Email:        user.NormalizeEmail(u.Email),
		PasswordHash: u.PasswordHash,
		CreatedAt:    createdAt.UTC(),
	}
}
