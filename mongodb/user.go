package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"contactmanager/auth"
	"contactmanager/user"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type userDocument struct {
	ID        bson.ObjectID `bson:"_id,omitempty"`
	Name      string        `bson:"name"`
	Email     string        `bson:"email"`
	Password  string        `bson:"password"`
	CreatedAt time.Time     `bson:"createdAt"`
}

// UserRepository stores users; email uniqueness relies on the index created
// by EnsureIndexes.
type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(UsersCollection)}
}

func (r *UserRepository) CreateUser(ctx context.Context, u user.User) (user.User, error) {
	doc := userDocument{
		ID:        bson.NewObjectID(),
		Name:      u.Name,
		Email:     user.NormalizeEmail(u.Email),
		Password:  u.PasswordHash,
		CreatedAt: u.CreatedAt.UTC().Truncate(time.Millisecond),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return user.User{}, user.ErrEmailAlreadyExists
		}
		return user.User{}, fmt.Errorf("mongodb: insert user: %w", err)
	}
	return toDomainUser(doc), nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	var doc userDocument
	err := r.coll.FindOne(ctx, bson.D{{Key: "email", Value: user.NormalizeEmail(email)}}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("mongodb: find user: %w", err)
	}
	return toDomainUser(doc), nil
}

func toDomainUser(doc userDocument) user.User {
	return user.User{
		ID:           doc.ID.Hex(),
		Name:         doc.Name,
		Email:        doc.Email,
		PasswordHash: doc.Password,
		CreatedAt:    doc.CreatedAt.UTC(),
	}
}

type loginAttemptDocument struct {
	Email       string     `bson:"_id"`
	FailedCount int        `bson:"failedCount"`
	JailedUntil *time.Time `bson:"jailedUntil,omitempty"`
}

// LoginAttemptRepository implements [auth.LoginAttemptRepository], one
// document per email.
type LoginAttemptRepository struct {
	coll *mongo.Collection
}

func NewLoginAttemptRepository(db *mongo.Database) *LoginAttemptRepository {
	return &LoginAttemptRepository{coll: db.Collection(LoginAttemptsCollection)}
}

func (r *LoginAttemptRepository) Get(ctx context.Context, email string) (auth.LoginAttempt, error) {
	var doc loginAttemptDocument
	err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: email}}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return auth.LoginAttempt{}, nil
		}
		return auth.LoginAttempt{}, fmt.Errorf("mongodb: find login attempt: %w", err)
	}

	attempt := auth.LoginAttempt{FailedCount: doc.FailedCount}
	if doc.JailedUntil != nil {
		attempt.JailedUntil = doc.JailedUntil.UTC()
	}
	return attempt, nil
}

func (r *LoginAttemptRepository) Save(ctx context.Context, email string, attempt auth.LoginAttempt) error {
	doc := loginAttemptDocument{Email: email, FailedCount: attempt.FailedCount}
	if !attempt.JailedUntil.IsZero() {
		t := attempt.JailedUntil.UTC()
		doc.JailedUntil = &t
	}

	_, err := r.coll.ReplaceOne(ctx, bson.D{{Key: "_id", Value: email}}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("mongodb: save login attempt: %w", err)
	}
	return nil
}

func (r *LoginAttemptRepository) Reset(ctx context.Context, email string) error {
	if _, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: email}}); err != nil {
		return fmt.Errorf("mongodb: reset login attempt: %w", err)
	}
	return nil
}
