package dynamodb

import (
	"context"
	"fmt"

	"contactmanager/user"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// UserRepository keys users by normalized email so the uniqueness check is a
// conditional put.
type UserRepository struct {
	client API
	table  string
}

type userItem struct {
	Email        string `dynamodbav:"email"`
	ID           string `dynamodbav:"id"`
	Name         string `dynamodbav:"name"`
	PasswordHash string `dynamodbav:"password_hash"`
	CreatedAt    string `dynamodbav:"created_at"`
}

func NewUserRepository(client API, table string) *UserRepository {
	return &UserRepository{
		client: client,
		table:  table,
	}
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	if err := validateTable(r.table); err != nil {
		return user.User{}, err
	}

	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &r.table,
		Key: map[string]types.AttributeValue{
			"email": &types.AttributeValueMemberS{Value: user.NormalizeEmail(email)},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return user.User{}, fmt.Errorf("dynamodb: get user: %w", err)
	}
	if len(out.Item) == 0 {
		return user.User{}, user.ErrUserNotFound
	}

	var item userItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return user.User{}, fmt.Errorf("dynamodb: unmarshal user: %w", err)
	}

	return toDomainUser(item)
}

func (r *UserRepository) CreateUser(ctx context.Context, u user.User) (user.User, error) {
	if err := validateTable(r.table); err != nil {
		return user.User{}, err
	}

	item := userItem{
		Email:        user.NormalizeEmail(u.Email),
		ID:           uuid.NewString(),
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		CreatedAt:    formatTime(u.CreatedAt),
	}
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return user.User{}, fmt.Errorf("dynamodb: marshal user: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           &r.table,
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(email)"),
	})
	if err != nil {
		if isConditionFailed(err) {
			return user.User{}, user.ErrEmailAlreadyExists
		}
		return user.User{}, fmt.Errorf("dynamodb: put user: %w", err)
	}

	return toDomainUser(item)
}

func toDomainUser(item userItem) (user.User, error) {
	createdAt, err := parseTime(item.CreatedAt)
	if err != nil {
		return user.User{}, fmt.Errorf("dynamodb: parse created_at: %w", err)
	}
	return user.User{
		ID:           item.ID,
		Name:         item.Name,
		Email:        item.Email,
		PasswordHash: item.PasswordHash,
		CreatedAt:    createdAt,
	}, nil
}
