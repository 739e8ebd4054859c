package dynamodb

import (
	"context"
	"fmt"

	"contactmanager/auth"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type LoginAttemptRepository struct {
	client API
	table  string
}

type loginAttemptItem struct {
	Email       string `dynamodbav:"email"`
	FailedCount int    `dynamodbav:"failed_count"`
	JailedUntil string `dynamodbav:"jailed_until,omitempty"`
}

func NewLoginAttemptRepository(client API, table string) *LoginAttemptRepository {
	return &LoginAttemptRepository{
		client: client,
		table:  table,
	}
}

func (r *LoginAttemptRepository) Get(ctx context.Context, email string) (auth.LoginAttempt, error) {
	if err := validateTable(r.table); err != nil {
		return auth.LoginAttempt{}, err
	}

	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      &r.table,
		Key:            attemptKey(email),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return auth.LoginAttempt{}, fmt.Errorf("dynamodb: get login attempt: %w", err)
	}
	if len(out.Item) == 0 {
		return auth.LoginAttempt{}, nil
	}

	var item loginAttemptItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return auth.LoginAttempt{}, fmt.Errorf("dynamodb: unmarshal login attempt: %w", err)
	}

	jailedUntil, err := parseTime(item.JailedUntil)
	if err != nil {
		return auth.LoginAttempt{}, fmt.Errorf("dynamodb: parse jailed_until: %w", err)
	}

	return auth.LoginAttempt{
		FailedCount: item.FailedCount,
		JailedUntil: jailedUntil,
	}, nil
}

func (r *LoginAttemptRepository) Save(ctx context.Context, email string, attempt auth.LoginAttempt) error {
	if err := validateTable(r.table); err != nil {
		return err
	}

	item := loginAttemptItem{Email: email, FailedCount: attempt.FailedCount}
	if !attempt.JailedUntil.IsZero() {
		item.JailedUntil = formatTime(attempt.JailedUntil)
	}
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("dynamodb: marshal login attempt: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &r.table,
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("dynamodb: put login attempt: %w", err)
	}

	return nil
}

func (r *LoginAttemptRepository) Reset(ctx context.Context, email string) error {
	if err := validateTable(r.table); err != nil {
		return err
	}

	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: &r.table,
		Key:       attemptKey(email),
	})
	if err != nil {
		return fmt.Errorf("dynamodb: delete login attempt: %w", err)
	}

	return nil
}

func attemptKey(email string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"email": &types.AttributeValueMemberS{Value: email},
	}
}
