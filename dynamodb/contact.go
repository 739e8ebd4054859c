package dynamodb

import (
	"context"
	"errors"
	"fmt"

	"contactmanager/contact"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

type ContactRepository struct {
	client API
	table  string
}

type contactItem struct {
	ID        string `dynamodbav:"id"`
	User      string `dynamodbav:"user"`
	Name      string `dynamodbav:"name"`
	Email     string `dynamodbav:"email"`
	Phone     string `dynamodbav:"phone"`
	CreatedAt string `dynamodbav:"created_at"`
}

func (item contactItem) toDomain() (contact.Contact, error) {
	createdAt, err := parseTime(item.CreatedAt)
	if err != nil {
		return contact.Contact{}, fmt.Errorf("dynamodb: parse created_at: %w", err)
	}
	return contact.Contact{
		ID:        item.ID,
		Owner:     item.User,
		Name:      item.Name,
		Email:     item.Email,
		Phone:     item.Phone,
		CreatedAt: createdAt,
	}, nil
}

func NewContactRepository(client API, table string) *ContactRepository {
	return &ContactRepository{
		client: client,
		table:  table,
	}
}

func (r *ContactRepository) CreateContact(ctx context.Context, c contact.Contact) (contact.Contact, error) {
	if err := validateTable(r.table); err != nil {
		return contact.Contact{}, err
	}

	item := contactItem{
		ID:        uuid.NewString(),
		User:      c.Owner,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		CreatedAt: formatTime(c.CreatedAt),
	}
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return contact.Contact{}, fmt.Errorf("dynamodb: marshal contact: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           &r.table,
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	if err != nil {
		return contact.Contact{}, fmt.Errorf("dynamodb: put contact: %w", err)
	}

	return item.toDomain()
}

// ContactsByOwner queries the owner index newest first.
func (r *ContactRepository) ContactsByOwner(ctx context.Context, ownerID string) ([]contact.Contact, error) {
	if err := validateTable(r.table); err != nil {
		return nil, err
	}

	contacts := make([]contact.Contact, 0)
	paginator := dynamodb.NewQueryPaginator(r.client, &dynamodb.QueryInput{
		TableName:              &r.table,
		IndexName:              aws.String(ContactsByOwnerIndex),
		KeyConditionExpression: aws.String("#user = :user"),
		ExpressionAttributeNames: map[string]string{
			"#user": "user",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":user": &types.AttributeValueMemberS{Value: ownerID},
		},
		ScanIndexForward: aws.Bool(false),
	})
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("dynamodb: query contacts: %w", err)
		}

		var items []contactItem
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &items); err != nil {
			return nil, fmt.Errorf("dynamodb: unmarshal contacts: %w", err)
		}
		for _, item := range items {
			c, err := item.toDomain()
			if err != nil {
				return nil, err
			}
			contacts = append(contacts, c)
		}
	}

	return contacts, nil
}

func (r *ContactRepository) GetContact(ctx context.Context, id string) (contact.Contact, error) {
	if err := validateTable(r.table); err != nil {
		return contact.Contact{}, err
	}
	if id == "" {
		return contact.Contact{}, contact.ErrContactNotFound
	}

	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      &r.table,
		Key:            contactKey(id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return contact.Contact{}, fmt.Errorf("dynamodb: get contact: %w", err)
	}
	if len(out.Item) == 0 {
		return contact.Contact{}, contact.ErrContactNotFound
	}

	var item contactItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return contact.Contact{}, fmt.Errorf("dynamodb: unmarshal contact: %w", err)
	}
	return item.toDomain()
}

func (r *ContactRepository) UpdateContact(ctx context.Context, c contact.Contact) (contact.Contact, error) {
	if err := validateTable(r.table); err != nil {
		return contact.Contact{}, err
	}
	if c.ID == "" {
		return contact.Contact{}, contact.ErrContactNotFound
	}

	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           &r.table,
		Key:                 contactKey(c.ID),
		ConditionExpression: aws.String("attribute_exists(id)"),
		UpdateExpression:    aws.String("SET #name = :name, email = :email, phone = :phone"),
		ExpressionAttributeNames: map[string]string{
			"#name": "name",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":name":  &types.AttributeValueMemberS{Value: c.Name},
			":email": &types.AttributeValueMemberS{Value: c.Email},
			":phone": &types.AttributeValueMemberS{Value: c.Phone},
		},
		ReturnValues: types.ReturnValueAllNew,
	})
	if err != nil {
		if isConditionFailed(err) {
			return contact.Contact{}, contact.ErrContactNotFound
		}
		return contact.Contact{}, fmt.Errorf("dynamodb: update contact: %w", err)
	}

	var item contactItem
	if err := attributevalue.UnmarshalMap(out.Attributes, &item); err != nil {
		return contact.Contact{}, fmt.Errorf("dynamodb: unmarshal contact: %w", err)
	}
	return item.toDomain()
}

func (r *ContactRepository) DeleteContact(ctx context.Context, id string) error {
	if err := validateTable(r.table); err != nil {
		return err
	}
	if id == "" {
		return contact.ErrContactNotFound
	}

	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           &r.table,
		Key:                 contactKey(id),
		ConditionExpression: aws.String("attribute_exists(id)"),
	})
	if err != nil {
		if isConditionFailed(err) {
			return contact.ErrContactNotFound
		}
		return fmt.Errorf("dynamodb: delete contact: %w", err)
	}
	return nil
}

func contactKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: id},
	}
}

func isConditionFailed(err error) bool {
	var condErr *types.ConditionalCheckFailedException
	return errors.As(err, &condErr)
}
