package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"contactmanager/contact"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type contactDocument struct {
	ID        bson.ObjectID `bson:"_id,omitempty"`
	User      string        `bson:"user"`
	Name      string        `bson:"name"`
	Email     string        `bson:"email"`
	Phone     string        `bson:"phone"`
	CreatedAt time.Time     `bson:"createdAt"`
}

func (d contactDocument) toDomain() contact.Contact {
	return contact.Contact{
		ID:        d.ID.Hex(),
		Owner:     d.User,
		Name:      d.Name,
		Email:     d.Email,
		Phone:     d.Phone,
		CreatedAt: d.CreatedAt.UTC(),
	}
}

// ContactRepository implements contact.Repository on a MongoDB collection.
// Ids are hex encoded ObjectIDs.
type ContactRepository struct {
	coll *mongo.Collection
}

func NewContactRepository(db *mongo.Database) *ContactRepository {
	return &ContactRepository{coll: db.Collection(ContactsCollection)}
}

func (r *ContactRepository) CreateContact(ctx context.Context, c contact.Contact) (contact.Contact, error) {
	doc := contactDocument{
		ID:        bson.NewObjectID(),
		User:      c.Owner,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		CreatedAt: c.CreatedAt.UTC().Truncate(time.Millisecond),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return contact.Contact{}, fmt.Errorf("mongodb: insert contact: %w", err)
	}
	return doc.toDomain(), nil
}

// ContactsByOwner sorts by createdAt then _id, both descending, so contacts
// created within the same millisecond keep insertion order.
func (r *ContactRepository) ContactsByOwner(ctx context.Context, ownerID string) ([]contact.Contact, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.D{{Key: "user", Value: ownerID}}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongodb: find contacts: %w", err)
	}

	var docs []contactDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongodb: decode contacts: %w", err)
	}

	contacts := make([]contact.Contact, len(docs))
	for i, doc := range docs {
		contacts[i] = doc.toDomain()
	}
	return contacts, nil
}

func (r *ContactRepository) GetContact(ctx context.Context, id string) (contact.Contact, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return contact.Contact{}, contact.ErrContactNotFound
	}

	var doc contactDocument
	err = r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return contact.Contact{}, contact.ErrContactNotFound
		}
		return contact.Contact{}, fmt.Errorf("mongodb: find contact: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ContactRepository) UpdateContact(ctx context.Context, c contact.Contact) (contact.Contact, error) {
	oid, err := bson.ObjectIDFromHex(c.ID)
	if err != nil {
		return contact.Contact{}, contact.ErrContactNotFound
	}

	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "name", Value: c.Name},
		{Key: "email", Value: c.Email},
		{Key: "phone", Value: c.Phone},
	}}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc contactDocument
	err = r.coll.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: oid}}, update, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return contact.Contact{}, contact.ErrContactNotFound
		}
		return contact.Contact{}, fmt.Errorf("mongodb: update contact: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ContactRepository) DeleteContact(ctx context.Context, id string) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return contact.ErrContactNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return fmt.Errorf("mongodb: delete contact: %w", err)
	}
	if res.DeletedCount == 0 {
		return contact.ErrContactNotFound
	}
	return nil
}
