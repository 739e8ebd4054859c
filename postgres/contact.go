package postgres

import (
	"context"
	"errors"
	"time"

	"contactmanager/contact"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContactModel represents the database model for contacts
type ContactModel struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	UserID    string    `gorm:"type:uuid;not null;index"`
	Name      string    `gorm:"not null"`
	Email     string    `gorm:"not null"`
	Phone     string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
	// Seq is assigned by the database and breaks created_at ties in insertion order.
	Seq int64 `gorm:"->"`
}

// TableName specifies the table name for GORM
func (ContactModel) TableName() string {
	return "contacts"
}

// ContactRepository implements contact.Repository interface
type ContactRepository struct {
	db *gorm.DB
}

// NewContactRepository creates a new contact repository
func NewContactRepository(db *gorm.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

// CreateContact inserts c under a fresh UUID. CreatedAt is truncated to the
// microsecond precision of TIMESTAMPTZ so the result matches later reads.
func (r *ContactRepository) CreateContact(ctx context.Context, c contact.Contact) (contact.Contact, error) {
	c.ID = uuid.NewString()
	c.CreatedAt = c.CreatedAt.Truncate(time.Microsecond)
	model := toContactModel(c)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return contact.Contact{}, err
	}
	return toDomainContact(model), nil
}

// ContactsByOwner lists the owner's contacts newest first.
func (r *ContactRepository) ContactsByOwner(ctx context.Context, ownerID string) ([]contact.Contact, error) {
	var models []ContactModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("created_at DESC").
		Order("seq DESC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	contacts := make([]contact.Contact, len(models))
	for i, model := range models {
		contacts[i] = toDomainContact(model)
	}
	return contacts, nil
}

func (r *ContactRepository) GetContact(ctx context.Context, id string) (contact.Contact, error) {
	if uuid.Validate(id) != nil {
		return contact.Contact{}, contact.ErrContactNotFound
	}

	var model ContactModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return contact.Contact{}, contact.ErrContactNotFound
		}
		return contact.Contact{}, err
	}
	return toDomainContact(model), nil
}

// UpdateContact replaces name, email and phone and returns the stored row.
func (r *ContactRepository) UpdateContact(ctx context.Context, c contact.Contact) (contact.Contact, error) {
	if uuid.Validate(c.ID) != nil {
		return contact.Contact{}, contact.ErrContactNotFound
	}

	result := r.db.WithContext(ctx).Model(&ContactModel{}).Where("id = ?", c.ID).Updates(map[string]interface{}{
		"name":  c.Name,
		"email": c.Email,
		"phone": c.Phone,
	})
	if result.Error != nil {
		return contact.Contact{}, result.Error
	}
	if result.RowsAffected == 0 {
		return contact.Contact{}, contact.ErrContactNotFound
	}
	return r.GetContact(ctx, c.ID)
}

func (r *ContactRepository) DeleteContact(ctx context.Context, id string) error {
	if uuid.Validate(id) != nil {
		return contact.ErrContactNotFound
	}

	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&ContactModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return contact.ErrContactNotFound
	}
	return nil
}

func toContactModel(c contact.Contact) ContactModel {
	return ContactModel{
		ID:        c.ID,
		UserID:    c.Owner,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		CreatedAt: c.CreatedAt.UTC(),
	}
}

func toDomainContact(model ContactModel) contact.Contact {
	return contact.Contact{
		ID:        model.ID,
		Owner:     model.UserID,
		Name:      model.Name,
		Email:     model.Email,
		Phone:     model.Phone,
		CreatedAt: model.CreatedAt.UTC(),
	}
}
