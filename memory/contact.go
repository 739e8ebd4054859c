package memory

import (
	"context"
	"sort"
	"sync"

	"contactmanager/contact"

	"github.com/google/uuid"
)

type contactRecord struct {
	contact.Contact
	seq uint64
}

// ContactRepository is an in-memory implementation of contact.Repository.
type ContactRepository struct {
	contacts map[string]contactRecord
	seq      uint64
	mu       sync.RWMutex
}

// NewContactRepository creates an empty ContactRepository.
func NewContactRepository() *ContactRepository {
	return &ContactRepository{
		contacts: make(map[string]contactRecord),
	}
}

// CreateContact stores c under a fresh id.
func (r *ContactRepository) CreateContact(_ context.Context, c contact.Contact) (contact.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c.ID = uuid.NewString()
	r.seq++
	r.contacts[c.ID] = contactRecord{Contact: c, seq: r.seq}
	return c, nil
}

// ContactsByOwner returns the owner's contacts newest first. Equal creation
// times fall back to insertion order.
func (r *ContactRepository) ContactsByOwner(_ context.Context, ownerID string) ([]contact.Contact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := make([]contactRecord, 0)
	for _, rec := range r.contacts {
		if rec.Owner == ownerID {
			records = append(records, rec)
		}
	}

	sort.Slice(records, func(i, j int) bool {
		if !records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].CreatedAt.After(records[j].CreatedAt)
		}
		return records[i].seq > records[j].seq
	})

	contacts := make([]contact.Contact, 0, len(records))
	for _, rec := range records {
		contacts = append(contacts, rec.Contact)
	}
	return contacts, nil
}

// GetContact returns a contact by its ID.
func (r *ContactRepository) GetContact(_ context.Context, id string) (contact.Contact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.contacts[id]
	if !ok {
		return contact.Contact{}, contact.ErrContactNotFound
	}
	return rec.Contact, nil
}

// UpdateContact replaces the editable fields of an existing contact.
func (r *ContactRepository) UpdateContact(_ context.Context, c contact.Contact) (contact.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.contacts[c.ID]
	if !ok {
		return contact.Contact{}, contact.ErrContactNotFound
	}
	rec.Contact = rec.Contact.Apply(contact.Input{Name: c.Name, Email: c.Email, Phone: c.Phone})
	r.contacts[c.ID] = rec
	return rec.Contact, nil
}

// DeleteContact removes a contact by its ID.
func (r *ContactRepository) DeleteContact(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.contacts[id]; !ok {
		return contact.ErrContactNotFound
	}
	delete(r.contacts, id)
	return nil
}
