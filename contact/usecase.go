package contact

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type Service interface {
	AddContact(ctx context.Context, ownerID string, in Input) (Contact, error)
	ListContacts(ctx context.Context, ownerID string) ([]Contact, error)
	UpdateContact(ctx context.Context, ownerID, id string, in Input) (Contact, error)
	DeleteContact(ctx context.Context, ownerID, id string) error
}

// Repository persists contacts. GetContact, UpdateContact and DeleteContact
// return ErrContactNotFound for unknown or malformed ids. ContactsByOwner
// returns the owner's contacts newest first.
type Repository interface {
	CreateContact(ctx context.Context, c Contact) (Contact, error)
	ContactsByOwner(ctx context.Context, ownerID string) ([]Contact, error)
	GetContact(ctx context.Context, id string) (Contact, error)
	UpdateContact(ctx context.Context, c Contact) (Contact, error)
	DeleteContact(ctx context.Context, id string) error
}

type Usecase struct {
	r         Repository
	publisher EventPublisher
	logger    *zap.SugaredLogger
	now       func() time.Time
}

type Option func(uc *Usecase)

func WithPublisher(p EventPublisher) Option {
	return func(uc *Usecase) {
		if p != nil {
			uc.publisher = p
		}
	}
}

func WithLogger(l *zap.SugaredLogger) Option {
	return func(uc *Usecase) {
		if l != nil {
			uc.logger = l
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(uc *Usecase) {
		if now != nil {
			uc.now = now
		}
	}
}

func NewUsecase(r Repository, opts ...Option) *Usecase {
	uc := &Usecase{
		r:         r,
		publisher: NopPublisher{},
		logger:    zap.NewNop().Sugar(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

func (uc *Usecase) AddContact(ctx context.Context, ownerID string, in Input) (Contact, error) {
	if ownerID == "" {
		return Contact{}, ErrOwnerRequired
	}

	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return Contact{}, err
	}

	c := Contact{Owner: ownerID, CreatedAt: uc.now().UTC()}.Apply(in)
	created, err := uc.r.CreateContact(ctx, c)
	if err != nil {
		return Contact{}, err
	}

	uc.publish(ctx, EventCreated, created)
	return created, nil
}

func (uc *Usecase) ListContacts(ctx context.Context, ownerID string) ([]Contact, error) {
	if ownerID == "" {
		return nil, ErrOwnerRequired
	}

	contacts, err := uc.r.ContactsByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if contacts == nil {
		contacts = []Contact{}
	}
	return contacts, nil
}

func (uc *Usecase) UpdateContact(ctx context.Context, ownerID, id string, in Input) (Contact, error) {
	existing, err := uc.owned(ctx, ownerID, id)
	if err != nil {
		return Contact{}, err
	}

	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return Contact{}, err
	}

	updated, err := uc.r.UpdateContact(ctx, existing.Apply(in))
	if err != nil {
		return Contact{}, err
	}

	uc.publish(ctx, EventUpdated, updated)
	return updated, nil
}

func (uc *Usecase) DeleteContact(ctx context.Context, ownerID, id string) error {
	existing, err := uc.owned(ctx, ownerID, id)
	if err != nil {
		return err
	}

	if err := uc.r.DeleteContact(ctx, existing.ID); err != nil {
		return err
	}

	uc.publish(ctx, EventDeleted, existing)
	return nil
}

// owned loads the contact and checks that ownerID owns it. The lookup and
// the later mutation are separate store calls.
func (uc *Usecase) owned(ctx context.Context, ownerID, id string) (Contact, error) {
	if ownerID == "" {
		return Contact{}, ErrOwnerRequired
	}

	c, err := uc.r.GetContact(ctx, id)
	if err != nil {
		return Contact{}, err
	}

	if !c.OwnedBy(ownerID) {
		return Contact{}, ErrNotAuthorized
	}
	return c, nil
}

func (uc *Usecase) publish(ctx context.Context, eventType string, c Contact) {
	e := Event{Type: eventType, Contact: c, OccurredAt: uc.now().UTC()}
	if err := uc.publisher.Publish(ctx, e); err != nil {
		uc.logger.Warnw("publish contact event failed", "type", eventType, "contact_id", c.ID, "error", err)
	}
}
