// Package view holds client-side screen state: the contact list with its
// add/edit form, and the signup/login forms.
package view

import (
	"context"
	"errors"
	"sync"
	"time"

	"contactmanager/client"
	"contactmanager/contact"
)

// DefaultStatusTTL is how long a status message stays visible.
const DefaultStatusTTL = 3 * time.Second

const (
	msgAdded        = "Contact added successfully!"
	msgUpdated      = "Contact updated successfully!"
	msgDeleted      = "Contact deleted successfully!"
	msgLoadFailed   = "Failed to load contacts"
	msgSaveFailed   = "Failed to save contact"
	msgDeleteFailed = "Failed to delete contact"
)

var ErrSubmitInProgress = errors.New("view: a request is already in progress")

// API is the part of the client the contact view calls.
type API interface {
	ListContacts(ctx context.Context, s client.Session) ([]contact.Contact, error)
	CreateContact(ctx context.Context, s client.Session, in contact.Input) (contact.Contact, error)
	UpdateContact(ctx context.Context, s client.Session, id string, in contact.Input) (contact.Contact, error)
	DeleteContact(ctx context.Context, s client.Session, id string) (string, error)
}

// TokenStore persists the session between runs.
type TokenStore interface {
	Load() (client.Session, error)
	Save(s client.Session) error
	Clear() error
}

type StatusKind int

const (
	StatusNone StatusKind = iota
	StatusError
	StatusSuccess
)

// Status is a transient message shown above the list.
type Status struct {
	Kind    StatusKind
	Message string
}

// Contacts is the contact list screen. It is safe for concurrent use; at most
// one create, update or delete runs at a time.
type Contacts struct {
	api            API
	tokens         TokenStore
	onAuthRejected func()
	now            func() time.Time
	statusTTL      time.Duration

	mu            sync.Mutex
	contacts      []contact.Contact
	editingID     string
	form          contact.Input
	status        Status
	statusExpires time.Time
	inFlight      bool
}

type Option func(v *Contacts)

// OnAuthRejected registers the redirect to the login entry point.
func OnAuthRejected(fn func()) Option {
	return func(v *Contacts) {
		v.onAuthRejected = fn
	}
}

func WithClock(now func() time.Time) Option {
	return func(v *Contacts) {
		if now != nil {
			v.now = now
		}
	}
}

func WithStatusTTL(d time.Duration) Option {
	return func(v *Contacts) {
		if d > 0 {
			v.statusTTL = d
		}
	}
}

func NewContacts(api API, tokens TokenStore, opts ...Option) *Contacts {
	v := &Contacts{
		api:            api,
		tokens:         tokens,
		onAuthRejected: func() {},
		now:            time.Now,
		statusTTL:      DefaultStatusTTL,
		contacts:       []contact.Contact{},
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Contacts returns a copy of the loaded list, newest first.
func (v *Contacts) Contacts() []contact.Contact {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]contact.Contact, len(v.contacts))
	copy(out, v.contacts)
	return out
}

func (v *Contacts) EditingID() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.editingID
}

func (v *Contacts) Form() contact.Input {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.form
}

func (v *Contacts) SetForm(in contact.Input) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.form = in
}

// Submitting reports whether a create, update or delete is outstanding.
func (v *Contacts) Submitting() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.inFlight
}

// Status returns the current message, or the zero Status once it expired.
func (v *Contacts) Status() Status {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.status.Kind != StatusNone && !v.now().Before(v.statusExpires) {
		v.status = Status{}
	}
	return v.status
}

// Load refetches the full list.
func (v *Contacts) Load(ctx context.Context) error {
	s, err := v.tokens.Load()
	if err != nil {
		return err
	}

	contacts, err := v.api.ListContacts(ctx, s)
	if err != nil {
		return v.fail(err, msgLoadFailed)
	}

	v.mu.Lock()
	v.contacts = contacts
	v.mu.Unlock()
	return nil
}

// Submit validates the form and creates a contact, or updates the one being
// edited. On success the form is reset and the list reloaded.
func (v *Contacts) Submit(ctx context.Context) error {
	v.mu.Lock()
	if v.inFlight {
		v.mu.Unlock()
		return ErrSubmitInProgress
	}
	in := v.form
	if fe := ValidateForm(in); fe != nil {
		v.mu.Unlock()
		return fe
	}
	editingID := v.editingID
	v.inFlight = true
	v.mu.Unlock()

	err := v.save(ctx, editingID, in)

	v.mu.Lock()
	v.inFlight = false
	if err == nil {
		v.form = contact.Input{}
		if editingID != "" {
			v.editingID = ""
			v.setStatus(StatusSuccess, msgUpdated)
		} else {
			v.setStatus(StatusSuccess, msgAdded)
		}
	}
	v.mu.Unlock()

	if err != nil {
		return v.fail(err, msgSaveFailed)
	}
	return v.Load(ctx)
}

func (v *Contacts) save(ctx context.Context, editingID string, in contact.Input) error {
	s, err := v.tokens.Load()
	if err != nil {
		return err
	}
	if editingID == "" {
		_, err = v.api.CreateContact(ctx, s, in)
		return err
	}
	_, err = v.api.UpdateContact(ctx, s, editingID, in)
	return err
}

// Edit fills the form with c and marks it as being edited.
func (v *Contacts) Edit(c contact.Contact) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.editingID = c.ID
	v.form = contact.Input{Name: c.Name, Email: c.Email, Phone: c.Phone}
}

func (v *Contacts) CancelEdit() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.editingID = ""
	v.form = contact.Input{}
}

// Delete removes id once confirm returns true; a nil confirm declines. It
// reports whether the delete was sent.
func (v *Contacts) Delete(ctx context.Context, id string, confirm func() bool) (bool, error) {
	if confirm == nil || !confirm() {
		return false, nil
	}

	v.mu.Lock()
	if v.inFlight {
		v.mu.Unlock()
		return false, ErrSubmitInProgress
	}
	v.inFlight = true
	v.mu.Unlock()

	err := v.remove(ctx, id)

	v.mu.Lock()
	v.inFlight = false
	if err == nil {
		v.setStatus(StatusSuccess, msgDeleted)
	}
	v.mu.Unlock()

	if err != nil {
		return true, v.fail(err, msgDeleteFailed)
	}
	return true, v.Load(ctx)
}

func (v *Contacts) remove(ctx context.Context, id string) error {
	s, err := v.tokens.Load()
	if err != nil {
		return err
	}
	_, err = v.api.DeleteContact(ctx, s, id)
	return err
}

// fail handles a failed request: an auth rejection drops the stored token and
// redirects, anything else becomes an error status.
func (v *Contacts) fail(err error, fallback string) error {
	if client.IsAuthRejected(err) {
		if cerr := v.tokens.Clear(); cerr != nil {
			return errors.Join(err, cerr)
		}
		v.onAuthRejected()
		return err
	}

	msg := client.ServerMessage(err)
	if msg == "" {
		msg = fallback
	}
	v.mu.Lock()
	v.setStatus(StatusError, msg)
	v.mu.Unlock()
	return err
}

// setStatus must be called with mu held.
func (v *Contacts) setStatus(kind StatusKind, msg string) {
	v.status = Status{Kind: kind, Message: msg}
	v.statusExpires = v.now().Add(v.statusTTL)
}
