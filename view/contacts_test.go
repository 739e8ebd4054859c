package view_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"contactmanager/client"
	"contactmanager/contact"
	"contactmanager/view"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAPI struct {
	mock.Mock
}

func (m *MockAPI) ListContacts(ctx context.Context, s client.Session) ([]contact.Contact, error) {
	args := m.Called(ctx, s)
	return args.Get(0).([]contact.Contact), args.Error(1)
}

func (m *MockAPI) CreateContact(ctx context.Context, s client.Session, in contact.Input) (contact.Contact, error) {
	args := m.Called(ctx, s, in)
	return args.Get(0).(contact.Contact), args.Error(1)
}

func (m *MockAPI) UpdateContact(ctx context.Context, s client.Session, id string, in contact.Input) (contact.Contact, error) {
	args := m.Called(ctx, s, id, in)
	return args.Get(0).(contact.Contact), args.Error(1)
}

func (m *MockAPI) DeleteContact(ctx context.Context, s client.Session, id string) (string, error) {
	args := m.Called(ctx, s, id)
	return args.String(0), args.Error(1)
}

// memTokens is a TokenStore held in memory.
type memTokens struct {
	mu      sync.Mutex
	session client.Session
	cleared int
}

func (m *memTokens) Load() (client.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session, nil
}

func (m *memTokens) Save(s client.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = s
	return nil
}

func (m *memTokens) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = client.Session{}
	m.cleared++
	return nil
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

var session = client.Session{Token: "tok"}

var (
	errTokenRejected = &client.APIError{Status: http.StatusUnauthorized, Msg: "Token is not valid", Code: "token_invalid"}
	errNotOwner      = &client.APIError{Status: http.StatusUnauthorized, Msg: "Not authorized"}
	errServer        = &client.APIError{Status: http.StatusInternalServerError}
)

type fixture struct {
	api        *MockAPI
	tokens     *memTokens
	clock      *fakeClock
	redirected int
	view       *view.Contacts
}

func newFixture() *fixture {
	f := &fixture{
		api:    new(MockAPI),
		tokens: &memTokens{session: session},
		clock:  &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	f.view = view.NewContacts(f.api, f.tokens,
		view.WithClock(f.clock.Now),
		view.OnAuthRejected(func() { f.redirected++ }),
	)
	return f
}

func TestContacts_Load(t *testing.T) {
	t.Run("stores the list", func(t *testing.T) {
		f := newFixture()
		list := []contact.Contact{{ID: "c2", Name: "Bea"}, {ID: "c1", Name: "Al"}}
		f.api.On("ListContacts", mock.Anything, session).Return(list, nil).Once()

		require.NoError(t, f.view.Load(context.Background()))

		assert.Equal(t, list, f.view.Contacts())
		assert.Equal(t, view.Status{}, f.view.Status())
	})

	t.Run("auth rejection clears token and redirects", func(t *testing.T) {
		f := newFixture()
		f.api.On("ListContacts", mock.Anything, session).Return([]contact.Contact(nil), errTokenRejected).Once()

		err := f.view.Load(context.Background())

		assert.True(t, client.IsAuthRejected(err))
		assert.Equal(t, 1, f.redirected)
		assert.Equal(t, 1, f.tokens.cleared)
		assert.Equal(t, view.Status{}, f.view.Status())
	})

	t.Run("other failures use the fallback message", func(t *testing.T) {
		f := newFixture()
		f.api.On("ListContacts", mock.Anything, session).Return([]contact.Contact(nil), errServer).Once()

		require.Error(t, f.view.Load(context.Background()))

		assert.Equal(t, view.Status{Kind: view.StatusError, Message: "Failed to load contacts"}, f.view.Status())
		assert.Zero(t, f.redirected)
	})
}

func TestContacts_SubmitCreate(t *testing.T) {
	f := newFixture()
	in := contact.Input{Name: "Ada", Email: "ada@example.com", Phone: "+15551234"}
	f.api.On("CreateContact", mock.Anything, session, in).Return(contact.Contact{ID: "c1"}, nil).Once()
	f.api.On("ListContacts", mock.Anything, session).Return([]contact.Contact{{ID: "c1", Name: "Ada"}}, nil).Once()

	f.view.SetForm(in)
	require.NoError(t, f.view.Submit(context.Background()))

	assert.Equal(t, contact.Input{}, f.view.Form())
	assert.Len(t, f.view.Contacts(), 1)
	assert.Equal(t, view.Status{Kind: view.StatusSuccess, Message: "Contact added successfully!"}, f.view.Status())
	f.api.AssertExpectations(t)
}

func TestContacts_SubmitUpdate(t *testing.T) {
	f := newFixture()
	existing := contact.Contact{ID: "c1", Name: "Ada", Email: "ada@example.com"}
	f.view.Edit(existing)
	assert.Equal(t, "c1", f.view.EditingID())
	assert.Equal(t, contact.Input{Name: "Ada", Email: "ada@example.com"}, f.view.Form())

	edited := contact.Input{Name: "Ada L.", Email: "ada@example.com"}
	f.api.On("UpdateContact", mock.Anything, session, "c1", edited).Return(contact.Contact{ID: "c1"}, nil).Once()
	f.api.On("ListContacts", mock.Anything, session).Return([]contact.Contact{}, nil).Once()

	f.view.SetForm(edited)
	require.NoError(t, f.view.Submit(context.Background()))

	assert.Empty(t, f.view.EditingID())
	assert.Equal(t, "Contact updated successfully!", f.view.Status().Message)
	f.api.AssertExpectations(t)
}

func TestContacts_SubmitValidation(t *testing.T) {
	f := newFixture()
	f.view.SetForm(contact.Input{Name: "A", Email: "nope", Phone: "0123"})

	err := f.view.Submit(context.Background())

	var fe view.FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "Name must be at least 2 characters", fe["name"])
	assert.Equal(t, "Please enter a valid email address", fe["email"])
	assert.Equal(t, "Please enter a valid phone number", fe["phone"])
	f.api.AssertNotCalled(t, "CreateContact", mock.Anything, mock.Anything, mock.Anything)
}

func TestContacts_SubmitFailure(t *testing.T) {
	t.Run("server message is shown", func(t *testing.T) {
		f := newFixture()
		f.view.Edit(contact.Contact{ID: "c9", Name: "Bob"})
		f.api.On("UpdateContact", mock.Anything, session, "c9", mock.Anything).Return(contact.Contact{}, errNotOwner).Once()

		require.Error(t, f.view.Submit(context.Background()))

		assert.Equal(t, view.Status{Kind: view.StatusError, Message: "Not authorized"}, f.view.Status())
		assert.Equal(t, "c9", f.view.EditingID(), "editing survives a failed save")
		assert.Zero(t, f.redirected, "ownership 401 is not an auth rejection")
	})

	t.Run("fallback without server message", func(t *testing.T) {
		f := newFixture()
		f.view.SetForm(contact.Input{Name: "Bob"})
		f.api.On("CreateContact", mock.Anything, session, mock.Anything).Return(contact.Contact{}, errors.New("dial tcp: refused")).Once()

		require.Error(t, f.view.Submit(context.Background()))

		assert.Equal(t, "Failed to save contact", f.view.Status().Message)
		assert.False(t, f.view.Submitting())
	})
}

func TestContacts_SubmitInProgress(t *testing.T) {
	f := newFixture()
	release := make(chan struct{})
	started := make(chan struct{})
	f.api.On("CreateContact", mock.Anything, session, mock.Anything).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(contact.Contact{ID: "c1"}, nil).Once()
	f.api.On("ListContacts", mock.Anything, session).Return([]contact.Contact{}, nil).Once()
	f.view.SetForm(contact.Input{Name: "Ada"})

	done := make(chan error, 1)
	go func() { done <- f.view.Submit(context.Background()) }()
	<-started

	assert.True(t, f.view.Submitting())
	assert.ErrorIs(t, f.view.Submit(context.Background()), view.ErrSubmitInProgress)
	_, err := f.view.Delete(context.Background(), "c1", func() bool { return true })
	assert.ErrorIs(t, err, view.ErrSubmitInProgress)

	close(release)
	require.NoError(t, <-done)
	f.api.AssertNumberOfCalls(t, "CreateContact", 1)
}

func TestContacts_StatusExpires(t *testing.T) {
	f := newFixture()
	f.api.On("ListContacts", mock.Anything, session).Return([]contact.Contact(nil), errServer).Once()
	_ = f.view.Load(context.Background())

	f.clock.Advance(2999 * time.Millisecond)
	assert.Equal(t, view.StatusError, f.view.Status().Kind)

	f.clock.Advance(time.Millisecond)
	assert.Equal(t, view.Status{}, f.view.Status())
}

func TestContacts_CancelEdit(t *testing.T) {
	f := newFixture()
	f.view.Edit(contact.Contact{ID: "c1", Name: "Ada"})

	f.view.CancelEdit()

	assert.Empty(t, f.view.EditingID())
	assert.Equal(t, contact.Input{}, f.view.Form())
}

func TestContacts_Delete(t *testing.T) {
	t.Run("declined sends nothing", func(t *testing.T) {
		f := newFixture()

		sent, err := f.view.Delete(context.Background(), "c1", func() bool { return false })

		require.NoError(t, err)
		assert.False(t, sent)
		f.api.AssertNotCalled(t, "DeleteContact", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("confirmed deletes and reloads", func(t *testing.T) {
		f := newFixture()
		f.api.On("DeleteContact", mock.Anything, session, "c1").Return("Contact removed", nil).Once()
		f.api.On("ListContacts", mock.Anything, session).Return([]contact.Contact{}, nil).Once()

		sent, err := f.view.Delete(context.Background(), "c1", func() bool { return true })

		require.NoError(t, err)
		assert.True(t, sent)
		assert.Equal(t, "Contact deleted successfully!", f.view.Status().Message)
		f.api.AssertExpectations(t)
	})

	t.Run("failure fallback", func(t *testing.T) {
		f := newFixture()
		f.api.On("DeleteContact", mock.Anything, session, "c1").Return("", errServer).Once()

		_, err := f.view.Delete(context.Background(), "c1", func() bool { return true })

		require.Error(t, err)
		assert.Equal(t, view.Status{Kind: view.StatusError, Message: "Failed to delete contact"}, f.view.Status())
	})

	t.Run("auth rejection redirects", func(t *testing.T) {
		f := newFixture()
		f.api.On("DeleteContact", mock.Anything, session, "c1").Return("", errTokenRejected).Once()

		_, err := f.view.Delete(context.Background(), "c1", func() bool { return true })

		require.Error(t, err)
		assert.Equal(t, 1, f.redirected)
		assert.True(t, f.tokens.session.Empty())
	})
}

func TestValidateForm(t *testing.T) {
	tests := []struct {
		name     string
		in       contact.Input
		expected view.FieldErrors
	}{
		{"valid minimal", contact.Input{Name: "Al"}, nil},
		{"valid full", contact.Input{Name: "Ada", Email: "ADA@Example.ORG", Phone: "+447911123456"}, nil},
		{"missing name", contact.Input{Name: "   "}, view.FieldErrors{"name": "Name is required"}},
		{"phone leading zero", contact.Input{Name: "Ada", Phone: "0799"}, view.FieldErrors{"phone": "Please enter a valid phone number"}},
		{"phone too long", contact.Input{Name: "Ada", Phone: "12345678901234567"}, view.FieldErrors{"phone": "Please enter a valid phone number"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, view.ValidateForm(tt.in))
		})
	}
}
