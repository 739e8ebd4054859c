package contact_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"contactmanager/contact"
	"contactmanager/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tickingClock advances by one millisecond per call.
type tickingClock struct {
	mu  sync.Mutex
	cur time.Time
}

func (c *tickingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cur = c.cur.Add(time.Millisecond)
	return c.cur
}

func newMemoryUsecase() *contact.Usecase {
	clock := &tickingClock{cur: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	return contact.NewUsecase(memory.NewContactRepository(), contact.WithClock(clock.Now))
}

func TestOwnershipIsolation(t *testing.T) {
	ctx := context.Background()
	uc := newMemoryUsecase()

	aliceContact, err := uc.AddContact(ctx, "alice", contact.Input{Name: "Alice's friend"})
	require.NoError(t, err)
	_, err = uc.AddContact(ctx, "bob", contact.Input{Name: "Bob's friend"})
	require.NoError(t, err)

	t.Run("list never leaks another owner's contacts", func(t *testing.T) {
		for _, owner := range []string{"alice", "bob", "carol"} {
			list, err := uc.ListContacts(ctx, owner)
			require.NoError(t, err)
			for _, c := range list {
				assert.Equal(t, owner, c.Owner)
			}
		}
	})

	t.Run("non-owner cannot update", func(t *testing.T) {
		_, err := uc.UpdateContact(ctx, "bob", aliceContact.ID, contact.Input{Name: "Hacked"})
		assert.Equal(t, contact.ErrNotAuthorized, err)

		list, err := uc.ListContacts(ctx, "alice")
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "Alice's friend", list[0].Name)
	})

	t.Run("non-owner cannot delete", func(t *testing.T) {
		err := uc.DeleteContact(ctx, "bob", aliceContact.ID)
		assert.Equal(t, contact.ErrNotAuthorized, err)

		list, err := uc.ListContacts(ctx, "alice")
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})
}

func TestListOrdering(t *testing.T) {
	ctx := context.Background()
	uc := newMemoryUsecase()

	var ids []string
	for i := 0; i < 5; i++ {
		c, err := uc.AddContact(ctx, "alice", contact.Input{Name: fmt.Sprintf("contact %d", i)})
		require.NoError(t, err)
		ids = append(ids, c.ID)
	}

	list, err := uc.ListContacts(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, list, 5)

	for i := range list {
		assert.Equal(t, ids[len(ids)-1-i], list[i].ID)
		if i > 0 {
			assert.True(t, list[i-1].CreatedAt.After(list[i].CreatedAt))
		}
	}
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	uc := newMemoryUsecase()
	in := contact.Input{Name: "Jane", Email: "jane@example.com", Phone: "+4412345"}

	created, err := uc.AddContact(ctx, "alice", in)
	require.NoError(t, err)

	list, err := uc.ListContacts(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, created, list[0])
	assert.Equal(t, in, contact.Input{Name: list[0].Name, Email: list[0].Email, Phone: list[0].Phone})

	updated, err := uc.UpdateContact(ctx, "alice", created.ID, contact.Input{Name: "Janet"})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.Equal(t, "", updated.Email)

	require.NoError(t, uc.DeleteContact(ctx, "alice", created.ID))

	err = uc.DeleteContact(ctx, "alice", created.ID)
	assert.Equal(t, contact.ErrContactNotFound, err)

	list, err = uc.ListContacts(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, list)
}
