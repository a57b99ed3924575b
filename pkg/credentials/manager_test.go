package credentials_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/jotter/pkg/core"
	"github.com/aretw0/jotter/pkg/credentials"
	"github.com/aretw0/jotter/pkg/kv"
)

func newManager(t *testing.T, store kv.Store, opts ...credentials.Option) *credentials.Manager {
	t.Helper()
	h, err := credentials.NewPBKDF2Hasher(credentials.MinIterations)
	require.NoError(t, err)
	return credentials.NewManager(store, append([]credentials.Option{credentials.WithHasher(h)}, opts...)...)
}

// failingStore reads from an in-memory store but refuses every write.
type failingStore struct {
	*kv.MemoryStore
}

func (failingStore) Set(context.Context, string, any) error {
	return core.ErrStorageIO.WithCause(errors.New("disk full"))
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("Returns Public View", func(t *testing.T) {
		created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
		m := newManager(t, kv.NewMemory(), credentials.WithClock(func() time.Time { return created }))

		u, err := m.Register(ctx, "alice", "secret1")
		require.NoError(t, err)
		assert.Equal(t, "alice", u.Identifier)
		assert.Equal(t, "alice", u.DisplayName)
		assert.NotEmpty(t, u.ID)

		raw, err := json.Marshal(u)
		require.NoError(t, err)
		assert.NotContains(t, string(raw), "passwordHash")
		assert.NotContains(t, string(raw), "passwordSalt")
	})

	t.Run("Stores Hash And Salt Only", func(t *testing.T) {
		store := kv.NewMemory()
		m := newManager(t, store)

		_, err := m.Register(ctx, "alice", "secret1")
		require.NoError(t, err)

		var users []core.User
		_, err = store.Get(ctx, core.KeyUsers, &users)
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.NotEqual(t, "secret1", users[0].PasswordHash)
		assert.NotEmpty(t, users[0].PasswordSalt)
		assert.Equal(t, credentials.MinIterations, users[0].KDFIterations)
		assert.True(t, m.Verify("secret1", users[0].PasswordHash, users[0].PasswordSalt))
	})

	t.Run("Duplicate Identifier", func(t *testing.T) {
		m := newManager(t, kv.NewMemory())

		_, err := m.Register(ctx, "alice", "secret1")
		require.NoError(t, err)

		_, err = m.Register(ctx, "alice", "anything")
		assert.ErrorIs(t, err, core.ErrDuplicateIdentifier)

		n, err := m.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("Identifier Policy", func(t *testing.T) {
		m := newManager(t, kv.NewMemory())

		_, err := m.Register(ctx, "  alice ", "secret1")
		require.NoError(t, err)

		_, err = m.Register(ctx, "alice", "x")
		assert.ErrorIs(t, err, core.ErrDuplicateIdentifier, "whitespace is trimmed")

		_, err = m.Register(ctx, "Alice", "x")
		assert.NoError(t, err, "identifiers are case-sensitive")
	})

	t.Run("Display Name From Email", func(t *testing.T) {
		m := newManager(t, kv.NewMemory())
		u, err := m.Register(ctx, "bob@example.com", "pw")
		require.NoError(t, err)
		assert.Equal(t, "bob", u.DisplayName)
	})

	t.Run("Validation", func(t *testing.T) {
		m := newManager(t, kv.NewMemory())

		_, err := m.Register(ctx, "   ", "pw")
		assert.ErrorIs(t, err, core.ErrValidation)

		_, err = m.Register(ctx, "alice", "")
		assert.ErrorIs(t, err, core.ErrValidation)
	})

	t.Run("Storage Failure Propagates", func(t *testing.T) {
		m := newManager(t, failingStore{kv.NewMemory()})
		_, err := m.Register(ctx, "alice", "secret1")
		assert.ErrorIs(t, err, core.ErrStorageIO)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	m := newManager(t, kv.NewMemory())

	registered, err := m.Register(ctx, "alice", "secret1")
	require.NoError(t, err)

	t.Run("Wrong Password", func(t *testing.T) {
		_, err := m.Login(ctx, "alice", "wrong")
		assert.ErrorIs(t, err, core.ErrInvalidCredentials)
	})

	t.Run("Off By One Character", func(t *testing.T) {
		for _, pw := range []string{"secret2", "secret", "secret11", "Secret1"} {
			_, err := m.Login(ctx, "alice", pw)
			assert.ErrorIs(t, err, core.ErrInvalidCredentials, pw)
		}
	})

	t.Run("Unknown Identifier", func(t *testing.T) {
		_, err := m.Login(ctx, "nobody", "secret1")
		assert.ErrorIs(t, err, core.ErrNotFound)
	})

	t.Run("Success", func(t *testing.T) {
		u, err := m.Login(ctx, "alice", "secret1")
		require.NoError(t, err)
		assert.Equal(t, registered, u)
	})
}

func TestLogin_OlderWorkFactor(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()

	_, err := newManager(t, store).Register(ctx, "alice", "secret1")
	require.NoError(t, err)

	stronger, err := credentials.NewPBKDF2Hasher(credentials.MinIterations * 2)
	require.NoError(t, err)
	m := credentials.NewManager(store, credentials.WithHasher(stronger))

	_, err = m.Login(ctx, "alice", "secret1")
	assert.NoError(t, err)
}

func TestFindByID(t *testing.T) {
	ctx := context.Background()
	m := newManager(t, kv.NewMemory())

	u, err := m.Register(ctx, "alice", "secret1")
	require.NoError(t, err)

	got, ok, err := m.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, u, got)

	exists, err := m.UserExists(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, exists)
}
